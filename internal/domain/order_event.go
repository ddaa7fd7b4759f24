package domain

import "time"

type OrderCreatedEvent struct {
	OrderID     uint64    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Channel     Channel   `json:"channel"`
	TableNumber string    `json:"tableNumber,omitempty"`
	FinalAmount float64   `json:"finalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID     uint64      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	OldStatus   OrderStatus `json:"oldStatus"`
	NewStatus   OrderStatus `json:"newStatus"`
	ChangedAt   time.Time   `json:"changedAt"`
}

type PaymentCompletedEvent struct {
	OrderID     uint64    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Method      string    `json:"method"`
	Amount      float64   `json:"amount"`
	CompletedAt time.Time `json:"completedAt"`
}
