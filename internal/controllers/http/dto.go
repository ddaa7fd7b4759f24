package http

import "firstbite/internal/domain"

type OrderItemRequest struct {
	MenuItemID          uint64 `json:"menuItemId" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required,min=1"`
	SpecialInstructions string `json:"specialInstructions"`
}

type CreateOrderRequest struct {
	Channel         string             `json:"channel" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	UserID          string             `json:"userId"`
	TableNumber     string             `json:"tableNumber"`
	CustomerName    string             `json:"customerName"`
	GuestCount      int                `json:"guestCount"`
	CustomerNotes   string             `json:"customerNotes"`
	PaymentMethod   string             `json:"paymentMethod"`
	DistanceKm      float64            `json:"distanceKm"`
	DiscountAmount  float64            `json:"discountAmount"`
	DiscountPercent float64            `json:"discountPercent"`
}

type AddItemsRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type SetItemStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CompletePaymentRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
	MachineID     string `json:"machineId"`
	TransactionID string `json:"transactionId"`
	ApprovalCode  string `json:"approvalCode"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type CalculateChargesRequest struct {
	Subtotal        float64 `json:"subtotal" binding:"required"`
	Channel         string  `json:"channel" binding:"required"`
	ItemCount       int     `json:"itemCount"`
	DistanceKm      float64 `json:"distanceKm"`
	DiscountAmount  float64 `json:"discountAmount"`
	DiscountPercent float64 `json:"discountPercent"`
}

type CreateTableRequest struct {
	TableNumber string `json:"tableNumber" binding:"required"`
	Capacity    int    `json:"capacity"`
	Location    string `json:"location"`
	Notes       string `json:"notes"`
}

type MergeTablesRequest struct {
	MergeTables []string `json:"mergeTables" binding:"required,min=1"`
}

type AddItemsResponse struct {
	Order                 *domain.Order `json:"order"`
	NeedsBillRegeneration bool          `json:"needsBillRegeneration"`
}
