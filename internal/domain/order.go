package domain

import "time"

type OrderStatus string

const (
	StatusPlaced     OrderStatus = "placed"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusPreparing  OrderStatus = "preparing"
	StatusReady      OrderStatus = "ready"
	StatusServed     OrderStatus = "served"
	StatusBilling    OrderStatus = "billing"
	StatusDispatched OrderStatus = "dispatched"
	StatusDelivered  OrderStatus = "delivered"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// ActiveStatuses are the order states that keep a dine-in table occupied.
var ActiveStatuses = []OrderStatus{StatusConfirmed, StatusPreparing, StatusReady, StatusServed, StatusBilling}

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemPreparing ItemStatus = "preparing"
	ItemReady     ItemStatus = "ready"
	ItemServed    ItemStatus = "served"
)

// itemStatusRank orders item states for the monotonicity check; items never
// move backward.
var itemStatusRank = map[ItemStatus]int{
	ItemPending:   0,
	ItemPreparing: 1,
	ItemReady:     2,
	ItemServed:    3,
}

func (s ItemStatus) Valid() bool {
	_, ok := itemStatusRank[s]
	return ok
}

// CanAdvanceTo reports whether an item may move from s to next.
func (s ItemStatus) CanAdvanceTo(next ItemStatus) bool {
	return itemStatusRank[next] >= itemStatusRank[s]
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type OrderItem struct {
	ItemID              uint64     `json:"itemId"`
	MenuItemID          uint64     `json:"menuItemId"`
	Name                string     `json:"name"`
	Quantity            int        `json:"quantity"`
	Price               float64    `json:"price"` // unit price snapshotted at order time
	SpecialInstructions string     `json:"specialInstructions,omitempty"`
	Status              ItemStatus `json:"status"`
}

type StatusEntry struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Note      string      `json:"note,omitempty"`
	UpdatedBy string      `json:"updatedBy,omitempty"`
}

// PaymentDetail records in-person card/UPI machine payments.
type PaymentDetail struct {
	MachineID     string    `json:"machineId,omitempty"`
	TransactionID string    `json:"transactionId,omitempty"`
	ApprovalCode  string    `json:"approvalCode,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type Order struct {
	ID               uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber      string         `json:"orderNumber" gorm:"uniqueIndex;size:32;not null"`
	Channel          Channel        `json:"channel" gorm:"size:16;index;not null"`
	UserID           string         `json:"userId,omitempty" gorm:"size:64;index"`
	CustomerName     string         `json:"customerName,omitempty" gorm:"size:128"`
	GuestCount       int            `json:"guestCount,omitempty"`
	TableNumber      string         `json:"tableNumber,omitempty" gorm:"size:32;index"`
	// DistanceKm is snapshotted at creation so charge recomputation after
	// item changes reuses the same delivery distance.
	DistanceKm       float64        `json:"distanceKm,omitempty"`
	Items            []OrderItem    `json:"items" gorm:"serializer:json"`
	TotalAmount      float64        `json:"totalAmount"`
	DiscountAmount   float64        `json:"discountAmount"`
	DeliveryCharges  float64        `json:"deliveryCharges"`
	Taxes            float64        `json:"taxes"`
	ServiceCharge    float64        `json:"serviceCharge"`
	PackagingCharges float64        `json:"packagingCharges"`
	RoundOff         float64        `json:"roundOff"`
	FinalAmount      float64        `json:"finalAmount"`
	PaymentMethod    string         `json:"paymentMethod" gorm:"size:32"`
	PaymentStatus    PaymentStatus  `json:"paymentStatus" gorm:"size:16;default:'pending'"`
	PaymentDetail    *PaymentDetail `json:"paymentDetail,omitempty" gorm:"serializer:json"`
	OrderStatus      OrderStatus    `json:"orderStatus" gorm:"size:16;index"`
	StatusHistory    []StatusEntry  `json:"statusHistory" gorm:"serializer:json"`
	BillGenerated    bool           `json:"billGenerated"`
	BillGeneratedAt  *time.Time     `json:"billGeneratedAt,omitempty"`
	CustomerNotes    string         `json:"customerNotes,omitempty" gorm:"size:512"`
	CreatedAt        time.Time      `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt        time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Closed reports whether the order can no longer be modified: payment went
// through or the order was cancelled.
func (o *Order) Closed() bool {
	return o.PaymentStatus == PaymentCompleted || o.OrderStatus == StatusCancelled
}

// SetStatus moves the order to status and appends a history entry, unless the
// last entry already records that same status.
func (o *Order) SetStatus(status OrderStatus, note, actor string) {
	o.OrderStatus = status
	if n := len(o.StatusHistory); n > 0 && o.StatusHistory[n-1].Status == status {
		return
	}
	o.StatusHistory = append(o.StatusHistory, StatusEntry{
		Status:    status,
		Timestamp: time.Now(),
		Note:      note,
		UpdatedBy: actor,
	})
}

// NextItemID returns the id for the next line appended to the order.
func (o *Order) NextItemID() uint64 {
	var max uint64
	for _, it := range o.Items {
		if it.ItemID > max {
			max = it.ItemID
		}
	}
	return max + 1
}

func (o *Order) Item(itemID uint64) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ItemID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// Subtotal recomputes the line-item sum from snapshotted prices.
func (o *Order) Subtotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += round2(it.Price * float64(it.Quantity))
	}
	return round2(sum)
}

// TotalQuantity is the unit count used for per-item packaging charges.
func (o *Order) TotalQuantity() int {
	var n int
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// DeriveStatus computes the order status implied by the item statuses.
// It returns the status the order should hold and whether that differs from
// current. Terminal orders are never changed.
func DeriveStatus(current OrderStatus, items []OrderItem) (OrderStatus, bool) {
	if current.Terminal() || len(items) == 0 {
		return current, false
	}

	var anyPending, anyPreparing bool
	allServed, allReadyOrServed := true, true
	for _, it := range items {
		switch it.Status {
		case ItemPending:
			anyPending = true
			allServed = false
			allReadyOrServed = false
		case ItemPreparing:
			anyPreparing = true
			allServed = false
			allReadyOrServed = false
		case ItemReady:
			allServed = false
		}
	}

	switch {
	case anyPending && (current == StatusServed || current == StatusBilling):
		// New items invalidate a previously served/billed order.
		return StatusConfirmed, true
	case allServed && current != StatusBilling:
		return StatusServed, current != StatusServed
	case allReadyOrServed && current != StatusServed && current != StatusBilling:
		return StatusReady, current != StatusReady
	case anyPreparing && current == StatusConfirmed:
		return StatusPreparing, true
	}
	return current, false
}

// Rederive applies the auto-derivation rule for dine-in orders. It returns
// whether the order status changed and whether a previously generated bill
// was invalidated by the change.
func (o *Order) Rederive() (changed, billInvalidated bool) {
	if o.Channel != ChannelInHouse {
		return false, false
	}
	next, ok := DeriveStatus(o.OrderStatus, o.Items)
	if !ok {
		return false, false
	}
	if next == StatusConfirmed && (o.OrderStatus == StatusServed || o.OrderStatus == StatusBilling) && o.BillGenerated {
		o.BillGenerated = false
		o.BillGeneratedAt = nil
		billInvalidated = true
	}
	o.SetStatus(next, "Auto-updated from item progress", "system")
	return true, billInvalidated
}

type BillLine struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// Bill is the frozen invoice view presented before payment.
type Bill struct {
	OrderNumber      string     `json:"orderNumber"`
	TableNumber      string     `json:"tableNumber,omitempty"`
	CustomerName     string     `json:"customerName,omitempty"`
	GuestCount       int        `json:"guestCount,omitempty"`
	Items            []BillLine `json:"items"`
	Subtotal         float64    `json:"subtotal"`
	Taxes            float64    `json:"taxes"`
	ServiceCharge    float64    `json:"serviceCharge"`
	DeliveryCharges  float64    `json:"deliveryCharges"`
	PackagingCharges float64    `json:"packagingCharges"`
	Discount         float64    `json:"discount"`
	RoundOff         float64    `json:"roundOff"`
	GrandTotal       float64    `json:"grandTotal"`
	GeneratedAt      time.Time  `json:"generatedAt"`
}

// BillView freezes the order's stored amounts into a presentable invoice.
func (o *Order) BillView() *Bill {
	lines := make([]BillLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, BillLine{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Total:    round2(it.Price * float64(it.Quantity)),
		})
	}
	bill := &Bill{
		OrderNumber:      o.OrderNumber,
		TableNumber:      o.TableNumber,
		CustomerName:     o.CustomerName,
		GuestCount:       o.GuestCount,
		Items:            lines,
		Subtotal:         o.TotalAmount,
		Taxes:            o.Taxes,
		ServiceCharge:    o.ServiceCharge,
		DeliveryCharges:  o.DeliveryCharges,
		PackagingCharges: o.PackagingCharges,
		Discount:         o.DiscountAmount,
		RoundOff:         o.RoundOff,
		GrandTotal:       o.FinalAmount,
	}
	if o.BillGeneratedAt != nil {
		bill.GeneratedAt = *o.BillGeneratedAt
	}
	return bill
}

// OrderCounter backs the day-scoped sequence for dine-in and takeaway order
// numbers. One row per (channel, day), incremented atomically.
type OrderCounter struct {
	ID      uint64  `gorm:"primaryKey;autoIncrement"`
	Channel Channel `gorm:"size:16;not null;uniqueIndex:idx_counter_channel_day"`
	Day     string  `gorm:"size:8;not null;uniqueIndex:idx_counter_channel_day"`
	Seq     int64   `gorm:"not null;default:0"`
}
