package domain

import "time"

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
	TableMerged    TableStatus = "merged"
	TableInactive  TableStatus = "inactive"
)

// Table is one physical seating unit. TableNumber is a string so merged
// tables can carry composite ids like "5-6".
type Table struct {
	ID             uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	TableNumber    string      `json:"tableNumber" gorm:"uniqueIndex;size:32;not null"`
	Capacity       int         `json:"capacity" gorm:"default:4"`
	Status         TableStatus `json:"status" gorm:"size:16;index;default:'available'"`
	Location       string      `json:"location,omitempty" gorm:"size:32"`
	CurrentOrderID *uint64     `json:"currentOrderId,omitempty"`
	MergedWith     []string    `json:"mergedWith,omitempty" gorm:"serializer:json"`
	IsActive       bool        `json:"isActive" gorm:"default:true"`
	Notes          string      `json:"notes,omitempty" gorm:"size:256"`
	LastOccupiedAt *time.Time  `json:"lastOccupiedAt,omitempty"`
	LastClearedAt  *time.Time  `json:"lastClearedAt,omitempty"`
	CreatedAt      time.Time   `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      time.Time   `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Occupy links the table to its active order.
func (t *Table) Occupy(orderID uint64, at time.Time) {
	t.Status = TableOccupied
	t.CurrentOrderID = &orderID
	t.LastOccupiedAt = &at
}

// Clear frees the table after payment.
func (t *Table) Clear(at time.Time) {
	t.Status = TableAvailable
	t.CurrentOrderID = nil
	t.LastClearedAt = &at
}
