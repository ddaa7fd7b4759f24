package services

import (
	"time"

	"firstbite/internal/domain"
	"firstbite/internal/infra"
)

func CreateMockOrder(id uint64, channel domain.Channel, status domain.OrderStatus, items []domain.OrderItem) *domain.Order {
	o := &domain.Order{
		ID:            id,
		OrderNumber:   "IH-20250205-001",
		Channel:       channel,
		Items:         items,
		PaymentStatus: domain.PaymentPending,
		OrderStatus:   status,
		StatusHistory: []domain.StatusEntry{
			{Status: status, Timestamp: time.Now(), Note: "seeded", UpdatedBy: "test"},
		},
		CreatedAt: time.Now(),
	}
	if channel == domain.ChannelInHouse {
		o.TableNumber = TestTableNumber
	}
	return o
}

func CreateMockItems(statuses ...domain.ItemStatus) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(statuses))
	for i, st := range statuses {
		items = append(items, domain.OrderItem{
			ItemID:     uint64(i + 1),
			MenuItemID: uint64(i + 1),
			Name:       "Item",
			Quantity:   1,
			Price:      100,
			Status:     st,
		})
	}
	return items
}

func CreateMockMenuItem(id uint64, name string, price float64, available bool) *infra.MenuItemInfo {
	return &infra.MenuItemInfo{
		ID:          id,
		Name:        name,
		Price:       price,
		Category:    "Test Category",
		IsAvailable: available,
	}
}

const (
	TestTableNumber = "5"
	TestActor       = "admin-1"
	TestMenuItemID  = uint64(1)
	TestOrderID     = uint64(1)
)
