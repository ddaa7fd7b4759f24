package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(statuses ...ItemStatus) []OrderItem {
	out := make([]OrderItem, 0, len(statuses))
	for i, st := range statuses {
		out = append(out, OrderItem{ItemID: uint64(i + 1), MenuItemID: uint64(i + 1), Quantity: 1, Price: 100, Status: st})
	}
	return out
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name        string
		current     OrderStatus
		items       []OrderItem
		wantStatus  OrderStatus
		wantChanged bool
	}{
		{
			name:        "all pending keeps confirmed",
			current:     StatusConfirmed,
			items:       items(ItemPending, ItemPending, ItemPending),
			wantStatus:  StatusConfirmed,
			wantChanged: false,
		},
		{
			name:        "any preparing moves confirmed to preparing",
			current:     StatusConfirmed,
			items:       items(ItemPreparing, ItemPending),
			wantStatus:  StatusPreparing,
			wantChanged: true,
		},
		{
			name:        "all ready moves to ready",
			current:     StatusConfirmed,
			items:       items(ItemReady, ItemReady, ItemReady),
			wantStatus:  StatusReady,
			wantChanged: true,
		},
		{
			name:        "mixed ready and served counts as ready",
			current:     StatusPreparing,
			items:       items(ItemReady, ItemServed),
			wantStatus:  StatusReady,
			wantChanged: true,
		},
		{
			name:        "all served moves to served",
			current:     StatusReady,
			items:       items(ItemServed, ItemServed, ItemServed),
			wantStatus:  StatusServed,
			wantChanged: true,
		},
		{
			name:        "all served is idempotent",
			current:     StatusServed,
			items:       items(ItemServed, ItemServed),
			wantStatus:  StatusServed,
			wantChanged: false,
		},
		{
			name:        "pending item reverts served order to confirmed",
			current:     StatusServed,
			items:       items(ItemServed, ItemServed, ItemPending),
			wantStatus:  StatusConfirmed,
			wantChanged: true,
		},
		{
			name:        "pending item reverts billing order to confirmed",
			current:     StatusBilling,
			items:       items(ItemReady, ItemServed, ItemPending),
			wantStatus:  StatusConfirmed,
			wantChanged: true,
		},
		{
			name:        "billing order stays billing while all served",
			current:     StatusBilling,
			items:       items(ItemServed, ItemServed),
			wantStatus:  StatusBilling,
			wantChanged: false,
		},
		{
			name:        "preparing items do not touch a ready order",
			current:     StatusReady,
			items:       items(ItemPreparing, ItemReady),
			wantStatus:  StatusReady,
			wantChanged: false,
		},
		{
			name:        "completed order never changes",
			current:     StatusCompleted,
			items:       items(ItemPending),
			wantStatus:  StatusCompleted,
			wantChanged: false,
		},
		{
			name:        "cancelled order never changes",
			current:     StatusCancelled,
			items:       items(ItemServed, ItemServed),
			wantStatus:  StatusCancelled,
			wantChanged: false,
		},
		{
			name:        "no items means no change",
			current:     StatusConfirmed,
			items:       nil,
			wantStatus:  StatusConfirmed,
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := DeriveStatus(tt.current, tt.items)
			assert.Equal(t, tt.wantStatus, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestOrder_Rederive(t *testing.T) {
	t.Run("appends one history entry per change", func(t *testing.T) {
		o := &Order{
			Channel:     ChannelInHouse,
			OrderStatus: StatusConfirmed,
			Items:       items(ItemReady, ItemReady),
		}

		changed, billInvalidated := o.Rederive()
		assert.True(t, changed)
		assert.False(t, billInvalidated)
		assert.Equal(t, StatusReady, o.OrderStatus)
		require.Len(t, o.StatusHistory, 1)
		assert.Equal(t, "system", o.StatusHistory[0].UpdatedBy)
	})

	t.Run("idempotent on unchanged items", func(t *testing.T) {
		o := &Order{
			Channel:     ChannelInHouse,
			OrderStatus: StatusConfirmed,
			Items:       items(ItemServed, ItemServed),
		}

		changed, _ := o.Rederive()
		assert.True(t, changed)
		historyLen := len(o.StatusHistory)

		changed, _ = o.Rederive()
		assert.False(t, changed)
		assert.Len(t, o.StatusHistory, historyLen)
	})

	t.Run("pending item invalidates a generated bill", func(t *testing.T) {
		at := time.Now()
		o := &Order{
			Channel:         ChannelInHouse,
			OrderStatus:     StatusBilling,
			Items:           items(ItemServed, ItemServed, ItemPending),
			BillGenerated:   true,
			BillGeneratedAt: &at,
		}

		changed, billInvalidated := o.Rederive()
		assert.True(t, changed)
		assert.True(t, billInvalidated)
		assert.Equal(t, StatusConfirmed, o.OrderStatus)
		assert.False(t, o.BillGenerated)
		assert.Nil(t, o.BillGeneratedAt)
	})

	t.Run("only applies to dine-in orders", func(t *testing.T) {
		o := &Order{
			Channel:     ChannelOnline,
			OrderStatus: StatusPlaced,
			Items:       items(ItemServed, ItemServed),
		}

		changed, _ := o.Rederive()
		assert.False(t, changed)
		assert.Equal(t, StatusPlaced, o.OrderStatus)
	})
}

func TestOrder_SetStatus(t *testing.T) {
	o := &Order{Channel: ChannelInHouse}

	o.SetStatus(StatusConfirmed, "Order placed", "admin-1")
	o.SetStatus(StatusPreparing, "Kitchen started", "admin-1")
	require.Len(t, o.StatusHistory, 2)

	// Repeating the current status never duplicates the last entry.
	o.SetStatus(StatusPreparing, "again", "admin-1")
	assert.Len(t, o.StatusHistory, 2)
	assert.Equal(t, StatusPreparing, o.OrderStatus)
}

func TestOrder_Closed(t *testing.T) {
	o := &Order{PaymentStatus: PaymentPending, OrderStatus: StatusServed}
	assert.False(t, o.Closed())

	o.PaymentStatus = PaymentCompleted
	assert.True(t, o.Closed())

	o = &Order{PaymentStatus: PaymentPending, OrderStatus: StatusCancelled}
	assert.True(t, o.Closed())
}

func TestItemStatus_CanAdvanceTo(t *testing.T) {
	assert.True(t, ItemPending.CanAdvanceTo(ItemPreparing))
	assert.True(t, ItemPreparing.CanAdvanceTo(ItemServed))
	assert.True(t, ItemReady.CanAdvanceTo(ItemReady))
	assert.False(t, ItemServed.CanAdvanceTo(ItemReady))
	assert.False(t, ItemReady.CanAdvanceTo(ItemPending))
}

func TestOrder_Subtotal(t *testing.T) {
	o := &Order{Items: []OrderItem{
		{Quantity: 2, Price: 99.99},
		{Quantity: 1, Price: 0.01},
	}}
	assert.InDelta(t, 199.99, o.Subtotal(), 0.001)
	assert.Equal(t, 3, o.TotalQuantity())
}

func TestOrder_BillView(t *testing.T) {
	at := time.Now()
	o := &Order{
		OrderNumber:     "IH-20250205-001",
		TableNumber:     "5",
		Items:           []OrderItem{{Name: "Masala Dosa", Quantity: 2, Price: 120, Status: ItemServed}},
		TotalAmount:     240,
		Taxes:           12,
		FinalAmount:     252,
		BillGenerated:   true,
		BillGeneratedAt: &at,
	}

	bill := o.BillView()
	require.Len(t, bill.Items, 1)
	assert.Equal(t, "Masala Dosa", bill.Items[0].Name)
	assert.Equal(t, 240.00, bill.Items[0].Total)
	assert.Equal(t, 240.00, bill.Subtotal)
	assert.Equal(t, 252.00, bill.GrandTotal)
	assert.Equal(t, at, bill.GeneratedAt)
}

func TestOrder_NextItemID(t *testing.T) {
	o := &Order{}
	assert.Equal(t, uint64(1), o.NextItemID())

	o.Items = items(ItemPending, ItemPending)
	assert.Equal(t, uint64(3), o.NextItemID())
}
