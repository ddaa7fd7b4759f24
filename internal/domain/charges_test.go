package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateCharges_InHouseDefault(t *testing.T) {
	cfg := DefaultTaxConfig(ChannelInHouse)
	require.NotNil(t, cfg)

	b, err := CalculateCharges(1000, cfg, ChargeOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1000.00, b.Subtotal)
	assert.Equal(t, 25.00, b.CGST)
	assert.Equal(t, 25.00, b.SGST)
	assert.Equal(t, 0.00, b.IGST)
	assert.Equal(t, 50.00, b.TotalTax)
	assert.Equal(t, 0.00, b.ServiceCharge)
	assert.Equal(t, 0.00, b.DeliveryCharges)
	assert.Equal(t, 0.00, b.PackagingCharges)
	assert.Equal(t, 0.00, b.RoundOff)
	assert.Equal(t, 1050.00, b.GrandTotal)
	assert.Equal(t, 1050.00, b.RestaurantRevenue)
}

func TestCalculateCharges_Taxes(t *testing.T) {
	tests := []struct {
		name     string
		taxes    TaxRates
		subtotal float64
		wantCGST float64
		wantSGST float64
		wantIGST float64
	}{
		{
			name:     "intra-state splits cgst and sgst",
			taxes:    TaxRates{Enabled: true, CGST: 2.5, SGST: 2.5},
			subtotal: 200,
			wantCGST: 5.00,
			wantSGST: 5.00,
		},
		{
			name:     "inter-state applies igst only",
			taxes:    TaxRates{Enabled: true, CGST: 2.5, SGST: 2.5, IGST: 5},
			subtotal: 200,
			wantIGST: 10.00,
		},
		{
			name:     "disabled taxes produce nothing",
			taxes:    TaxRates{Enabled: false, CGST: 2.5, SGST: 2.5},
			subtotal: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTaxConfig(ChannelInHouse)
			cfg.Taxes = tt.taxes
			cfg.RoundOff.Enabled = false

			b, err := CalculateCharges(tt.subtotal, cfg, ChargeOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCGST, b.CGST)
			assert.Equal(t, tt.wantSGST, b.SGST)
			assert.Equal(t, tt.wantIGST, b.IGST)
			assert.Equal(t, tt.wantCGST+tt.wantSGST+tt.wantIGST, b.TotalTax)
		})
	}
}

func TestCalculateCharges_ServiceCharge(t *testing.T) {
	cfg := DefaultTaxConfig(ChannelInHouse)
	cfg.Taxes.Enabled = false
	cfg.RoundOff.Enabled = false
	cfg.ServiceCharge = ChargeRule{Enabled: true, Kind: ChargePercentage, Value: 10}

	b, err := CalculateCharges(550, cfg, ChargeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 55.00, b.ServiceCharge)

	cfg.ServiceCharge = ChargeRule{Enabled: true, Kind: ChargeFlat, Value: 75}
	b, err = CalculateCharges(550, cfg, ChargeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 75.00, b.ServiceCharge)
}

func TestCalculateCharges_DeliveryDistanceBased(t *testing.T) {
	cfg := DefaultTaxConfig(ChannelOnline)
	cfg.Taxes.Enabled = false
	cfg.PackagingCharges.Enabled = false
	cfg.RoundOff.Enabled = false
	cfg.DeliveryCharges = DeliveryRule{Enabled: true, Kind: ChargeDistanceBased, PerKm: 10, MinimumCharge: 30}

	tests := []struct {
		name       string
		distanceKm float64
		want       float64
	}{
		{"below minimum falls back to minimum", 1.5, 30.00},
		{"above minimum charges per km", 7.2, 72.00},
		{"zero distance still charges minimum", 0, 30.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := CalculateCharges(500, cfg, ChargeOptions{DistanceKm: tt.distanceKm})
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.DeliveryCharges)
			assert.GreaterOrEqual(t, b.DeliveryCharges, cfg.DeliveryCharges.MinimumCharge)
		})
	}
}

func TestCalculateCharges_PackagingPerItem(t *testing.T) {
	cfg := DefaultTaxConfig(ChannelSwiggy)
	cfg.Taxes.Enabled = false
	cfg.PlatformCommission.Enabled = false
	cfg.RoundOff.Enabled = false

	b, err := CalculateCharges(400, cfg, ChargeOptions{ItemCount: 4})
	require.NoError(t, err)
	assert.Equal(t, 20.00, b.PackagingCharges)
}

func TestCalculateCharges_DiscountPrecedence(t *testing.T) {
	cfg := DefaultTaxConfig(ChannelInHouse)
	cfg.Taxes.Enabled = false
	cfg.RoundOff.Enabled = false

	// Explicit amount wins when both are supplied.
	b, err := CalculateCharges(1000, cfg, ChargeOptions{DiscountAmount: 120, DiscountPercent: 50})
	require.NoError(t, err)
	assert.Equal(t, 120.00, b.Discount)
	assert.Equal(t, 880.00, b.GrandTotal)

	b, err = CalculateCharges(1000, cfg, ChargeOptions{DiscountPercent: 15})
	require.NoError(t, err)
	assert.Equal(t, 150.00, b.Discount)
}

func TestCalculateCharges_PlatformCommission(t *testing.T) {
	cfg := DefaultTaxConfig(ChannelSwiggy)

	// Subtotal 1000: tax 50, packaging 3 items * 5 = 15, total 1065.
	b, err := CalculateCharges(1000, cfg, ChargeOptions{ItemCount: 3})
	require.NoError(t, err)

	assert.Equal(t, 1065.00, b.GrandTotal)
	// 25% of 1065, reported but never billed to the customer.
	assert.Equal(t, 266.25, b.PlatformCommission)
	assert.Equal(t, 798.75, b.RestaurantRevenue)
}

func TestCalculateCharges_Rounding(t *testing.T) {
	tests := []struct {
		name      string
		method    RoundMethod
		subtotal  float64
		wantTotal float64
	}{
		{"nearest rounds half away from zero", RoundNearest, 99.5, 100.00},
		{"nearest rounds down below half", RoundNearest, 99.4, 99.00},
		{"up never decreases", RoundUp, 99.01, 100.00},
		{"down never increases", RoundDown, 99.99, 99.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultTaxConfig(ChannelInHouse)
			cfg.Taxes.Enabled = false
			cfg.RoundOff = RoundingRule{Enabled: true, Method: tt.method}

			b, err := CalculateCharges(tt.subtotal, cfg, ChargeOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, b.GrandTotal)
			assert.InDelta(t, tt.wantTotal-tt.subtotal, b.RoundOff, 0.001)

			switch tt.method {
			case RoundUp:
				assert.GreaterOrEqual(t, b.GrandTotal, tt.subtotal)
			case RoundDown:
				assert.LessOrEqual(t, b.GrandTotal, tt.subtotal)
			case RoundNearest:
				assert.LessOrEqual(t, absf(b.RoundOff), 0.5)
			}
		})
	}
}

// The breakdown must balance to the penny for any configuration.
func TestCalculateCharges_BreakdownBalances(t *testing.T) {
	subtotals := []float64{0, 0.01, 99.99, 123.45, 1000, 7777.77}
	for _, ch := range AllChannels {
		cfg := DefaultTaxConfig(ch)
		for _, sub := range subtotals {
			b, err := CalculateCharges(sub, cfg, ChargeOptions{ItemCount: 3, DistanceKm: 4})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, b.GrandTotal, 0.00)

			sum := b.Subtotal + b.TotalTax + b.ServiceCharge + b.DeliveryCharges +
				b.PackagingCharges - b.Discount + b.RoundOff
			assert.InDelta(t, b.GrandTotal, sum, 0.001,
				"channel %s subtotal %v: breakdown does not balance", ch, sub)
		}
	}
}

func TestCalculateCharges_Errors(t *testing.T) {
	cfg := DefaultTaxConfig(ChannelInHouse)

	_, err := CalculateCharges(-1, cfg, ChargeOptions{})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = CalculateCharges(100, nil, ChargeOptions{})
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestDefaultTaxConfig(t *testing.T) {
	for _, ch := range AllChannels {
		cfg := DefaultTaxConfig(ch)
		require.NotNil(t, cfg, "channel %s must have a default", ch)
		assert.True(t, cfg.Taxes.Enabled)
		assert.Equal(t, 2.5, cfg.Taxes.CGST)
		assert.Equal(t, 2.5, cfg.Taxes.SGST)
		assert.True(t, cfg.RoundOff.Enabled)
	}

	assert.Nil(t, DefaultTaxConfig(Channel("doordash")))

	assert.Equal(t, 25.0, DefaultTaxConfig(ChannelSwiggy).PlatformCommission.Percentage)
	assert.Equal(t, 23.0, DefaultTaxConfig(ChannelZomato).PlatformCommission.Percentage)
	assert.Equal(t, ChargePerItem, DefaultTaxConfig(ChannelZomato).PackagingCharges.Kind)
	assert.Equal(t, 40.0, DefaultTaxConfig(ChannelOnline).DeliveryCharges.Value)
	assert.Equal(t, 10.0, DefaultTaxConfig(ChannelTakeaway).PackagingCharges.Value)
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
