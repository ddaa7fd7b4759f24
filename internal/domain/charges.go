package domain

import "math"

type ChargeOptions struct {
	ItemCount       int     `json:"itemCount"`
	DistanceKm      float64 `json:"distanceKm"`
	DiscountAmount  float64 `json:"discountAmount"`
	DiscountPercent float64 `json:"discountPercent"`
}

type ChargeBreakdown struct {
	Subtotal           float64 `json:"subtotal"`
	CGST               float64 `json:"cgst"`
	SGST               float64 `json:"sgst"`
	IGST               float64 `json:"igst"`
	TotalTax           float64 `json:"totalTax"`
	ServiceCharge      float64 `json:"serviceCharge"`
	DeliveryCharges    float64 `json:"deliveryCharges"`
	PackagingCharges   float64 `json:"packagingCharges"`
	PlatformCommission float64 `json:"platformCommission"`
	Discount           float64 `json:"discount"`
	RoundOff           float64 `json:"roundOff"`
	GrandTotal         float64 `json:"grandTotal"`
	RestaurantRevenue  float64 `json:"restaurantRevenue"`
}

// round2 rounds to two decimals, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func applyRounding(amount float64, method RoundMethod) float64 {
	switch method {
	case RoundUp:
		return math.Ceil(amount)
	case RoundDown:
		return math.Floor(amount)
	default:
		return math.Round(amount)
	}
}

// CalculateCharges derives the full monetary breakdown for a subtotal under
// the given channel configuration. Every charge line is rounded to two
// decimals before summation (round-then-sum); the final round-off delta is
// computed against the running total using the configured method, where
// "nearest" rounds half away from zero.
func CalculateCharges(subtotal float64, cfg *TaxConfig, opts ChargeOptions) (*ChargeBreakdown, error) {
	if cfg == nil {
		return nil, ErrConfigNotFound
	}
	if subtotal < 0 {
		return nil, NewValidationError("subtotal must not be negative")
	}

	b := &ChargeBreakdown{Subtotal: round2(subtotal)}

	if cfg.Taxes.Enabled {
		if cfg.Taxes.IGST > 0 {
			// Inter-state: IGST only.
			b.IGST = round2(subtotal * cfg.Taxes.IGST / 100)
		} else {
			b.CGST = round2(subtotal * cfg.Taxes.CGST / 100)
			b.SGST = round2(subtotal * cfg.Taxes.SGST / 100)
		}
		b.TotalTax = round2(b.CGST + b.SGST + b.IGST)
	}

	if cfg.ServiceCharge.Enabled {
		if cfg.ServiceCharge.Kind == ChargePercentage {
			b.ServiceCharge = round2(subtotal * cfg.ServiceCharge.Value / 100)
		} else {
			b.ServiceCharge = round2(cfg.ServiceCharge.Value)
		}
	}

	if cfg.DeliveryCharges.Enabled {
		switch cfg.DeliveryCharges.Kind {
		case ChargeFlat:
			b.DeliveryCharges = round2(cfg.DeliveryCharges.Value)
		case ChargePercentage:
			b.DeliveryCharges = round2(subtotal * cfg.DeliveryCharges.Value / 100)
		case ChargeDistanceBased:
			charge := opts.DistanceKm * cfg.DeliveryCharges.PerKm
			b.DeliveryCharges = round2(math.Max(charge, cfg.DeliveryCharges.MinimumCharge))
		}
	}

	if cfg.PackagingCharges.Enabled {
		switch cfg.PackagingCharges.Kind {
		case ChargeFlat:
			b.PackagingCharges = round2(cfg.PackagingCharges.Value)
		case ChargePercentage:
			b.PackagingCharges = round2(subtotal * cfg.PackagingCharges.Value / 100)
		case ChargePerItem:
			b.PackagingCharges = round2(float64(opts.ItemCount) * cfg.PackagingCharges.Value)
		}
	}

	// Explicit amount wins over percentage when both are supplied.
	if opts.DiscountAmount > 0 {
		b.Discount = round2(opts.DiscountAmount)
	} else if opts.DiscountPercent > 0 {
		b.Discount = round2(subtotal * opts.DiscountPercent / 100)
	}

	total := b.Subtotal + b.TotalTax + b.ServiceCharge + b.DeliveryCharges + b.PackagingCharges - b.Discount

	// Commission is informational: it reduces the restaurant's share but
	// never the customer's bill.
	if cfg.PlatformCommission.Enabled {
		b.PlatformCommission = round2(total * cfg.PlatformCommission.Percentage / 100)
	}

	if cfg.RoundOff.Enabled {
		rounded := applyRounding(total, cfg.RoundOff.Method)
		b.RoundOff = round2(rounded - total)
		total = rounded
	}

	b.GrandTotal = round2(total)
	b.RestaurantRevenue = round2(b.GrandTotal - b.PlatformCommission)

	return b, nil
}
