package domain

import "time"

type Channel string

const (
	ChannelOnline   Channel = "online"
	ChannelInHouse  Channel = "in-house"
	ChannelTakeaway Channel = "takeaway"
	ChannelSwiggy   Channel = "swiggy"
	ChannelZomato   Channel = "zomato"
)

var AllChannels = []Channel{ChannelOnline, ChannelInHouse, ChannelTakeaway, ChannelSwiggy, ChannelZomato}

func (c Channel) Valid() bool {
	for _, ch := range AllChannels {
		if c == ch {
			return true
		}
	}
	return false
}

func (c Channel) IsAggregator() bool {
	return c == ChannelSwiggy || c == ChannelZomato
}

type ChargeKind string

const (
	ChargeFlat          ChargeKind = "flat"
	ChargePercentage    ChargeKind = "percentage"
	ChargePerItem       ChargeKind = "per-item"
	ChargeDistanceBased ChargeKind = "distance-based"
)

type RoundMethod string

const (
	RoundNearest RoundMethod = "nearest"
	RoundUp      RoundMethod = "up"
	RoundDown    RoundMethod = "down"
)

type TaxRates struct {
	Enabled bool    `json:"enabled"`
	CGST    float64 `json:"cgst"`
	SGST    float64 `json:"sgst"`
	IGST    float64 `json:"igst"`
}

type ChargeRule struct {
	Enabled bool       `json:"enabled"`
	Kind    ChargeKind `json:"kind"`
	Value   float64    `json:"value"`
}

type DeliveryRule struct {
	Enabled       bool       `json:"enabled"`
	Kind          ChargeKind `json:"kind"`
	Value         float64    `json:"value"`
	PerKm         float64    `json:"perKm"`
	MinimumCharge float64    `json:"minimumCharge"`
}

type CommissionRule struct {
	Enabled         bool    `json:"enabled"`
	Percentage      float64 `json:"percentage"`
	DeductFromTotal bool    `json:"deductFromTotal"`
}

type DiscountPolicy struct {
	AllowManualDiscount bool    `json:"allowManualDiscount"`
	MaxDiscountPercent  float64 `json:"maxDiscountPercent"`
}

type RoundingRule struct {
	Enabled bool        `json:"enabled"`
	Method  RoundMethod `json:"method"`
}

// TaxConfig holds the full charge configuration for one order channel.
type TaxConfig struct {
	ID                 uint64         `json:"id" gorm:"primaryKey;autoIncrement"`
	Channel            Channel        `json:"channel" gorm:"uniqueIndex;size:16;not null"`
	Taxes              TaxRates       `json:"taxes" gorm:"serializer:json"`
	ServiceCharge      ChargeRule     `json:"serviceCharge" gorm:"serializer:json"`
	DeliveryCharges    DeliveryRule   `json:"deliveryCharges" gorm:"serializer:json"`
	PackagingCharges   ChargeRule     `json:"packagingCharges" gorm:"serializer:json"`
	PlatformCommission CommissionRule `json:"platformCommission" gorm:"serializer:json"`
	Discounts          DiscountPolicy `json:"discounts" gorm:"serializer:json"`
	RoundOff           RoundingRule   `json:"roundOff" gorm:"serializer:json"`
	IsActive           bool           `json:"isActive" gorm:"default:true"`
	UpdatedBy          string         `json:"updatedBy" gorm:"size:64"`
	CreatedAt          time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

// DefaultTaxConfig returns the built-in configuration used when no record is
// persisted for a channel. Returns nil for an unknown channel.
func DefaultTaxConfig(channel Channel) *TaxConfig {
	base := TaxConfig{
		Channel:   channel,
		Taxes:     TaxRates{Enabled: true, CGST: 2.5, SGST: 2.5},
		Discounts: DiscountPolicy{AllowManualDiscount: true, MaxDiscountPercent: 50},
		RoundOff:  RoundingRule{Enabled: true, Method: RoundNearest},
		IsActive:  true,
	}

	switch channel {
	case ChannelInHouse:
		base.ServiceCharge = ChargeRule{Enabled: false, Kind: ChargePercentage, Value: 10}
	case ChannelTakeaway:
		base.PackagingCharges = ChargeRule{Enabled: true, Kind: ChargeFlat, Value: 10}
	case ChannelOnline:
		base.DeliveryCharges = DeliveryRule{Enabled: true, Kind: ChargeFlat, Value: 40, PerKm: 10, MinimumCharge: 20}
		base.PackagingCharges = ChargeRule{Enabled: true, Kind: ChargeFlat, Value: 15}
	case ChannelSwiggy:
		// Aggregator handles its own delivery.
		base.PackagingCharges = ChargeRule{Enabled: true, Kind: ChargePerItem, Value: 5}
		base.PlatformCommission = CommissionRule{Enabled: true, Percentage: 25, DeductFromTotal: true}
	case ChannelZomato:
		base.PackagingCharges = ChargeRule{Enabled: true, Kind: ChargePerItem, Value: 5}
		base.PlatformCommission = CommissionRule{Enabled: true, Percentage: 23, DeductFromTotal: true}
	default:
		return nil
	}

	return &base
}
