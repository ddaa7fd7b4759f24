package mysql

import (
	"context"
	"errors"
	"log"

	"firstbite/internal/domain"
	"firstbite/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type taxConfigRepo struct {
	db *gorm.DB
}

func NewTaxConfigRepository(db *gorm.DB) repository.TaxConfigRepository {
	return &taxConfigRepo{db: db}
}

func (r *taxConfigRepo) FindByChannel(ctx context.Context, channel domain.Channel) (*domain.TaxConfig, error) {
	var cfg domain.TaxConfig
	err := r.db.WithContext(ctx).
		Where("channel = ? AND is_active = ?", channel, true).
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("tax config FindByChannel error: %v", err)
		return nil, err
	}
	return &cfg, nil
}

func (r *taxConfigRepo) Upsert(ctx context.Context, cfg *domain.TaxConfig) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "channel"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"taxes", "service_charge", "delivery_charges", "packaging_charges",
			"platform_commission", "discounts", "round_off", "is_active", "updated_by",
		}),
	}).Create(cfg).Error
}
