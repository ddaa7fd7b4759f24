package mysql

import (
	"context"
	"errors"
	"time"

	"firstbite/internal/domain"
	"firstbite/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tableRepo struct {
	db *gorm.DB
}

func NewTableRepository(db *gorm.DB) repository.TableRepository {
	return &tableRepo{db: db}
}

func (r *tableRepo) Create(ctx context.Context, table *domain.Table) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *tableRepo) Save(ctx context.Context, table *domain.Table) error {
	return r.db.WithContext(ctx).Save(table).Error
}

func (r *tableRepo) SaveAll(ctx context.Context, tables ...*domain.Table) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range tables {
			if err := tx.Save(t).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *tableRepo) FindByNumber(ctx context.Context, tableNumber string) (*domain.Table, error) {
	var t domain.Table
	if err := r.db.WithContext(ctx).Where("table_number = ?", tableNumber).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *tableRepo) List(ctx context.Context) ([]domain.Table, error) {
	var out []domain.Table
	if err := r.db.WithContext(ctx).Order("table_number").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Occupy locks the table row, rejects if an active order already holds the
// table, then marks it occupied for orderID.
func (r *tableRepo) Occupy(ctx context.Context, tableNumber string, orderID uint64) (*domain.Table, error) {
	var table domain.Table
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("table_number = ?", tableNumber).
			First(&table).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTableNotFound
			}
			return err
		}

		var active domain.Order
		err := tx.Where("table_number = ? AND order_status IN ? AND id <> ?", tableNumber, domain.ActiveStatuses, orderID).
			First(&active).Error
		if err == nil {
			return &domain.TableOccupiedError{
				TableNumber: tableNumber,
				OrderNumber: active.OrderNumber,
				OrderStatus: active.OrderStatus,
			}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		table.Occupy(orderID, time.Now())
		return tx.Save(&table).Error
	})
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepo) Release(ctx context.Context, tableNumber string) (*domain.Table, error) {
	var table domain.Table
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("table_number = ?", tableNumber).First(&table).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTableNotFound
			}
			return err
		}
		table.Clear(time.Now())
		return tx.Save(&table).Error
	})
	if err != nil {
		return nil, err
	}
	return &table, nil
}
