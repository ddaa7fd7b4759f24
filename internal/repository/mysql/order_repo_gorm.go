package mysql

import (
	"context"
	"errors"
	"log"
	"time"

	"firstbite/internal/domain"
	"firstbite/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Create(order)
	if result.Error != nil {
		log.Printf("order create error: %v", result.Error)
		return result.Error
	}
	if order.ID == 0 {
		return errors.New("failed to assign order ID")
	}
	return nil
}

// CreateDineIn locks the table row, verifies no active order holds it, then
// creates the order and marks the table occupied, all in one transaction.
func (r *orderRepo) CreateDineIn(ctx context.Context, order *domain.Order) (*domain.Table, error) {
	var table domain.Table
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("table_number = ?", order.TableNumber).
			First(&table).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTableNotFound
			}
			return err
		}

		var active domain.Order
		err := tx.Where("table_number = ? AND order_status IN ?", order.TableNumber, domain.ActiveStatuses).
			First(&active).Error
		if err == nil {
			return &domain.TableOccupiedError{
				TableNumber: order.TableNumber,
				OrderNumber: active.OrderNumber,
				OrderStatus: active.OrderStatus,
			}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		table.Occupy(order.ID, time.Now())
		return tx.Save(&table).Error
	})
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *orderRepo) Update(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("order FindByID error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Where("order_number = ?", number).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindActiveByTable(ctx context.Context, tableNumber string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Where("table_number = ? AND order_status IN ?", tableNumber, domain.ActiveStatuses).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListByTable(ctx context.Context, tableNumber string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Where("table_number = ?", tableNumber).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("order ListByTable error: %v", err)
		return nil, err
	}
	return out, nil
}
