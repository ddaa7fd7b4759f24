package repository

import (
	"context"

	"firstbite/internal/domain"
)

// Repositories return (nil, nil) when an entity does not exist; errors are
// reserved for storage failures.

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	// CreateDineIn creates an in-house order and occupies its table in one
	// transaction, so two concurrent creations cannot double-book a table.
	// Returns domain.TableOccupiedError or domain.ErrTableNotFound.
	CreateDineIn(ctx context.Context, order *domain.Order) (*domain.Table, error)
	Update(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByNumber(ctx context.Context, number string) (*domain.Order, error)
	FindActiveByTable(ctx context.Context, tableNumber string) (*domain.Order, error)
	ListByTable(ctx context.Context, tableNumber string) ([]domain.Order, error)
}

type TableRepository interface {
	Create(ctx context.Context, table *domain.Table) error
	Save(ctx context.Context, table *domain.Table) error
	// SaveAll persists the tables in a single transaction (used by merges).
	SaveAll(ctx context.Context, tables ...*domain.Table) error
	FindByNumber(ctx context.Context, tableNumber string) (*domain.Table, error)
	List(ctx context.Context) ([]domain.Table, error)
	// Occupy atomically checks for an active order on the table and marks it
	// occupied for orderID. Returns domain.TableOccupiedError on conflict.
	Occupy(ctx context.Context, tableNumber string, orderID uint64) (*domain.Table, error)
	Release(ctx context.Context, tableNumber string) (*domain.Table, error)
}

type CounterRepository interface {
	// Next atomically increments and returns the sequence for (channel, day).
	Next(ctx context.Context, channel domain.Channel, day string) (int64, error)
}

type TaxConfigRepository interface {
	FindByChannel(ctx context.Context, channel domain.Channel) (*domain.TaxConfig, error)
	Upsert(ctx context.Context, cfg *domain.TaxConfig) error
}
