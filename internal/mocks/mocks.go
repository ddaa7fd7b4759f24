package mocks

import (
	"context"

	"firstbite/internal/domain"
	"firstbite/internal/infra"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateDineIn(ctx context.Context, order *domain.Order) (*domain.Table, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number string) (*domain.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindActiveByTable(ctx context.Context, tableNumber string) (*domain.Order, error) {
	args := m.Called(ctx, tableNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByTable(ctx context.Context, tableNumber string) ([]domain.Order, error) {
	args := m.Called(ctx, tableNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

type MockTableRepository struct {
	mock.Mock
}

func (m *MockTableRepository) Create(ctx context.Context, table *domain.Table) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockTableRepository) Save(ctx context.Context, table *domain.Table) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockTableRepository) SaveAll(ctx context.Context, tables ...*domain.Table) error {
	args := m.Called(ctx, tables)
	return args.Error(0)
}

func (m *MockTableRepository) FindByNumber(ctx context.Context, tableNumber string) (*domain.Table, error) {
	args := m.Called(ctx, tableNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}

func (m *MockTableRepository) List(ctx context.Context) ([]domain.Table, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Table), args.Error(1)
}

func (m *MockTableRepository) Occupy(ctx context.Context, tableNumber string, orderID uint64) (*domain.Table, error) {
	args := m.Called(ctx, tableNumber, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}

func (m *MockTableRepository) Release(ctx context.Context, tableNumber string) (*domain.Table, error) {
	args := m.Called(ctx, tableNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Table), args.Error(1)
}

type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) Next(ctx context.Context, channel domain.Channel, day string) (int64, error) {
	args := m.Called(ctx, channel, day)
	return args.Get(0).(int64), args.Error(1)
}

type MockTaxConfigRepository struct {
	mock.Mock
}

func (m *MockTaxConfigRepository) FindByChannel(ctx context.Context, channel domain.Channel) (*domain.TaxConfig, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxConfig), args.Error(1)
}

func (m *MockTaxConfigRepository) Upsert(ctx context.Context, cfg *domain.TaxConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

type MockMenuClient struct {
	mock.Mock
}

func (m *MockMenuClient) GetMenuItem(ctx context.Context, id uint64) (*infra.MenuItemInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.MenuItemInfo), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, pattern string, data interface{}) error {
	args := m.Called(ctx, pattern, data)
	return args.Error(0)
}
