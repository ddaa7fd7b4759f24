package services

import (
	"context"
	"strings"

	"firstbite/internal/domain"
	"firstbite/internal/repository"
)

// TableService couples table occupancy to the order lifecycle.
type TableService struct {
	tables repository.TableRepository
	orders repository.OrderRepository
}

func NewTableService(tables repository.TableRepository, orders repository.OrderRepository) *TableService {
	return &TableService{tables: tables, orders: orders}
}

func (s *TableService) CreateTable(ctx context.Context, table *domain.Table) error {
	if table.TableNumber == "" {
		return domain.NewValidationError("tableNumber is required")
	}
	existing, err := s.tables.FindByNumber(ctx, table.TableNumber)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.NewValidationError("table %s already exists", table.TableNumber)
	}
	if table.Capacity < 1 {
		table.Capacity = 4
	}
	table.Status = domain.TableAvailable
	table.IsActive = true
	return s.tables.Create(ctx, table)
}

// Occupy links an order to a table. The check for an existing active order
// and the status write are atomic at the repository level.
func (s *TableService) Occupy(ctx context.Context, tableNumber string, orderID uint64) (*domain.Table, error) {
	return s.tables.Occupy(ctx, tableNumber, orderID)
}

// Release frees a table after payment or cancellation.
func (s *TableService) Release(ctx context.Context, tableNumber string) (*domain.Table, error) {
	return s.tables.Release(ctx, tableNumber)
}

// Merge renames the main table to a composite id ("N-M-...") and marks the
// constituent tables inactive. There is no unmerge; the operation is one-way.
func (s *TableService) Merge(ctx context.Context, mainNumber string, others []string) (*domain.Table, error) {
	if len(others) == 0 {
		return nil, domain.NewValidationError("no tables to merge")
	}

	main, err := s.tables.FindByNumber(ctx, mainNumber)
	if err != nil {
		return nil, err
	}
	if main == nil {
		return nil, domain.ErrTableNotFound
	}

	merged := make([]*domain.Table, 0, len(others))
	for _, n := range others {
		t, err := s.tables.FindByNumber(ctx, n)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, domain.ErrTableNotFound
		}
		if t.Status == domain.TableOccupied {
			if active, err := s.orders.FindActiveByTable(ctx, n); err == nil && active != nil {
				return nil, &domain.TableOccupiedError{
					TableNumber: n,
					OrderNumber: active.OrderNumber,
					OrderStatus: active.OrderStatus,
				}
			}
		}
		t.Status = domain.TableInactive
		merged = append(merged, t)
	}

	main.TableNumber = mainNumber + "-" + strings.Join(others, "-")
	main.Status = domain.TableMerged
	main.MergedWith = others

	all := append([]*domain.Table{main}, merged...)
	if err := s.tables.SaveAll(ctx, all...); err != nil {
		return nil, err
	}
	return main, nil
}

type TableSummary struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Occupied  int `json:"occupied"`
	Reserved  int `json:"reserved"`
}

func (s *TableService) ListTables(ctx context.Context) ([]domain.Table, TableSummary, error) {
	tables, err := s.tables.List(ctx)
	if err != nil {
		return nil, TableSummary{}, err
	}
	summary := TableSummary{Total: len(tables)}
	for _, t := range tables {
		switch t.Status {
		case domain.TableAvailable:
			summary.Available++
		case domain.TableOccupied:
			summary.Occupied++
		case domain.TableReserved:
			summary.Reserved++
		}
	}
	return tables, summary, nil
}
