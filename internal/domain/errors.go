package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrItemNotFound   = errors.New("order item not found")
	ErrTableNotFound  = errors.New("table not found")
	ErrOrderClosed    = errors.New("order is closed for modification")
	ErrAlreadyPaid    = errors.New("payment already completed for this order")
	ErrConfigNotFound = errors.New("no tax config or default for channel")
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ItemUnavailableError covers both a missing menu item and one that has been
// switched off. Either way the whole request is rejected.
type ItemUnavailableError struct {
	MenuItemID uint64
	Name       string
	Reason     string
}

func (e *ItemUnavailableError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s is currently not available", e.Name)
	}
	return fmt.Sprintf("menu item %d %s", e.MenuItemID, e.Reason)
}

// TableOccupiedError carries the conflicting order so the caller can surface
// which order is blocking the table.
type TableOccupiedError struct {
	TableNumber string
	OrderNumber string
	OrderStatus OrderStatus
}

func (e *TableOccupiedError) Error() string {
	return fmt.Sprintf("table %s already has an active order (#%s, %s)", e.TableNumber, e.OrderNumber, e.OrderStatus)
}
