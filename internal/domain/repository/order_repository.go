package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
)

// ErrOrderCancelled is returned by Cancel when the order is already cancelled.
var ErrOrderCancelled = errors.New("order already cancelled")

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	// Create stores the order and its items, decrements stock and assigns the
	// next invoice number, all in one transaction. When any product lacks stock
	// nothing is written and the offending product IDs are returned.
	Create(ctx context.Context, order *entity.Order, decrements map[uuid.UUID]int) (failedIDs []uuid.UUID, err error)
	// GetByID loads the order with its items, employee, customer and cashier.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]entity.Order, int64, error)
	// Cancel marks the order cancelled and restores stock in one transaction.
	// It returns ErrOrderCancelled when another cancel got there first.
	Cancel(ctx context.Context, id uuid.UUID, increments map[uuid.UUID]int) error
}

// OrderFilter narrows order listings. From and To bound order_date as [From, To).
type OrderFilter struct {
	Pagination pagination.Params
	Status     *enum.OrderStatus
	CustomerID *uuid.UUID
	EmployeeID *uuid.UUID
	From       *time.Time
	To         *time.Time
}
