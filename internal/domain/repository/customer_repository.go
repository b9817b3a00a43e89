package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params) ([]entity.Customer, int64, error)
}

// EmployeeRepository defines the interface for employee data operations
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)
	GetByCode(ctx context.Context, code string) (*entity.Employee, error)
	Update(ctx context.Context, employee *entity.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params pagination.Params, activeOnly bool) ([]entity.Employee, int64, error)
}

// AttendanceRepository stores employee shifts.
type AttendanceRepository interface {
	Create(ctx context.Context, record *entity.AttendanceRecord) error
	Update(ctx context.Context, record *entity.AttendanceRecord) error
	// GetOpen returns the employee's shift without a check-out, or nil.
	GetOpen(ctx context.Context, employeeID uuid.UUID) (*entity.AttendanceRecord, error)
	List(ctx context.Context, filter AttendanceFilter) ([]entity.AttendanceRecord, int64, error)
}

// AttendanceFilter narrows attendance listings to an employee and a check-in window [From, To).
type AttendanceFilter struct {
	Pagination pagination.Params
	EmployeeID *uuid.UUID
	From       *time.Time
	To         *time.Time
}
