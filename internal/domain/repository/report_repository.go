package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/report"
)

// ReportRepository loads the raw records report aggregations run over.
// Windows are [start, end). Rows whose date is unset are returned as well so
// the aggregation can report them as skipped.
type ReportRepository interface {
	OrderRecords(ctx context.Context, start, end time.Time) ([]report.OrderRecord, error)
	ItemRecords(ctx context.Context, start, end time.Time) ([]report.ItemRecord, error)
	AttendanceRecords(ctx context.Context, start, end time.Time) ([]report.AttendanceRecord, error)
	CatalogProducts(ctx context.Context) ([]report.CatalogProduct, error)
	// EmployeeNames includes removed employees so past records keep their names.
	EmployeeNames(ctx context.Context) (report.Names, error)
	// EmployeeRoster lists the current, non-deleted employees.
	EmployeeRoster(ctx context.Context) (report.Names, error)
	CustomerNames(ctx context.Context, ids []uuid.UUID) (report.Names, error)
}
