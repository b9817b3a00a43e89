package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/internal/domain/report"
	domainRepo "github.com/sangkips/pos-backoffice/internal/domain/repository"
	"gorm.io/gorm"
)

// Rows dated before this are treated as undated and handed to the
// aggregation, which reports them as skipped.
var undatedBefore = time.Date(1971, 1, 1, 0, 0, 0, 0, time.UTC)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates the repository behind the reporting endpoints.
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

type orderRow struct {
	ID               uuid.UUID
	InvoiceNo        string
	OrderDate        time.Time
	Status           enum.OrderStatus
	PriceIncludesTax bool
	SubTotal         int64
	Discount         int64
	Tax              int64
	Total            int64
	EmployeeID       *uuid.UUID
	CustomerID       *uuid.UUID
}

func (r *reportRepository) OrderRecords(ctx context.Context, start, end time.Time) ([]report.OrderRecord, error) {
	var rows []orderRow
	err := r.db.WithContext(ctx).Model(&entity.Order{}).Scopes(TenantScope(ctx)).
		Select("id, invoice_no, order_date, status, price_includes_tax, sub_total, discount, tax, total, employee_id, customer_id").
		Where("(order_date >= ? AND order_date < ?) OR order_date < ?", start, end, undatedBefore).
		Order("order_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]report.OrderRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, report.OrderRecord{
			ID:               row.ID,
			InvoiceNo:        row.InvoiceNo,
			OrderDate:        row.OrderDate,
			Cancelled:        row.Status == enum.OrderStatusCancel,
			PriceIncludesTax: row.PriceIncludesTax,
			SubTotal:         row.SubTotal,
			Discount:         row.Discount,
			Tax:              row.Tax,
			Total:            row.Total,
			EmployeeID:       row.EmployeeID,
			CustomerID:       row.CustomerID,
		})
	}
	return out, nil
}

type itemRow struct {
	OrderID     uuid.UUID
	OrderDate   time.Time
	Status      enum.OrderStatus
	ProductID   uuid.UUID
	ProductName string
	ProductCode string
	Quantity    int
	Total       int64
	CostPrice   int64
}

func (r *reportRepository) ItemRecords(ctx context.Context, start, end time.Time) ([]report.ItemRecord, error) {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return nil, err
	}
	var rows []itemRow
	err = r.db.WithContext(ctx).
		Table("order_items oi").
		Select(`oi.order_id, o.order_date, o.status, oi.product_id, oi.product_name,
			oi.product_code, oi.quantity, oi.total, oi.cost_price`).
		Joins("JOIN orders o ON o.id = oi.order_id AND o.deleted_at IS NULL").
		Where("o.tenant_id = ?", tenantID).
		Where("(o.order_date >= ? AND o.order_date < ?) OR o.order_date < ?", start, end, undatedBefore).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]report.ItemRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, report.ItemRecord{
			OrderID:     row.OrderID,
			OrderDate:   row.OrderDate,
			Cancelled:   row.Status == enum.OrderStatusCancel,
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			ProductCode: row.ProductCode,
			Quantity:    row.Quantity,
			Total:       row.Total,
			CostPrice:   row.CostPrice,
		})
	}
	return out, nil
}

func (r *reportRepository) AttendanceRecords(ctx context.Context, start, end time.Time) ([]report.AttendanceRecord, error) {
	var rows []entity.AttendanceRecord
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("(check_in >= ? AND check_in < ?) OR check_in < ?", start, end, undatedBefore).
		Order("check_in ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]report.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, report.AttendanceRecord{
			ID:         row.ID,
			EmployeeID: row.EmployeeID,
			CheckIn:    row.CheckIn,
			CheckOut:   row.CheckOut,
		})
	}
	return out, nil
}

func (r *reportRepository) CatalogProducts(ctx context.Context) ([]report.CatalogProduct, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Select("id, name, code, quantity").
		Where("is_active = ?", true).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	out := make([]report.CatalogProduct, 0, len(products))
	for _, p := range products {
		out = append(out, report.CatalogProduct{ID: p.ID, Name: p.Name, Code: p.Code, Quantity: p.Quantity})
	}
	return out, nil
}

type nameRow struct {
	ID   uuid.UUID
	Name string
}

// EmployeeNames includes soft-deleted employees so past sales keep their names.
func (r *reportRepository) EmployeeNames(ctx context.Context) (report.Names, error) {
	var rows []nameRow
	err := r.db.WithContext(ctx).Model(&entity.Employee{}).Unscoped().Scopes(TenantScope(ctx)).
		Select("id, name").
		Scan(&rows).Error
	return toNames(rows), err
}

func (r *reportRepository) EmployeeRoster(ctx context.Context) (report.Names, error) {
	var rows []nameRow
	err := r.db.WithContext(ctx).Model(&entity.Employee{}).Scopes(TenantScope(ctx)).
		Select("id, name").
		Scan(&rows).Error
	return toNames(rows), err
}

func (r *reportRepository) CustomerNames(ctx context.Context, ids []uuid.UUID) (report.Names, error) {
	if len(ids) == 0 {
		return report.Names{}, nil
	}
	var rows []nameRow
	err := r.db.WithContext(ctx).Model(&entity.Customer{}).Unscoped().Scopes(TenantScope(ctx)).
		Select("id, name").
		Where("id IN ?", ids).
		Scan(&rows).Error
	return toNames(rows), err
}

func toNames(rows []nameRow) report.Names {
	names := make(report.Names, len(rows))
	for _, r := range rows {
		names[r.ID] = r.Name
	}
	return names
}
