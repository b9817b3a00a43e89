package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return nil, err
	}
	order.TenantID = tenantID

	var failed []uuid.UUID
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		failed, err = decrementStock(ctx, tx, decrements)
		if err != nil {
			return err
		}
		if len(failed) > 0 {
			return errInsufficientStock
		}

		invoiceNo, err := nextInvoiceNo(ctx, tx, tenantID)
		if err != nil {
			return err
		}
		order.InvoiceNo = invoiceNo

		return tx.Omit("User", "Employee", "Customer").Create(order).Error
	})
	if errors.Is(err, errInsufficientStock) {
		return failed, nil
	}
	return nil, err
}

// nextInvoiceNo takes the tenant's next invoice sequence under a row lock.
func nextInvoiceNo(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) (string, error) {
	var setting entity.InvoiceSetting
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ?", tenantID).
		First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = *entity.DefaultInvoiceSetting(tenantID, "")
		if err := tx.Create(&setting).Error; err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	seq := setting.NextInvoiceSeq
	if seq < 1 {
		seq = 1
	}
	if err := tx.Model(&entity.InvoiceSetting{}).
		Where("id = ?", setting.ID).
		Update("next_invoice_seq", seq+1).Error; err != nil {
		return "", err
	}
	return utils.FormatInvoiceNo(setting.InvoicePrefix, seq), nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Items").
		Preload("User").
		Preload("Employee").
		Preload("Customer").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) List(ctx context.Context, f domainRepo.OrderFilter) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{}).Scopes(TenantScope(ctx))
	if f.Pagination.Search != "" {
		query = query.Where("invoice_no ILIKE ?", like(f.Pagination.Search))
	}
	if f.Status != nil {
		query = query.Where("status = ?", *f.Status)
	}
	if f.CustomerID != nil {
		query = query.Where("customer_id = ?", *f.CustomerID)
	}
	if f.EmployeeID != nil {
		query = query.Where("employee_id = ?", *f.EmployeeID)
	}
	if f.From != nil {
		query = query.Where("order_date >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("order_date < ?", *f.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	f.Pagination.Normalize()
	err := query.Offset(f.Pagination.Offset()).Limit(f.Pagination.PerPage).
		Preload("Employee").
		Preload("Customer").
		Order("order_date DESC").
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) Cancel(ctx context.Context, id uuid.UUID, increments map[uuid.UUID]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Order{}).Scopes(TenantScope(ctx)).
			Where("id = ? AND status <> ?", id, enum.OrderStatusCancel).
			Update("status", enum.OrderStatusCancel)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domainRepo.ErrOrderCancelled
		}
		return incrementStock(ctx, tx, increments)
	})
}
