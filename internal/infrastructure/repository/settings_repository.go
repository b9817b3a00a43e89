package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	domainRepo "github.com/sangkips/pos-backoffice/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceSettingRepository struct {
	db *gorm.DB
}

// NewInvoiceSettingRepository creates a new invoice settings repository
func NewInvoiceSettingRepository(db *gorm.DB) domainRepo.InvoiceSettingRepository {
	return &invoiceSettingRepository{db: db}
}

func (r *invoiceSettingRepository) Get(ctx context.Context) (*entity.InvoiceSetting, error) {
	var setting entity.InvoiceSetting
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &setting, err
}

// Save upserts on tenant_id. The invoice sequence is owned by order creation and never overwritten here.
func (r *invoiceSettingRepository) Save(ctx context.Context, setting *entity.InvoiceSetting) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return err
	}
	setting.TenantID = tenantID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"store_name", "address", "phone", "email", "tax_id", "tax_rate",
			"price_includes_tax", "invoice_prefix", "footer_note", "currency", "updated_at",
		}),
	}).Create(setting).Error
}

type printerConfigRepository struct {
	db *gorm.DB
}

// NewPrinterConfigRepository creates a new printer config repository
func NewPrinterConfigRepository(db *gorm.DB) domainRepo.PrinterConfigRepository {
	return &printerConfigRepository{db: db}
}

func (r *printerConfigRepository) Create(ctx context.Context, cfg *entity.PrinterConfig) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return err
	}
	cfg.TenantID = tenantID
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *printerConfigRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PrinterConfig, error) {
	var cfg entity.PrinterConfig
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&cfg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cfg, err
}

func (r *printerConfigRepository) List(ctx context.Context) ([]entity.PrinterConfig, error) {
	var cfgs []entity.PrinterConfig
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Order("purpose ASC, is_default DESC, name ASC").
		Find(&cfgs).Error
	return cfgs, err
}

func (r *printerConfigRepository) Update(ctx context.Context, cfg *entity.PrinterConfig) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Save(cfg).Error
}

func (r *printerConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx)).Delete(&entity.PrinterConfig{}, "id = ?", id).Error
}

func (r *printerConfigRepository) GetDefault(ctx context.Context, purpose enum.PrinterPurpose) (*entity.PrinterConfig, error) {
	var cfg entity.PrinterConfig
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("purpose = ? AND is_default = ?", purpose, true).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cfg, err
}

func (r *printerConfigRepository) SetDefault(ctx context.Context, id uuid.UUID, purpose enum.PrinterPurpose) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.PrinterConfig{}).Scopes(TenantScope(ctx)).
			Where("purpose = ? AND id <> ?", purpose, id).
			Update("is_default", false).Error; err != nil {
			return err
		}
		res := tx.Model(&entity.PrinterConfig{}).Scopes(TenantScope(ctx)).
			Where("id = ?", id).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
