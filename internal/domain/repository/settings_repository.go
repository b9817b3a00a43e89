package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
)

// InvoiceSettingRepository stores the single invoice settings row of each tenant.
type InvoiceSettingRepository interface {
	// Get returns the tenant's settings, or nil when none were saved yet.
	Get(ctx context.Context) (*entity.InvoiceSetting, error)
	Save(ctx context.Context, setting *entity.InvoiceSetting) error
}

// PrinterConfigRepository defines the interface for printer configurations
type PrinterConfigRepository interface {
	Create(ctx context.Context, cfg *entity.PrinterConfig) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PrinterConfig, error)
	List(ctx context.Context) ([]entity.PrinterConfig, error)
	Update(ctx context.Context, cfg *entity.PrinterConfig) error
	Delete(ctx context.Context, id uuid.UUID) error
	// GetDefault returns the default printer for purpose, or nil.
	GetDefault(ctx context.Context, purpose enum.PrinterPurpose) (*entity.PrinterConfig, error)
	// SetDefault makes id the only default printer for its purpose.
	SetDefault(ctx context.Context, id uuid.UUID, purpose enum.PrinterPurpose) error
}
