package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/pkg/money"
	"gorm.io/gorm"
)

// InvoiceSetting holds the per-store invoice header and tax configuration.
// TaxRate is in basis points.
type InvoiceSetting struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"tenant_id"`
	StoreName        string    `gorm:"size:255;not null" json:"store_name"`
	Address          string    `gorm:"type:text" json:"address"`
	Phone            string    `gorm:"size:50" json:"phone"`
	Email            string    `gorm:"size:255" json:"email"`
	TaxID            string    `gorm:"size:50" json:"tax_id"`
	TaxRate          int       `gorm:"not null;default:0" json:"-"`
	PriceIncludesTax bool      `gorm:"not null;default:false" json:"price_includes_tax"`
	InvoicePrefix    string    `gorm:"size:10;not null;default:'INV'" json:"invoice_prefix"`
	NextInvoiceSeq   int64     `gorm:"not null;default:1" json:"-"`
	FooterNote       string    `gorm:"type:text" json:"footer_note"`
	Currency         string    `gorm:"size:10;not null;default:'KES'" json:"currency"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DefaultInvoiceSetting is used until a store saves its own settings.
func DefaultInvoiceSetting(tenantID uuid.UUID, storeName string) *InvoiceSetting {
	return &InvoiceSetting{
		TenantID:       tenantID,
		StoreName:      storeName,
		InvoicePrefix:  "INV",
		NextInvoiceSeq: 1,
		Currency:       "KES",
	}
}

// MarshalJSON renders the tax rate as a percentage.
func (s InvoiceSetting) MarshalJSON() ([]byte, error) {
	type Alias InvoiceSetting
	return json.Marshal(&struct {
		Alias
		TaxRate json.Number `json:"tax_rate"`
	}{
		Alias:   Alias(s),
		TaxRate: json.Number(money.BasisPointsToRate(s.TaxRate).StringFixed(2)),
	})
}

// BeforeCreate generates a UUID before creating new settings
func (s *InvoiceSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceSetting model
func (InvoiceSetting) TableName() string {
	return "invoice_settings"
}
