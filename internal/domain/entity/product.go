package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/pkg/money"
	"gorm.io/gorm"
)

// Product is a sellable catalog item. Prices are stored in cents.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_products_tenant_code;uniqueIndex:idx_products_tenant_slug" json:"tenant_id"`
	CategoryID    *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Slug          string         `gorm:"size:255;not null;uniqueIndex:idx_products_tenant_slug" json:"slug"`
	Code          string         `gorm:"size:100;not null;uniqueIndex:idx_products_tenant_code" json:"code"`
	Barcode       *string        `gorm:"size:100;index" json:"barcode,omitempty"`
	Quantity      int            `gorm:"default:0" json:"quantity"`
	QuantityAlert int            `gorm:"default:0" json:"quantity_alert"`
	BuyingPrice   int64          `gorm:"default:0" json:"-"`
	SellingPrice  int64          `gorm:"not null" json:"-"`
	TaxType       enum.TaxType   `gorm:"default:0" json:"tax_type"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether stock is at or below the alert level.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.QuantityAlert
}

// MarshalJSON renders prices as decimal numbers.
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		BuyingPrice  json.Number `json:"buying_price"`
		SellingPrice json.Number `json:"selling_price"`
		LowStock     bool        `json:"low_stock"`
	}{
		Alias:        Alias(p),
		BuyingPrice:  money.Number(p.BuyingPrice),
		SellingPrice: money.Number(p.SellingPrice),
		LowStock:     p.IsLowStock(),
	})
}

// Category groups products.
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_categories_tenant_slug" json:"tenant_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;not null;uniqueIndex:idx_categories_tenant_slug" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProductCount int64 `gorm:"->;-:migration" json:"product_count"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
