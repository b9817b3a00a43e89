package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/pkg/money"
	"gorm.io/gorm"
)

// Order is a completed or pending sale. All amounts are in cents and
// TaxRate is in basis points (1600 = 16%).
type Order struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TenantID         uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_tenant_invoice" json:"tenant_id"`
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	EmployeeID       *uuid.UUID       `gorm:"type:uuid;index" json:"employee_id,omitempty"`
	CustomerID       *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	InvoiceNo        string           `gorm:"size:100;not null;uniqueIndex:idx_orders_tenant_invoice" json:"invoice_no"`
	OrderDate        time.Time        `gorm:"not null;index" json:"order_date"`
	Status           enum.OrderStatus `gorm:"default:0;index" json:"status"`
	PriceIncludesTax bool             `gorm:"not null;default:false" json:"price_includes_tax"`
	TaxRate          int              `gorm:"not null;default:0" json:"-"`
	TotalProducts    int              `gorm:"default:0" json:"total_products"`
	SubTotal         int64            `gorm:"default:0" json:"-"`
	Discount         int64            `gorm:"default:0" json:"-"`
	Tax              int64            `gorm:"default:0" json:"-"`
	Total            int64            `gorm:"default:0" json:"-"`
	Paid             int64            `gorm:"default:0" json:"-"`
	Due              int64            `gorm:"default:0" json:"-"`
	PaymentType      string           `gorm:"size:50" json:"payment_type"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`

	User     *User       `gorm:"foreignKey:UserID" json:"-"`
	Employee *Employee   `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// MarshalJSON converts cents to decimal numbers for API responses.
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		TaxRate  json.Number `json:"tax_rate"`
		SubTotal json.Number `json:"sub_total"`
		Discount json.Number `json:"discount"`
		Tax      json.Number `json:"tax"`
		Total    json.Number `json:"total"`
		Paid     json.Number `json:"paid"`
		Due      json.Number `json:"due"`
	}{
		Alias:    Alias(o),
		TaxRate:  json.Number(money.BasisPointsToRate(o.TaxRate).StringFixed(2)),
		SubTotal: money.Number(o.SubTotal),
		Discount: money.Number(o.Discount),
		Tax:      money.Number(o.Tax),
		Total:    money.Number(o.Total),
		Paid:     money.Number(o.Paid),
		Due:      money.Number(o.Due),
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. Name and prices are copied from the
// product at sale time so later catalog edits do not rewrite history.
type OrderItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string    `gorm:"size:255;not null" json:"product_name"`
	ProductCode string    `gorm:"size:100" json:"product_code"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	UnitPrice   int64     `gorm:"not null" json:"-"`
	CostPrice   int64     `gorm:"not null;default:0" json:"-"`
	Total       int64     `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// MarshalJSON converts cents to decimal numbers for API responses.
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		UnitPrice json.Number `json:"unit_price"`
		CostPrice json.Number `json:"cost_price"`
		Total     json.Number `json:"total"`
	}{
		Alias:     Alias(oi),
		UnitPrice: money.Number(oi.UnitPrice),
		CostPrice: money.Number(oi.CostPrice),
		Total:     money.Number(oi.Total),
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
