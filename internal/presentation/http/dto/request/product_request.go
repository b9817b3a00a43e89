package request

import "github.com/google/uuid"

// CreateProductRequest represents a product creation request.
// Prices are decimal strings so cents survive JSON.
type CreateProductRequest struct {
	CategoryID    *uuid.UUID `json:"category_id"`
	Name          string     `json:"name" binding:"required,min=2,max=255"`
	Code          string     `json:"code" binding:"omitempty,max=100"`
	Barcode       *string    `json:"barcode" binding:"omitempty,max=100"`
	Quantity      int        `json:"quantity" binding:"min=0"`
	QuantityAlert int        `json:"quantity_alert" binding:"min=0"`
	BuyingPrice   string     `json:"buying_price" binding:"omitempty,price"`
	SellingPrice  string     `json:"selling_price" binding:"required,price"`
	TaxType       string     `json:"tax_type" binding:"omitempty,oneof=inclusive exclusive Inclusive Exclusive 0 1"`
	Notes         *string    `json:"notes"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	CategoryID    *uuid.UUID `json:"category_id"`
	ClearCategory bool       `json:"clear_category"`
	Name          *string    `json:"name" binding:"omitempty,min=2,max=255"`
	Code          *string    `json:"code" binding:"omitempty,min=1,max=100"`
	Barcode       *string    `json:"barcode" binding:"omitempty,max=100"`
	Quantity      *int       `json:"quantity" binding:"omitempty,min=0"`
	QuantityAlert *int       `json:"quantity_alert" binding:"omitempty,min=0"`
	BuyingPrice   *string    `json:"buying_price" binding:"omitempty,price"`
	SellingPrice  *string    `json:"selling_price" binding:"omitempty,price"`
	TaxType       *string    `json:"tax_type" binding:"omitempty,oneof=inclusive exclusive Inclusive Exclusive 0 1"`
	Notes         *string    `json:"notes"`
	IsActive      *bool      `json:"is_active"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	LowStock   bool   `form:"low_stock"`
	ActiveOnly bool   `form:"active_only"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=name code quantity selling_price created_at"`
	SortOrder  string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// CategoryRequest creates or renames a category.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
}
