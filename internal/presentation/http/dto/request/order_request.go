package request

import "github.com/google/uuid"

// OrderItemRequest is one line of a new order.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
	UnitPrice string    `json:"unit_price" binding:"omitempty,price"`
}

// CreateOrderRequest represents an order creation request
type CreateOrderRequest struct {
	EmployeeID       *uuid.UUID         `json:"employee_id"`
	CustomerID       *uuid.UUID         `json:"customer_id"`
	Items            []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount         string             `json:"discount" binding:"amount"`
	Paid             string             `json:"paid" binding:"amount"`
	PaymentType      string             `json:"payment_type" binding:"required,max=50"`
	PriceIncludesTax *bool              `json:"price_includes_tax"`
}

// OrderFilterRequest represents order list filters. Dates are store-local days.
type OrderFilterRequest struct {
	Status     string `form:"status" binding:"omitempty,oneof=Pending Complete Cancel pending complete cancel"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	From       string `form:"from" binding:"date"`
	To         string `form:"to" binding:"date"`
	Search     string `form:"search"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// PrintReceiptRequest picks the printer for an order receipt. Empty means the default receipt printer.
type PrintReceiptRequest struct {
	PrinterID *uuid.UUID `json:"printer_id"`
}
