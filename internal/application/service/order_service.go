package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/money"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
)

// OrderService handles order-related operations
type OrderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	employeeRepo repository.EmployeeRepository
	settingsRepo repository.InvoiceSettingRepository
	now          func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	employeeRepo repository.EmployeeRepository,
	settingsRepo repository.InvoiceSettingRepository,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
		settingsRepo: settingsRepo,
		now:          time.Now,
	}
}

// OrderItemInput represents an item in an order. UnitPrice defaults to the
// product's selling price when empty.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice string
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	UserID           uuid.UUID
	EmployeeID       *uuid.UUID
	CustomerID       *uuid.UUID
	Items            []OrderItemInput
	Discount         string
	Paid             string
	PaymentType      string
	PriceIncludesTax *bool
}

// Totals are the money figures of an order, in cents.
type Totals struct {
	SubTotal int64
	Discount int64
	Tax      int64
	Total    int64
	Due      int64
}

// CalculateTotals applies discount and tax to the sum of the order lines.
//
// With tax-inclusive prices the discount comes off the lines and the tax is the
// share already contained in what is left. With tax-exclusive prices the sub
// total is the undiscounted line sum and tax is added on the discounted amount.
// The discount is capped at the line sum and Due never goes below zero.
func CalculateTotals(itemsTotal, discount, paid int64, taxRateBps int, inclusive bool) Totals {
	t := Totals{Discount: min(max(0, discount), max(0, itemsTotal))}
	if inclusive {
		t.SubTotal = itemsTotal - t.Discount
		t.Tax = money.IncludedTax(t.SubTotal, taxRateBps)
		t.Total = t.SubTotal
	} else {
		t.SubTotal = itemsTotal
		taxable := itemsTotal - t.Discount
		t.Tax = money.ApplyBasisPoints(taxable, taxRateBps)
		t.Total = taxable + t.Tax
	}
	t.Due = max(0, t.Total-paid)
	return t
}

// CreateOrder prices the items, assigns the next invoice number and decrements
// stock in one transaction. Insufficient stock rejects the whole order.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	if _, err := requireTenant(ctx); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewFieldError("items", "at least one item is required")
	}

	discount, err := money.ParseAmount(input.Discount)
	if err != nil {
		return nil, apperror.NewFieldError("discount", err.Error())
	}
	paid, err := money.ParseAmount(input.Paid)
	if err != nil {
		return nil, apperror.NewFieldError("paid", err.Error())
	}

	if err := s.checkParties(ctx, input.EmployeeID, input.CustomerID); err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	taxRate, inclusive := 0, false
	if settings != nil {
		taxRate, inclusive = settings.TaxRate, settings.PriceIncludesTax
	}
	if input.PriceIncludesTax != nil {
		inclusive = *input.PriceIncludesTax
	}

	productIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	var itemsTotal int64
	var totalProducts int
	items := make([]entity.OrderItem, 0, len(input.Items))
	decrements := make(map[uuid.UUID]int)

	for i, item := range input.Items {
		field := fmt.Sprintf("items[%d]", i)
		product, ok := productMap[item.ProductID]
		if !ok {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if !product.IsActive {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Product %s is not for sale", product.Name))
		}
		if item.Quantity <= 0 {
			return nil, apperror.NewFieldError(field+".quantity", "must be greater than 0")
		}

		unitPrice := product.SellingPrice
		if strings.TrimSpace(item.UnitPrice) != "" {
			unitPrice, err = money.ParsePrice(item.UnitPrice)
			if err != nil {
				return nil, apperror.NewFieldError(field+".unit_price", err.Error())
			}
		}

		lineTotal := unitPrice * int64(item.Quantity)
		itemsTotal += lineTotal
		totalProducts += item.Quantity
		decrements[product.ID] += item.Quantity

		items = append(items, entity.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductCode: product.Code,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
			CostPrice:   product.BuyingPrice,
			Total:       lineTotal,
		})
	}

	totals := CalculateTotals(itemsTotal, discount, paid, taxRate, inclusive)
	order := &entity.Order{
		UserID:           input.UserID,
		EmployeeID:       input.EmployeeID,
		CustomerID:       input.CustomerID,
		OrderDate:        s.now(),
		Status:           enum.OrderStatusPending,
		PriceIncludesTax: inclusive,
		TaxRate:          taxRate,
		TotalProducts:    totalProducts,
		SubTotal:         totals.SubTotal,
		Discount:         totals.Discount,
		Tax:              totals.Tax,
		Total:            totals.Total,
		Paid:             paid,
		Due:              totals.Due,
		PaymentType:      strings.TrimSpace(input.PaymentType),
		Items:            items,
	}
	if totals.Due == 0 {
		order.Status = enum.OrderStatusComplete
	}

	failedIDs, err := s.orderRepo.Create(ctx, order, decrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		names := make([]string, 0, len(failedIDs))
		for _, id := range failedIDs {
			if p, ok := productMap[id]; ok {
				names = append(names, p.Name)
			}
		}
		return nil, apperror.NewBadRequestError("Insufficient stock for: " + strings.Join(names, ", "))
	}

	return s.GetOrder(ctx, order.ID)
}

func (s *OrderService) checkParties(ctx context.Context, employeeID, customerID *uuid.UUID) error {
	if employeeID != nil {
		employee, err := s.employeeRepo.GetByID(ctx, *employeeID)
		if err != nil {
			return err
		}
		if employee == nil {
			return apperror.NewNotFoundError("Employee")
		}
	}
	if customerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}
	}
	return nil
}

// GetOrder retrieves an order with its items
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderFilter) (*pagination.Page[entity.Order], error) {
	filter.Pagination.Normalize()
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(orders, filter.Pagination, total), nil
}

// CancelOrder cancels an order and restores stock
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == enum.OrderStatusCancel {
		return nil, apperror.NewBadRequestError("Order is already cancelled")
	}

	increments := make(map[uuid.UUID]int)
	for _, item := range order.Items {
		increments[item.ProductID] += item.Quantity
	}
	err = s.orderRepo.Cancel(ctx, order.ID, increments)
	if errors.Is(err, repository.ErrOrderCancelled) {
		return nil, apperror.NewBadRequestError("Order is already cancelled")
	}
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, order.ID)
}
