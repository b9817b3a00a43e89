package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-backoffice/internal/application/service"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	loc          *time.Location
}

// NewOrderHandler creates a new order handler. loc is the store time zone for date filters.
func NewOrderHandler(orderService *service.OrderService, loc *time.Location) *OrderHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderHandler{orderService: orderService, loc: loc}
}

// List handles listing orders
// @Summary List Orders
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param status query string false "Pending, Complete or Cancel"
// @Param customer_id query string false "Customer ID"
// @Param employee_id query string false "Employee ID"
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} response.APIResponse
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var req request.OrderFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	from, to, err := dayRange(req.From, req.To, h.loc)
	if err != nil {
		response.Error(c, err)
		return
	}

	customerID, err := optionalUUID("customer_id", req.CustomerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	employeeID, err := optionalUUID("employee_id", req.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := repository.OrderFilter{
		Pagination: pagination.Params{Page: req.Page, PerPage: req.PerPage, Search: req.Search},
		CustomerID: customerID,
		EmployeeID: employeeID,
		From:       from,
		To:         to,
	}
	filter.Pagination.Normalize()
	if req.Status != "" {
		status, err := enum.ParseOrderStatus(strings.TrimSpace(req.Status))
		if err != nil {
			response.Error(c, apperror.NewFieldError("status", "must be one of: Pending Complete Cancel"))
			return
		}
		filter.Status = &status
	}

	page, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Orders retrieved", page)
}

// Create handles order creation
// @Summary Create Order
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the first response for retried requests"
// @Param request body request.CreateOrderRequest true "Order data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		UserID:           *userID,
		EmployeeID:       req.EmployeeID,
		CustomerID:       req.CustomerID,
		Items:            items,
		Discount:         req.Discount,
		Paid:             req.Paid,
		PaymentType:      req.PaymentType,
		PriceIncludesTax: req.PriceIncludesTax,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Get handles getting an order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved", order)
}

// Cancel cancels an order and puts its stock back.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled", order)
}
