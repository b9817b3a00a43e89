package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-backoffice/internal/application/service"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/response"
)

// InvoiceHandler serves invoice settings and order invoices.
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// GetSettings returns the invoice settings of the caller's store.
func (h *InvoiceHandler) GetSettings(c *gin.Context) {
	settings, err := h.invoiceService.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice settings retrieved", settings)
}

// UpdateSettings changes the invoice settings.
// @Summary Update invoice settings
// @Tags invoices
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.UpdateInvoiceSettingsRequest true "Settings"
// @Success 200 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /settings/invoice [put]
func (h *InvoiceHandler) UpdateSettings(c *gin.Context) {
	var req request.UpdateInvoiceSettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.invoiceService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		StoreName:        req.StoreName,
		Address:          req.Address,
		Phone:            req.Phone,
		Email:            req.Email,
		TaxID:            req.TaxID,
		TaxRate:          req.TaxRate,
		PriceIncludesTax: req.PriceIncludesTax,
		InvoicePrefix:    req.InvoicePrefix,
		FooterNote:       req.FooterNote,
		Currency:         req.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice settings updated", settings)
}

// Get returns the invoice view of an order.
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved", invoice)
}

// PDF downloads the invoice of an order as an A4 PDF.
func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, body, err := h.invoiceService.GetInvoicePDF(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.File(c, "invoice-"+invoice.InvoiceNo+".pdf", "application/pdf", body)
}
