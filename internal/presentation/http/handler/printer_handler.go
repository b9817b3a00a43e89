package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-backoffice/internal/application/service"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

func printerInput(req request.PrinterRequest) *service.PrinterInput {
	return &service.PrinterInput{
		Name:         req.Name,
		Connection:   req.Connection,
		DevicePath:   req.DevicePath,
		Address:      req.Address,
		PaperWidthMM: req.PaperWidthMM,
		Copies:       req.Copies,
		Purpose:      req.Purpose,
		AutoPrint:    req.AutoPrint,
		IsDefault:    req.IsDefault,
	}
}

// List returns the store's printer configurations.
func (h *PrinterHandler) List(c *gin.Context) {
	printers, err := h.printerService.ListPrinters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Printers retrieved", printers)
}

// Get returns one printer configuration.
func (h *PrinterHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	printer, err := h.printerService.GetPrinter(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Printer retrieved", printer)
}

// Create adds a printer configuration.
func (h *PrinterHandler) Create(c *gin.Context) {
	var req request.PrinterRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil {
		response.Error(c, apperror.NewFieldError("name", "is required"))
		return
	}

	printer, err := h.printerService.CreatePrinter(c.Request.Context(), printerInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Printer created successfully", printer)
}

// Update changes a printer configuration.
func (h *PrinterHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.PrinterRequest
	if !bindJSON(c, &req) {
		return
	}

	printer, err := h.printerService.UpdatePrinter(c.Request.Context(), id, printerInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Printer updated successfully", printer)
}

// Delete removes a printer configuration.
func (h *PrinterHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.printerService.DeletePrinter(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Printer deleted successfully", nil)
}

// SetDefault makes the printer the default for its purpose.
func (h *PrinterHandler) SetDefault(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	printer, err := h.printerService.SetDefaultPrinter(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Default printer updated", printer)
}

// GetStatus returns whether the printer is configured and reachable.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	status, err := h.printerService.GetStatus(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a test receipt. A device failure still answers 200 with a warning
// so the receipt preview reaches the screen.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.printerService.TestPrint(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, printMessage(result, "Test print sent"), result)
}

// PrintOrderReceipt prints an order receipt on the given or default receipt printer.
func (h *PrinterHandler) PrintOrderReceipt(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req request.PrintReceiptRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	result, err := h.printerService.PrintOrderReceipt(c.Request.Context(), orderID, req.PrinterID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, printMessage(result, "Receipt printed"), result)
}

func printMessage(r *service.PrintResult, ok string) string {
	if r.Printed {
		return ok
	}
	return "Printing failed, receipt returned for preview"
}
