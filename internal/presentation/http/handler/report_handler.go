package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-backoffice/internal/application/service"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/response"
)

// ReportHandler serves the sales, product and attendance reports.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Kinds lists the available report names.
func (h *ReportHandler) Kinds(c *gin.Context) {
	response.OK(c, "Reports", service.ReportKinds)
}

// Get runs the report named by :kind for ?from=&to= and answers JSON or, with
// ?format=xlsx, a workbook download.
// @Summary Run report
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Param kind path string true "daily, employees, customers, products, product-analysis, summary or attendance"
// @Param from query string false "First day (YYYY-MM-DD), defaults to the first of this month"
// @Param to query string false "Last day (YYYY-MM-DD), defaults to today"
// @Param format query string false "json or xlsx"
// @Param top query int false "Rows in the top and bottom lists of product-analysis"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /reports/{kind} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	kind, err := service.ParseReportKind(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.ReportRequest
	if !bindQuery(c, &req) {
		return
	}
	q := service.ReportQuery{From: req.From, To: req.To, TopN: req.Top}

	if req.Format == "xlsx" {
		var buf bytes.Buffer
		filename, err := h.reportService.Export(c.Request.Context(), kind, q, &buf)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.File(c, filename, xlsxContentType, buf.Bytes())
		return
	}

	body, err := h.reportService.JSON(c.Request.Context(), kind, q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Report generated", body)
}
