package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-backoffice/internal/application/service"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/request"
	"github.com/sangkips/pos-backoffice/internal/presentation/http/dto/response"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/pagination"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
	maxUpload      int64
}

// NewProductHandler creates a new product handler. maxUpload caps import file size in bytes.
func NewProductHandler(productService *service.ProductService, maxUpload int64) *ProductHandler {
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &ProductHandler{productService: productService, maxUpload: maxUpload}
}

func productFilter(req request.ProductFilterRequest) (repository.ProductFilter, error) {
	categoryID, err := optionalUUID("category_id", req.CategoryID)
	if err != nil {
		return repository.ProductFilter{}, err
	}
	f := repository.ProductFilter{
		Pagination: pagination.Params{Page: req.Page, PerPage: req.PerPage},
		Search:     req.Search,
		CategoryID: categoryID,
		LowStock:   req.LowStock,
		ActiveOnly: req.ActiveOnly,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
	f.Pagination.Normalize()
	return f, nil
}

func parseTaxType(s *string) (*enum.TaxType, error) {
	if s == nil {
		return nil, nil
	}
	t, err := enum.ParseTaxType(*s)
	if err != nil {
		return nil, apperror.NewFieldError("tax_type", "must be inclusive or exclusive")
	}
	return &t, nil
}

// List handles listing products
// @Summary List Products
// @Tags products
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Name, code or barcode"
// @Param category_id query string false "Category ID"
// @Param low_stock query bool false "Only products at or below their alert quantity"
// @Success 200 {object} response.APIResponse
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var req request.ProductFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	filter, err := productFilter(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := h.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Products retrieved", page)
}

// Create handles product creation
// @Summary Create Product
// @Tags products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateProductRequest true "Product data"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	input := &service.CreateProductInput{
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Code:          req.Code,
		Barcode:       req.Barcode,
		Quantity:      req.Quantity,
		QuantityAlert: req.QuantityAlert,
		BuyingPrice:   req.BuyingPrice,
		SellingPrice:  req.SellingPrice,
		Notes:         req.Notes,
	}
	if req.TaxType != "" {
		taxType, err := parseTaxType(&req.TaxType)
		if err != nil {
			response.Error(c, err)
			return
		}
		input.TaxType = *taxType
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product by slug
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved", product)
}

// Update handles product update
func (h *ProductHandler) Update(c *gin.Context) {
	var req request.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	taxType, err := parseTaxType(req.TaxType)
	if err != nil {
		response.Error(c, err)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), &service.UpdateProductInput{
		Slug:          c.Param("slug"),
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		Name:          req.Name,
		Code:          req.Code,
		Barcode:       req.Barcode,
		Quantity:      req.Quantity,
		QuantityAlert: req.QuantityAlert,
		BuyingPrice:   req.BuyingPrice,
		SellingPrice:  req.SellingPrice,
		TaxType:       taxType,
		Notes:         req.Notes,
		IsActive:      req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("slug")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted successfully", nil)
}

// GetLowStock returns products at or below their alert quantity
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	products, err := h.productService.GetLowStockProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved", products)
}

// Import handles a bulk xlsx upload in the "file" form field.
// With ?report=xlsx the rejected rows come back as a workbook instead of JSON.
// @Summary Import Products
// @Tags products
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Param report query string false "xlsx to download rejected rows"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /products/import [post]
func (h *ProductHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperror.NewFieldError("file", "an .xlsx file is required"))
		return
	}
	if header.Size > h.maxUpload {
		response.Error(c, apperror.NewFieldError("file", "file is larger than "+strconv.FormatInt(h.maxUpload>>20, 10)+" MB"))
		return
	}

	f, err := header.Open()
	if err != nil {
		response.Error(c, apperror.NewFieldError("file", "unable to read upload"))
		return
	}
	defer f.Close()

	result, err := h.productService.ImportProducts(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}

	if c.Query("report") == "xlsx" && result.Failed > 0 {
		var buf bytes.Buffer
		if err := h.productService.WriteImportErrorReport(&buf, result); err != nil {
			response.Error(c, apperror.Internalf(err, "Failed to build import report"))
			return
		}
		c.Header("X-Import-Successful", strconv.Itoa(result.Successful))
		c.Header("X-Import-Failed", strconv.Itoa(result.Failed))
		response.File(c, "product-import-errors.xlsx", xlsxContentType, buf.Bytes())
		return
	}

	switch {
	case result.TotalRows == 0:
		response.Fail(c, http.StatusUnprocessableEntity, "The file contains no product rows", result)
	case result.Successful == 0:
		response.Fail(c, http.StatusUnprocessableEntity, "No valid rows to import", result)
	default:
		response.OK(c, "Products imported", result)
	}
}

// Export downloads the filtered products as an importable workbook.
func (h *ProductHandler) Export(c *gin.Context) {
	var req request.ProductFilterRequest
	if !bindQuery(c, &req) {
		return
	}

	filter, err := productFilter(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.productService.ExportProducts(c.Request.Context(), filter, &buf); err != nil {
		response.Error(c, err)
		return
	}

	response.File(c, "products.xlsx", xlsxContentType, buf.Bytes())
}

// Template downloads an empty import workbook.
func (h *ProductHandler) Template(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.productService.WriteImportTemplate(&buf); err != nil {
		response.Error(c, apperror.Internalf(err, "Failed to build template"))
		return
	}

	response.File(c, "product-import-template.xlsx", xlsxContentType, buf.Bytes())
}
