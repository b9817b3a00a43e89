package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/internal/infrastructure/cache"
	"github.com/sangkips/pos-backoffice/internal/infrastructure/spreadsheet"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/money"
	"github.com/sangkips/pos-backoffice/pkg/utils"
)

// Locker serializes work that must not run twice at once for a tenant.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// ImportOptions bounds bulk imports.
type ImportOptions struct {
	MaxRows int
	LockTTL time.Duration
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int                       `json:"total_rows"`
	Successful int                       `json:"successful"`
	Failed     int                       `json:"failed"`
	Errors     []ImportRowError          `json:"errors"`
	Rejected   []spreadsheet.RejectedRow `json:"-"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts validates every row of an xlsx workbook and creates the valid
// ones in a single batch. Rejected rows are reported with their sheet row number.
func (s *ProductService) ImportProducts(ctx context.Context, r io.Reader) (*ImportResult, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}

	ttl := s.importOpts.LockTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	release, err := s.locker.Obtain(ctx, "import:products:"+tenantID.String(), ttl)
	if errors.Is(err, cache.ErrLocked) {
		return nil, apperror.NewConflictError("Another product import is running for this store")
	}
	if err != nil {
		return nil, fmt.Errorf("obtain import lock: %w", err)
	}
	defer release()

	rows, err := spreadsheet.ReadProducts(r, s.importOpts.MaxRows)
	if err != nil {
		return nil, importFileError(err, s.importOpts.MaxRows)
	}

	result := &ImportResult{TotalRows: len(rows), Errors: []ImportRowError{}}
	if len(rows) == 0 {
		return result, nil
	}

	categories, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		if c := utils.NormalizeCode(row.Code); c != "" {
			codes = append(codes, c)
		}
	}
	stored, err := s.productRepo.ExistingCodes(ctx, codes)
	if err != nil {
		return nil, err
	}

	seenCodes := make(map[string]int)
	seenSlugs := make(map[string]bool)
	newCategories := make(map[string]*entity.Category)
	var valid []entity.Product

	for _, row := range rows {
		product, rowErrs := parseImportRow(row)

		code := utils.NormalizeCode(row.Code)
		if code != "" {
			if prev, ok := seenCodes[code]; ok {
				rowErrs = append(rowErrs, ImportRowError{Row: row.Row, Field: "code", Message: fmt.Sprintf("duplicate code %q (same as row %d)", code, prev)})
			} else if stored[code] {
				rowErrs = append(rowErrs, ImportRowError{Row: row.Row, Field: "code", Message: fmt.Sprintf("product code %q already exists", code)})
			}
		}

		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			result.Rejected = append(result.Rejected, spreadsheet.RejectedRow{ProductRow: row, Error: joinRowErrors(rowErrs)})
			continue
		}

		if code == "" {
			code = utils.GenerateProductCode()
		}
		seenCodes[code] = row.Row
		product.TenantID = tenantID
		product.Code = code

		slug, err := s.importSlug(ctx, product.Name, seenSlugs)
		if err != nil {
			return nil, err
		}
		product.Slug = slug

		if name := strings.TrimSpace(row.Category); name != "" {
			key := strings.ToLower(name)
			if id, ok := categories[key]; ok {
				product.CategoryID = &id
			} else {
				c, ok := newCategories[key]
				if !ok {
					c = &entity.Category{ID: uuid.New(), TenantID: tenantID, Name: name, Slug: utils.Slugify(name)}
					newCategories[key] = c
				}
				product.CategoryID = &c.ID
			}
		}

		valid = append(valid, product)
	}

	if len(valid) > 0 {
		created := make([]entity.Category, 0, len(newCategories))
		for _, c := range newCategories {
			created = append(created, *c)
		}
		if err := s.productRepo.ImportBatch(ctx, created, valid); err != nil {
			return nil, apperror.Internalf(err, "Failed to import products")
		}
	}

	result.Successful = len(valid)
	result.Failed = len(result.Rejected)
	return result, nil
}

// WriteImportErrorReport writes the rejected rows of an import as an xlsx workbook.
func (s *ProductService) WriteImportErrorReport(w io.Writer, result *ImportResult) error {
	return spreadsheet.WriteRejected(w, result.Rejected)
}

// ExportProducts writes the matching products as an xlsx workbook that can be imported again.
func (s *ProductService) ExportProducts(ctx context.Context, filter repository.ProductFilter, w io.Writer) error {
	products, err := s.productRepo.ListAll(ctx, filter)
	if err != nil {
		return err
	}

	rows := make([]spreadsheet.ProductRow, 0, len(products))
	for _, p := range products {
		row := spreadsheet.ProductRow{
			Name:          p.Name,
			Code:          p.Code,
			Quantity:      strconv.Itoa(p.Quantity),
			QuantityAlert: strconv.Itoa(p.QuantityAlert),
			SellingPrice:  money.Format(p.SellingPrice),
			TaxType:       strings.ToLower(p.TaxType.String()),
		}
		if p.BuyingPrice > 0 {
			row.BuyingPrice = money.Format(p.BuyingPrice)
		}
		if p.Barcode != nil {
			row.Barcode = *p.Barcode
		}
		if p.Category != nil {
			row.Category = p.Category.Name
		}
		if p.Notes != nil {
			row.Notes = *p.Notes
		}
		rows = append(rows, row)
	}
	return spreadsheet.WriteProducts(w, rows)
}

// WriteImportTemplate writes an empty import workbook with one example row.
func (s *ProductService) WriteImportTemplate(w io.Writer) error {
	return spreadsheet.WriteTemplate(w)
}

func (s *ProductService) categoryIndex(ctx context.Context) (map[string]uuid.UUID, error) {
	categories, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]uuid.UUID, len(categories))
	for _, c := range categories {
		index[strings.ToLower(strings.TrimSpace(c.Name))] = c.ID
	}
	return index, nil
}

func (s *ProductService) importSlug(ctx context.Context, name string, seen map[string]bool) (string, error) {
	slug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return "", err
	}
	for seen[slug] {
		slug = utils.Slugify(name) + "-" + strings.ToLower(uuid.New().String()[:8])
	}
	seen[slug] = true
	return slug, nil
}

// parseImportRow checks one sheet row and converts it. Every failing field is reported.
func parseImportRow(row spreadsheet.ProductRow) (entity.Product, []ImportRowError) {
	var errs []ImportRowError
	fail := func(field, msg string) {
		errs = append(errs, ImportRowError{Row: row.Row, Field: field, Message: msg})
	}

	p := entity.Product{
		Name:     strings.TrimSpace(row.Name),
		IsActive: true,
	}
	if p.Name == "" {
		fail("name", "is required")
	}

	if strings.TrimSpace(row.SellingPrice) == "" {
		fail("selling_price", "is required")
	} else if cents, err := money.ParsePrice(row.SellingPrice); err != nil {
		fail("selling_price", err.Error())
	} else {
		p.SellingPrice = cents
	}
	if cents, err := parseOptionalPrice(row.BuyingPrice); err != nil {
		fail("buying_price", err.Error())
	} else {
		p.BuyingPrice = cents
	}

	if n, err := parseCount(row.Quantity); err != nil {
		fail("quantity", err.Error())
	} else {
		p.Quantity = n
	}
	if n, err := parseCount(row.QuantityAlert); err != nil {
		fail("quantity_alert", err.Error())
	} else {
		p.QuantityAlert = n
	}

	if tt, err := enum.ParseTaxType(row.TaxType); err != nil {
		fail("tax_type", "must be inclusive, exclusive, 1 or 0")
	} else {
		p.TaxType = tt
	}

	if b := strings.TrimSpace(row.Barcode); b != "" {
		p.Barcode = &b
	}
	if n := strings.TrimSpace(row.Notes); n != "" {
		p.Notes = &n
	}
	return p, errs
}

// parseCount accepts an empty cell as zero and whole numbers written as "5" or "5.0".
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, errors.New("must not be negative")
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, errors.New("must be a whole number")
	}
	if f < 0 {
		return 0, errors.New("must not be negative")
	}
	return int(f), nil
}

func joinRowErrors(errs []ImportRowError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Field + ": " + e.Message
	}
	return strings.Join(parts, "; ")
}

func importFileError(err error, maxRows int) error {
	var missing *spreadsheet.MissingColumnError
	switch {
	case errors.As(err, &missing):
		return apperror.NewFieldError("file", missing.Error())
	case errors.Is(err, spreadsheet.ErrEmptyWorkbook):
		return apperror.NewFieldError("file", "the workbook is empty")
	case errors.Is(err, spreadsheet.ErrTooManyRows):
		return apperror.NewFieldError("file", fmt.Sprintf("at most %d rows can be imported at once", maxRows))
	}
	return apperror.NewFieldError("file", "must be a valid .xlsx workbook")
}
