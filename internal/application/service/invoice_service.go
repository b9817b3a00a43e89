package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/money"
	"github.com/shopspring/decimal"
)

// InvoiceRenderer produces a printable document for an invoice.
type InvoiceRenderer interface {
	Render(inv *entity.Invoice) ([]byte, error)
}

// InvoiceService manages invoice settings and renders order invoices.
type InvoiceService struct {
	settingsRepo repository.InvoiceSettingRepository
	tenantRepo   repository.TenantRepository
	orderRepo    repository.OrderRepository
	renderer     InvoiceRenderer
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	settingsRepo repository.InvoiceSettingRepository,
	tenantRepo repository.TenantRepository,
	orderRepo repository.OrderRepository,
	renderer InvoiceRenderer,
) *InvoiceService {
	return &InvoiceService{
		settingsRepo: settingsRepo,
		tenantRepo:   tenantRepo,
		orderRepo:    orderRepo,
		renderer:     renderer,
	}
}

// GetSettings returns the store's invoice settings, or defaults named after the store when none were saved.
func (s *InvoiceService) GetSettings(ctx context.Context) (*entity.InvoiceSetting, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	storeName := ""
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant != nil {
		storeName = tenant.Name
	}
	return entity.DefaultInvoiceSetting(tenantID, storeName), nil
}

// UpdateSettingsInput represents the input for updating invoice settings.
// Nil fields are left unchanged. TaxRate is a percentage such as "16" or "7.5".
type UpdateSettingsInput struct {
	StoreName        *string
	Address          *string
	Phone            *string
	Email            *string
	TaxID            *string
	TaxRate          *string
	PriceIncludesTax *bool
	InvoicePrefix    *string
	FooterNote       *string
	Currency         *string
}

// UpdateSettings validates and saves the invoice settings.
func (s *InvoiceService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.InvoiceSetting, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	var fieldErrs []apperror.FieldError
	if input.StoreName != nil {
		name := strings.TrimSpace(*input.StoreName)
		if name == "" {
			fieldErrs = append(fieldErrs, apperror.FieldError{Field: "store_name", Message: "must not be empty"})
		}
		settings.StoreName = name
	}
	if input.TaxRate != nil {
		bps, err := parseTaxRate(*input.TaxRate)
		if err != nil {
			fieldErrs = append(fieldErrs, apperror.FieldError{Field: "tax_rate", Message: err.Error()})
		}
		settings.TaxRate = bps
	}
	if input.InvoicePrefix != nil {
		prefix := strings.ToUpper(strings.TrimSpace(*input.InvoicePrefix))
		if n := len(prefix); n < 1 || n > 10 || strings.ContainsAny(prefix, " \t") {
			fieldErrs = append(fieldErrs, apperror.FieldError{Field: "invoice_prefix", Message: "must be 1 to 10 characters without spaces"})
		}
		settings.InvoicePrefix = prefix
	}
	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if len(currency) != 3 {
			fieldErrs = append(fieldErrs, apperror.FieldError{Field: "currency", Message: "must be a 3 letter currency code"})
		}
		settings.Currency = currency
	}
	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	if input.PriceIncludesTax != nil {
		settings.PriceIncludesTax = *input.PriceIncludesTax
	}
	settings.Address = optionalString(trimmedPtr(input.Address), settings.Address)
	settings.Phone = optionalString(trimmedPtr(input.Phone), settings.Phone)
	settings.Email = optionalString(trimmedPtr(input.Email), settings.Email)
	settings.TaxID = optionalString(trimmedPtr(input.TaxID), settings.TaxID)
	settings.FooterNote = optionalString(trimmedPtr(input.FooterNote), settings.FooterNote)

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return s.GetSettings(ctx)
}

// parseTaxRate accepts a percentage from 0 to 100 with at most two decimals and returns basis points.
func parseTaxRate(s string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, money.ErrInvalidPrice
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return 0, errTaxRateRange
	}
	if !d.Equal(d.Round(2)) {
		return 0, money.ErrPricePrecision
	}
	return money.RateToBasisPoints(d), nil
}

var errTaxRateRange = errors.New("must be between 0 and 100")

// GetInvoice builds the invoice view of an order.
func (s *InvoiceService) GetInvoice(ctx context.Context, orderID uuid.UUID) (*entity.Invoice, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	return entity.NewInvoice(order, settings), nil
}

// GetInvoicePDF renders the invoice of an order as a PDF.
func (s *InvoiceService) GetInvoicePDF(ctx context.Context, orderID uuid.UUID) (*entity.Invoice, []byte, error) {
	inv, err := s.GetInvoice(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.renderer.Render(inv)
	if err != nil {
		return nil, nil, apperror.Internalf(err, "Failed to render invoice %s", inv.InvoiceNo)
	}
	return inv, doc, nil
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
