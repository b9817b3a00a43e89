package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/money"
	"github.com/sangkips/pos-backoffice/pkg/printer"
)

// InvoiceSource supplies the invoice data printed on receipts.
type InvoiceSource interface {
	GetSettings(ctx context.Context) (*entity.InvoiceSetting, error)
	GetInvoice(ctx context.Context, orderID uuid.UUID) (*entity.Invoice, error)
}

// PrinterService manages printer configurations and prints receipts.
type PrinterService struct {
	printerRepo repository.PrinterConfigRepository
	invoices    InvoiceSource
	open        func(printer.Config) (printer.Printer, error)
	now         func() time.Time
}

// NewPrinterService creates a new printer service.
func NewPrinterService(printerRepo repository.PrinterConfigRepository, invoices InvoiceSource) *PrinterService {
	return &PrinterService{
		printerRepo: printerRepo,
		invoices:    invoices,
		open:        printer.Open,
		now:         time.Now,
	}
}

// PrinterInput carries the writable fields of a printer configuration.
// Nil fields keep their current value on update and take defaults on create.
type PrinterInput struct {
	Name         *string
	Connection   *string
	DevicePath   *string
	Address      *string
	PaperWidthMM *int
	Copies       *int
	Purpose      *string
	AutoPrint    *bool
	IsDefault    *bool
}

func (in *PrinterInput) apply(cfg *entity.PrinterConfig) {
	if in.Name != nil {
		cfg.Name = strings.TrimSpace(*in.Name)
	}
	if in.Connection != nil {
		cfg.Connection = enum.PrinterConnection(strings.ToLower(strings.TrimSpace(*in.Connection)))
	}
	if in.DevicePath != nil {
		cfg.DevicePath = strings.TrimSpace(*in.DevicePath)
	}
	if in.Address != nil {
		cfg.Address = strings.TrimSpace(*in.Address)
	}
	if in.PaperWidthMM != nil {
		cfg.PaperWidthMM = *in.PaperWidthMM
	}
	if in.Copies != nil {
		cfg.Copies = *in.Copies
	}
	if in.Purpose != nil {
		cfg.Purpose = enum.PrinterPurpose(strings.ToLower(strings.TrimSpace(*in.Purpose)))
	}
	if in.AutoPrint != nil {
		cfg.AutoPrint = *in.AutoPrint
	}
}

// validatePrinter checks a configuration before it is stored.
func validatePrinter(cfg *entity.PrinterConfig) error {
	var errs []apperror.FieldError
	if cfg.Name == "" {
		errs = append(errs, apperror.FieldError{Field: "name", Message: "is required"})
	}
	switch cfg.Connection {
	case enum.PrinterNetwork:
		if cfg.Address == "" {
			errs = append(errs, apperror.FieldError{Field: "address", Message: "is required for network printers"})
		}
	case enum.PrinterUSB:
		if cfg.DevicePath == "" {
			errs = append(errs, apperror.FieldError{Field: "device_path", Message: "is required for usb printers"})
		}
	case enum.PrinterNone:
	default:
		errs = append(errs, apperror.FieldError{Field: "connection", Message: "must be one of usb, network, none"})
	}
	if cfg.PaperWidthMM != 58 && cfg.PaperWidthMM != 80 {
		errs = append(errs, apperror.FieldError{Field: "paper_width_mm", Message: "must be 58 or 80"})
	}
	if cfg.Copies < 1 || cfg.Copies > 5 {
		errs = append(errs, apperror.FieldError{Field: "copies", Message: "must be between 1 and 5"})
	}
	if cfg.Purpose != enum.PurposeReceipt && cfg.Purpose != enum.PurposeKitchen {
		errs = append(errs, apperror.FieldError{Field: "purpose", Message: "must be receipt or kitchen"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// CreatePrinter stores a new printer. The first printer of a purpose becomes its default.
func (s *PrinterService) CreatePrinter(ctx context.Context, input *PrinterInput) (*entity.PrinterConfig, error) {
	if _, err := requireTenant(ctx); err != nil {
		return nil, err
	}
	cfg := &entity.PrinterConfig{
		Connection:   enum.PrinterNone,
		PaperWidthMM: 80,
		Copies:       1,
		Purpose:      enum.PurposeReceipt,
	}
	input.apply(cfg)
	if err := validatePrinter(cfg); err != nil {
		return nil, err
	}

	current, err := s.printerRepo.GetDefault(ctx, cfg.Purpose)
	if err != nil {
		return nil, err
	}
	makeDefault := current == nil || (input.IsDefault != nil && *input.IsDefault)

	if err := s.printerRepo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	if makeDefault {
		if err := s.printerRepo.SetDefault(ctx, cfg.ID, cfg.Purpose); err != nil {
			return nil, err
		}
	}
	return s.GetPrinter(ctx, cfg.ID)
}

// GetPrinter returns one printer configuration.
func (s *PrinterService) GetPrinter(ctx context.Context, id uuid.UUID) (*entity.PrinterConfig, error) {
	cfg, err := s.printerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, apperror.NewNotFoundError("Printer")
	}
	return cfg, nil
}

// ListPrinters returns every printer of the store.
func (s *PrinterService) ListPrinters(ctx context.Context) ([]entity.PrinterConfig, error) {
	if _, err := requireTenant(ctx); err != nil {
		return nil, err
	}
	return s.printerRepo.List(ctx)
}

// UpdatePrinter changes a printer. Moving a default printer to another purpose clears its default flag.
func (s *PrinterService) UpdatePrinter(ctx context.Context, id uuid.UUID, input *PrinterInput) (*entity.PrinterConfig, error) {
	cfg, err := s.GetPrinter(ctx, id)
	if err != nil {
		return nil, err
	}
	purpose := cfg.Purpose
	input.apply(cfg)
	if err := validatePrinter(cfg); err != nil {
		return nil, err
	}
	if cfg.Purpose != purpose {
		cfg.IsDefault = false
	}
	if err := s.printerRepo.Update(ctx, cfg); err != nil {
		return nil, err
	}
	if input.IsDefault != nil && *input.IsDefault {
		if err := s.printerRepo.SetDefault(ctx, cfg.ID, cfg.Purpose); err != nil {
			return nil, err
		}
	}
	return s.GetPrinter(ctx, id)
}

// DeletePrinter removes a printer configuration.
func (s *PrinterService) DeletePrinter(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPrinter(ctx, id); err != nil {
		return err
	}
	return s.printerRepo.Delete(ctx, id)
}

// SetDefaultPrinter makes id the only default printer for its purpose.
func (s *PrinterService) SetDefaultPrinter(ctx context.Context, id uuid.UUID) (*entity.PrinterConfig, error) {
	cfg, err := s.GetPrinter(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.printerRepo.SetDefault(ctx, cfg.ID, cfg.Purpose); err != nil {
		return nil, err
	}
	return s.GetPrinter(ctx, id)
}

// PrinterStatus reports whether a printer has a device and answers.
type PrinterStatus struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Connection string    `json:"connection"`
	Configured bool      `json:"configured"`
	Connected  bool      `json:"connected"`
}

// GetStatus probes the printer's device.
func (s *PrinterService) GetStatus(ctx context.Context, id uuid.UUID) (*PrinterStatus, error) {
	cfg, err := s.GetPrinter(ctx, id)
	if err != nil {
		return nil, err
	}
	status := &PrinterStatus{
		ID:         cfg.ID,
		Name:       cfg.Name,
		Connection: string(cfg.Connection),
		Configured: cfg.Connection != enum.PrinterNone,
	}
	if !status.Configured {
		return status, nil
	}
	p, err := s.open(deviceConfig(cfg))
	if err != nil {
		return status, nil
	}
	status.Connected = p.Connected(ctx)
	return status, nil
}

// PrintResult is what a print request returns. The receipt is included even when printing failed.
type PrintResult struct {
	PrinterID uuid.UUID       `json:"printer_id"`
	Printed   bool            `json:"printed"`
	Copies    int             `json:"copies"`
	Warning   string          `json:"warning,omitempty"`
	Receipt   *entity.Invoice `json:"receipt"`
}

// TestPrint sends a sample receipt to the printer.
func (s *PrinterService) TestPrint(ctx context.Context, id uuid.UUID) (*PrintResult, error) {
	cfg, err := s.GetPrinter(ctx, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.invoices.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Invoice{
		Header: entity.InvoiceHeader{
			StoreName: settings.StoreName,
			Address:   settings.Address,
			Phone:     settings.Phone,
			TaxID:     settings.TaxID,
		},
		InvoiceNo: "TEST-001",
		Date:      s.now(),
		Status:    "Test",
		Cashier:   "System",
		Currency:  settings.Currency,
		Lines: []entity.InvoiceLine{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: 1000, Total: 1000},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: 500, Total: 1000},
		},
		TaxLabel:   entity.TaxLabel(settings.PriceIncludesTax),
		SubTotal:   2000,
		Total:      2000,
		Paid:       2000,
		FooterNote: fmt.Sprintf("Printer: %s (%d mm)", cfg.Name, cfg.PaperWidthMM),
	}
	return s.print(ctx, cfg, receipt, 1), nil
}

// PrintOrderReceipt prints an order receipt on printerID, or on the default receipt printer when it is nil.
func (s *PrinterService) PrintOrderReceipt(ctx context.Context, orderID uuid.UUID, printerID *uuid.UUID) (*PrintResult, error) {
	var cfg *entity.PrinterConfig
	var err error
	if printerID != nil {
		cfg, err = s.GetPrinter(ctx, *printerID)
	} else {
		cfg, err = s.printerRepo.GetDefault(ctx, enum.PurposeReceipt)
		if err == nil && cfg == nil {
			err = apperror.NewBadRequestError("No default receipt printer configured")
		}
	}
	if err != nil {
		return nil, err
	}

	receipt, err := s.invoices.GetInvoice(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.print(ctx, cfg, receipt, cfg.Copies), nil
}

// print never fails the request: device errors come back as a warning next to the receipt.
func (s *PrinterService) print(ctx context.Context, cfg *entity.PrinterConfig, receipt *entity.Invoice, copies int) *PrintResult {
	result := &PrintResult{PrinterID: cfg.ID, Receipt: receipt}

	p, err := s.open(deviceConfig(cfg))
	if err != nil {
		result.Warning = err.Error()
		return result
	}
	data := FormatReceipt(receipt, printer.CharsForPaper(cfg.PaperWidthMM))
	for i := 0; i < copies; i++ {
		if err := p.Print(ctx, data); err != nil {
			log.Ctx(ctx).Warn().Err(err).
				Str("printer_id", cfg.ID.String()).
				Str("invoice_no", receipt.InvoiceNo).
				Int("copy", i+1).
				Msg("receipt print failed")
			result.Warning = fmt.Sprintf("print failed: %v", err)
			return result
		}
		result.Copies++
	}
	result.Printed = true
	return result
}

func deviceConfig(cfg *entity.PrinterConfig) printer.Config {
	return printer.Config{
		Connection: string(cfg.Connection),
		DevicePath: cfg.DevicePath,
		Address:    cfg.Address,
	}
}

// FormatReceipt converts an invoice into ESC/POS bytes for a printer with width characters per line.
func FormatReceipt(inv *entity.Invoice, width int) []byte {
	doc := printer.NewDocument(width)

	doc.Align(printer.AlignCenter).
		Bold(true).
		Size(printer.SizeDouble).
		Line(inv.Header.StoreName).
		Size(printer.SizeNormal).
		Bold(false)
	if inv.Header.Address != "" {
		doc.Wrap(inv.Header.Address)
	}
	if inv.Header.Phone != "" {
		doc.Line(inv.Header.Phone)
	}
	if inv.Header.TaxID != "" {
		doc.Linef("Tax ID: %s", inv.Header.TaxID)
	}

	doc.Align(printer.AlignLeft).Rule('-')
	doc.Columns("Invoice:", inv.InvoiceNo).
		Columns("Date:", inv.Date.Format("2006-01-02 15:04"))
	if inv.Cashier != "" {
		doc.Columns("Cashier:", inv.Cashier)
	}
	if inv.Employee != "" {
		doc.Columns("Served by:", inv.Employee)
	}
	if inv.Customer != "" {
		doc.Columns("Customer:", inv.Customer)
	}
	if inv.PaymentType != "" {
		doc.Columns("Payment:", inv.PaymentType)
	}
	doc.Rule('-')

	for _, l := range inv.Lines {
		doc.Item(l.Quantity, l.Name, money.Format(l.Total))
		if l.Quantity > 1 {
			doc.Linef("   @ %s each", money.Format(l.UnitPrice))
		}
	}
	doc.Rule('-')

	doc.Columns("Subtotal:", money.Format(inv.SubTotal))
	if inv.Discount > 0 {
		doc.Columns("Discount:", "-"+money.Format(inv.Discount))
	}
	if inv.Tax > 0 {
		rate := money.BasisPointsToRate(inv.TaxRate).StringFixed(2)
		doc.Columns(fmt.Sprintf("Tax %s%% (%s):", rate, inv.TaxLabel), money.Format(inv.Tax))
	}
	total := money.Format(inv.Total)
	if inv.Currency != "" {
		total = inv.Currency + " " + total
	}
	doc.Bold(true).Columns("TOTAL:", total).Bold(false)
	if inv.Paid > 0 {
		doc.Columns("Paid:", money.Format(inv.Paid))
	}
	if inv.Due > 0 {
		doc.Columns("Due:", money.Format(inv.Due))
	}
	doc.Rule('-')

	doc.Align(printer.AlignCenter).Feed(1)
	if inv.FooterNote != "" {
		doc.Wrap(inv.FooterNote)
	} else {
		doc.Line("Thank you for your business!")
	}
	doc.Align(printer.AlignLeft).Cut()

	return doc.Bytes()
}
