package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
	"github.com/sangkips/pos-backoffice/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	fail      error
	connected bool
	jobs      [][]byte
}

func (d *fakeDevice) Print(_ context.Context, data []byte) error {
	if d.fail != nil {
		return d.fail
	}
	d.jobs = append(d.jobs, data)
	return nil
}

func (d *fakeDevice) Connected(context.Context) bool { return d.connected }

type printerFixture struct {
	svc    *PrinterService
	repo   *fakePrinterRepo
	orders *fakeOrderRepo
	device *fakeDevice
	opened []printer.Config
}

func newPrinterFixture() *printerFixture {
	f := &printerFixture{repo: newFakePrinterRepo(), device: &fakeDevice{connected: true}}
	invoices, _, orders, _ := newInvoiceFixture(&entity.InvoiceSetting{StoreName: "Corner Cafe", Currency: "KES"})
	f.orders = orders
	f.svc = NewPrinterService(f.repo, invoices)
	f.svc.open = func(cfg printer.Config) (printer.Printer, error) {
		f.opened = append(f.opened, cfg)
		return printer.Open(cfg)
	}
	f.svc.now = func() time.Time { return time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC) }
	return f
}

// withDevice routes every configured printer to the fake device.
func (f *printerFixture) withDevice() {
	f.svc.open = func(cfg printer.Config) (printer.Printer, error) {
		f.opened = append(f.opened, cfg)
		return f.device, nil
	}
}

func TestCreatePrinter_Validation(t *testing.T) {
	f := newPrinterFixture()
	ctx := tenantCtx()

	tests := []struct {
		name  string
		input PrinterInput
		field string
	}{
		{"network needs address", PrinterInput{Name: strPtr("Bar"), Connection: strPtr("network")}, "address"},
		{"usb needs device path", PrinterInput{Name: strPtr("Bar"), Connection: strPtr("usb")}, "device_path"},
		{"unknown connection", PrinterInput{Name: strPtr("Bar"), Connection: strPtr("bluetooth")}, "connection"},
		{"paper width", PrinterInput{Name: strPtr("Bar"), PaperWidthMM: intPtr(76)}, "paper_width_mm"},
		{"too many copies", PrinterInput{Name: strPtr("Bar"), Copies: intPtr(6)}, "copies"},
		{"no copies", PrinterInput{Name: strPtr("Bar"), Copies: intPtr(0)}, "copies"},
		{"purpose", PrinterInput{Name: strPtr("Bar"), Purpose: strPtr("label")}, "purpose"},
		{"name", PrinterInput{}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreatePrinter(ctx, &tt.input)
			appErr := apperror.GetAppError(err)
			require.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
			require.Len(t, appErr.Errors, 1)
			assert.Equal(t, tt.field, appErr.Errors[0].Field)
		})
	}
	assert.Empty(t, f.repo.configs)
}

func intPtr(n int) *int { return &n }

func TestCreatePrinter_DefaultsAndSingleDefault(t *testing.T) {
	f := newPrinterFixture()
	ctx := tenantCtx()

	first, err := f.svc.CreatePrinter(ctx, &PrinterInput{Name: strPtr("Counter"), Connection: strPtr("network"), Address: strPtr("10.0.0.5")})
	require.NoError(t, err)
	assert.Equal(t, 80, first.PaperWidthMM)
	assert.Equal(t, 1, first.Copies)
	assert.Equal(t, enum.PurposeReceipt, first.Purpose)
	assert.True(t, first.IsDefault, "first receipt printer becomes the default")

	second, err := f.svc.CreatePrinter(ctx, &PrinterInput{Name: strPtr("Back"), PaperWidthMM: intPtr(58)})
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	_, err = f.svc.SetDefaultPrinter(ctx, second.ID)
	require.NoError(t, err)
	defaults := 0
	for _, c := range f.repo.configs {
		if c.IsDefault && c.Purpose == enum.PurposeReceipt {
			defaults++
			assert.Equal(t, second.ID, c.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	kitchen, err := f.svc.CreatePrinter(ctx, &PrinterInput{Name: strPtr("Kitchen"), Purpose: strPtr("kitchen")})
	require.NoError(t, err)
	assert.True(t, kitchen.IsDefault)

	_, err = f.svc.UpdatePrinter(ctx, first.ID, &PrinterInput{Connection: strPtr("usb")})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	require.NoError(t, f.svc.DeletePrinter(ctx, first.ID))
	_, err = f.svc.GetPrinter(ctx, first.ID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestGetStatus(t *testing.T) {
	f := newPrinterFixture()
	f.withDevice()
	ctx := tenantCtx()

	none, err := f.svc.CreatePrinter(ctx, &PrinterInput{Name: strPtr("Virtual")})
	require.NoError(t, err)
	status, err := f.svc.GetStatus(ctx, none.ID)
	require.NoError(t, err)
	assert.False(t, status.Configured)
	assert.False(t, status.Connected)

	usb, err := f.svc.CreatePrinter(ctx, &PrinterInput{Name: strPtr("Till"), Connection: strPtr("usb"), DevicePath: strPtr("/dev/usb/lp0")})
	require.NoError(t, err)
	status, err = f.svc.GetStatus(ctx, usb.ID)
	require.NoError(t, err)
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
}

func TestTestPrint_ReturnsReceiptWhenPrintingFails(t *testing.T) {
	f := newPrinterFixture()
	ctx := tenantCtx()

	cfg, err := f.svc.CreatePrinter(ctx, &PrinterInput{Name: strPtr("Virtual")})
	require.NoError(t, err)

	res, err := f.svc.TestPrint(ctx, cfg.ID)
	require.NoError(t, err)
	assert.False(t, res.Printed)
	assert.NotEmpty(t, res.Warning)
	require.NotNil(t, res.Receipt)
	assert.Equal(t, "Corner Cafe", res.Receipt.Header.StoreName)
	assert.Len(t, res.Receipt.Lines, 2)
}

func TestPrintOrderReceipt(t *testing.T) {
	f := newPrinterFixture()
	f.withDevice()
	ctx := tenantCtx()

	order := &entity.Order{
		ID:        uuid.New(),
		InvoiceNo: "INV-000001",
		OrderDate: time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
		SubTotal:  5500,
		Total:     5500,
		Paid:      5500,
		Items:     []entity.OrderItem{{ProductName: "Coffee", Quantity: 1, UnitPrice: 5500, Total: 5500}},
	}
	f.orders.orders[order.ID] = order

	_, err := f.svc.PrintOrderReceipt(ctx, order.ID, nil)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code, "no default printer yet")

	cfg, err := f.svc.CreatePrinter(ctx, &PrinterInput{
		Name: strPtr("Till"), Connection: strPtr("network"), Address: strPtr("10.0.0.9"),
		PaperWidthMM: intPtr(58), Copies: intPtr(2),
	})
	require.NoError(t, err)

	res, err := f.svc.PrintOrderReceipt(ctx, order.ID, nil)
	require.NoError(t, err)
	assert.True(t, res.Printed)
	assert.Equal(t, 2, res.Copies)
	assert.Equal(t, cfg.ID, res.PrinterID)
	require.Len(t, f.device.jobs, 2)
	assert.True(t, bytes.Contains(f.device.jobs[0], []byte("INV-000001")))

	f.device.fail = errors.New("paper out")
	res, err = f.svc.PrintOrderReceipt(ctx, order.ID, &cfg.ID)
	require.NoError(t, err)
	assert.False(t, res.Printed)
	assert.Contains(t, res.Warning, "paper out")

	_, err = f.svc.PrintOrderReceipt(ctx, uuid.New(), &cfg.ID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestFormatReceipt(t *testing.T) {
	inv := &entity.Invoice{
		Header:    entity.InvoiceHeader{StoreName: "Corner Cafe"},
		InvoiceNo: "INV-000042",
		Date:      time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC),
		Lines:     []entity.InvoiceLine{{Name: "A very long product name that must wrap", Quantity: 3, UnitPrice: 100, Total: 300}},
		TaxLabel:  "excl.",
		TaxRate:   1600,
		SubTotal:  300,
		Tax:       48,
		Total:     348,
		Currency:  "KES",
	}
	for _, width := range []int{32, 48} {
		out := FormatReceipt(inv, width)
		assert.True(t, bytes.Contains(out, []byte("INV-000042")))
		assert.True(t, bytes.Contains(out, []byte("KES 3.48")))
		assert.True(t, bytes.Contains(out, []byte("Tax 16.00% (excl.):")))
		assert.True(t, bytes.Contains(out, []byte("3x A very long")))
	}
}
