package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceRenderer_Render(t *testing.T) {
	inv := &entity.Invoice{
		Header:    entity.InvoiceHeader{StoreName: "Corner Cafe", Phone: "0700 000000", TaxID: "P051234567X"},
		InvoiceNo: "INV-000042",
		Date:      time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC),
		Status:    "Complete",
		Currency:  "KES",
		Lines: []entity.InvoiceLine{
			{Name: "Espresso", Code: "ESP-1", Quantity: 2, UnitPrice: 250, Total: 500},
			{Name: "Croissant", Quantity: 1, UnitPrice: 300, Total: 300},
		},
		TaxLabel:   entity.TaxLabel(true),
		TaxRate:    1600,
		SubTotal:   800,
		Tax:        110,
		Total:      800,
		Paid:       1000,
		FooterNote: "Thank you",
	}

	out, err := NewInvoiceRenderer().Render(inv)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestInvoiceRenderer_RenderEmptyOrder(t *testing.T) {
	out, err := NewInvoiceRenderer().Render(&entity.Invoice{InvoiceNo: "INV-000001"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
