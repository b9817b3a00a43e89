package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_MarshalJSON(t *testing.T) {
	p := Product{Name: "Tea", Code: "T1", BuyingPrice: 50, SellingPrice: 1250, Quantity: 2, QuantityAlert: 5}
	b, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, 12.5, out["selling_price"])
	assert.Equal(t, 0.5, out["buying_price"])
	assert.Equal(t, true, out["low_stock"])
	assert.Equal(t, "Exclusive", out["tax_type"])
}

func TestAttendanceRecord_Worked(t *testing.T) {
	in := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	out := in.Add(8*time.Hour + 30*time.Minute)

	open := AttendanceRecord{CheckIn: in}
	assert.True(t, open.IsOpen())
	assert.Zero(t, open.Worked())

	closed := AttendanceRecord{CheckIn: in, CheckOut: &out}
	assert.False(t, closed.IsOpen())
	assert.Equal(t, 8*time.Hour+30*time.Minute, closed.Worked())
}

func TestNewInvoice(t *testing.T) {
	o := &Order{
		ID:               uuid.New(),
		InvoiceNo:        "INV-000001",
		Status:           enum.OrderStatusComplete,
		PriceIncludesTax: true,
		TaxRate:          1600,
		SubTotal:         11600,
		Tax:              1600,
		Total:            11600,
		Paid:             11600,
		User:             &User{Name: "Cashier"},
		Customer:         &Customer{Name: "Jane"},
		Items: []OrderItem{
			{ProductName: "Tea", Quantity: 2, UnitPrice: 5800, Total: 11600},
		},
	}
	s := &InvoiceSetting{StoreName: "Cafe", Currency: "KES", FooterNote: "Thanks"}

	inv := NewInvoice(o, s)
	assert.Equal(t, "Cafe", inv.Header.StoreName)
	assert.Equal(t, "incl.", inv.TaxLabel)
	assert.Equal(t, "Cashier", inv.Cashier)
	assert.Equal(t, "Jane", inv.Customer)
	require.Len(t, inv.Lines, 1)

	b, err := json.Marshal(inv)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, 116.0, out["total"])
	assert.Equal(t, 16.0, out["tax_rate"])
	assert.Equal(t, "Complete", out["status"])
}
