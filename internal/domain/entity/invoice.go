package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/pkg/money"
)

// InvoiceHeader is the store block printed at the top of invoices and receipts.
type InvoiceHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// InvoiceLine is one item on an invoice.
type InvoiceLine struct {
	Name      string `json:"name"`
	Code      string `json:"code,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"-"`
	Total     int64  `json:"-"`
}

func (l InvoiceLine) MarshalJSON() ([]byte, error) {
	type Alias InvoiceLine
	return json.Marshal(&struct {
		Alias
		UnitPrice json.Number `json:"unit_price"`
		Total     json.Number `json:"total"`
	}{Alias(l), money.Number(l.UnitPrice), money.Number(l.Total)})
}

// Invoice is a rendered view of an order. It is built at request time and never stored.
type Invoice struct {
	OrderID     uuid.UUID     `json:"order_id"`
	Header      InvoiceHeader `json:"header"`
	InvoiceNo   string        `json:"invoice_no"`
	Date        time.Time     `json:"date"`
	Status      string        `json:"status"`
	Cashier     string        `json:"cashier,omitempty"`
	Employee    string        `json:"employee,omitempty"`
	Customer    string        `json:"customer,omitempty"`
	PaymentType string        `json:"payment_type,omitempty"`
	Currency    string        `json:"currency"`
	Lines       []InvoiceLine `json:"lines"`
	TaxLabel    string        `json:"tax_label"`
	TaxRate     int           `json:"-"`
	SubTotal    int64         `json:"-"`
	Discount    int64         `json:"-"`
	Tax         int64         `json:"-"`
	Total       int64         `json:"-"`
	Paid        int64         `json:"-"`
	Due         int64         `json:"-"`
	FooterNote  string        `json:"footer_note,omitempty"`
}

func (inv Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		TaxRate  json.Number `json:"tax_rate"`
		SubTotal json.Number `json:"sub_total"`
		Discount json.Number `json:"discount"`
		Tax      json.Number `json:"tax"`
		Total    json.Number `json:"total"`
		Paid     json.Number `json:"paid"`
		Due      json.Number `json:"due"`
	}{
		Alias:    Alias(inv),
		TaxRate:  json.Number(money.BasisPointsToRate(inv.TaxRate).StringFixed(2)),
		SubTotal: money.Number(inv.SubTotal),
		Discount: money.Number(inv.Discount),
		Tax:      money.Number(inv.Tax),
		Total:    money.Number(inv.Total),
		Paid:     money.Number(inv.Paid),
		Due:      money.Number(inv.Due),
	})
}

// NewInvoice assembles the invoice view of an order using the store settings.
// The order should have its items, employee, customer and user preloaded.
func NewInvoice(o *Order, s *InvoiceSetting) *Invoice {
	inv := &Invoice{
		OrderID:     o.ID,
		InvoiceNo:   o.InvoiceNo,
		Date:        o.OrderDate,
		Status:      o.Status.String(),
		PaymentType: o.PaymentType,
		TaxRate:     o.TaxRate,
		SubTotal:    o.SubTotal,
		Discount:    o.Discount,
		Tax:         o.Tax,
		Total:       o.Total,
		Paid:        o.Paid,
		Due:         o.Due,
		Lines:       make([]InvoiceLine, 0, len(o.Items)),
	}
	if s != nil {
		inv.Header = InvoiceHeader{
			StoreName: s.StoreName,
			Address:   s.Address,
			Phone:     s.Phone,
			Email:     s.Email,
			TaxID:     s.TaxID,
		}
		inv.Currency = s.Currency
		inv.FooterNote = s.FooterNote
	}
	inv.TaxLabel = TaxLabel(o.PriceIncludesTax)
	if o.User != nil {
		inv.Cashier = o.User.Name
	}
	if o.Employee != nil {
		inv.Employee = o.Employee.Name
	}
	if o.Customer != nil {
		inv.Customer = o.Customer.Name
	}
	for _, it := range o.Items {
		inv.Lines = append(inv.Lines, InvoiceLine{
			Name:      it.ProductName,
			Code:      it.ProductCode,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
	}
	return inv
}

// TaxLabel is "incl." for tax-inclusive orders and "excl." otherwise.
func TaxLabel(inclusive bool) string {
	if inclusive {
		return "incl."
	}
	return "excl."
}
