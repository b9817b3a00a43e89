// Package pdf renders printable documents.
//
// Invoice layout (A4):
//
//	store name + contact        | invoice no + date
//	--------------------------------------------------
//	cashier / employee / customer / payment
//	--------------------------------------------------
//	qty | item | unit price | total
//	--------------------------------------------------
//	                         sub total / discount / tax / total / paid / due
//	footer note
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/sangkips/pos-backoffice/internal/domain/entity"
	"github.com/sangkips/pos-backoffice/pkg/money"
)

var (
	colorPrimary = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorGray    = &props.Color{Red: 110, Green: 110, Blue: 110}
)

// InvoiceRenderer turns invoice views into PDF documents.
type InvoiceRenderer struct{}

func NewInvoiceRenderer() *InvoiceRenderer { return &InvoiceRenderer{} }

// Render returns the PDF bytes of inv.
func (r *InvoiceRenderer) Render(inv *entity.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNo, true).
		WithAuthor(inv.Header.StoreName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(lineRows(inv)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRows(inv)...)

	if inv.FooterNote != "" {
		m.AddRows(line.NewRow(4))
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New(inv.FooterNote, props.Text{Size: 8, Align: align.Center, Color: colorGray}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate invoice %s: %w", inv.InvoiceNo, err)
	}
	return doc.GetBytes(), nil
}

func headerRow(inv *entity.Invoice) core.Row {
	var contact []string
	for _, s := range []string{inv.Header.Address, inv.Header.Phone, inv.Header.Email} {
		if s != "" {
			contact = append(contact, s)
		}
	}
	left := col.New(7).Add(
		text.New(inv.Header.StoreName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		text.New(strings.Join(contact, " | "), props.Text{Size: 8, Top: 9, Color: colorGray}),
	)
	if inv.Header.TaxID != "" {
		left.Add(text.New("Tax ID: "+inv.Header.TaxID, props.Text{Size: 8, Top: 14, Color: colorGray}))
	}

	return row.New(20).Add(
		left,
		col.New(5).Add(
			text.New("INVOICE", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(inv.InvoiceNo, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
			text.New("Date: "+inv.Date.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

func partiesRow(inv *entity.Invoice) core.Row {
	field := func(label, value string, top float64) core.Component {
		return text.New(label+": "+nonEmpty(value, "-"), props.Text{Size: 8, Top: top})
	}
	return row.New(14).Add(
		col.New(6).Add(
			field("Customer", nonEmpty(inv.Customer, "Walk-in"), 1),
			field("Served by", inv.Employee, 6),
		),
		col.New(6).Add(
			field("Cashier", inv.Cashier, 1),
			field("Payment", inv.PaymentType, 6),
			field("Status", inv.Status, 11),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Item", 6, align.Left),
		h("Unit price", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func lineRows(inv *entity.Invoice) []core.Row {
	rows := make([]core.Row, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		name := l.Name
		if l.Code != "" {
			name += " (" + l.Code + ")"
		}
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money.Format(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(money.Format(l.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalRows(inv *entity.Invoice) []core.Row {
	taxLabel := fmt.Sprintf("Tax %s%% (%s)", money.BasisPointsToRate(inv.TaxRate).String(), inv.TaxLabel)
	lines := []struct {
		label string
		value int64
		grand bool
	}{
		{"Sub total", inv.SubTotal, false},
		{"Discount", inv.Discount, false},
		{taxLabel, inv.Tax, false},
		{"Total " + inv.Currency, inv.Total, true},
		{"Paid", inv.Paid, false},
		{"Due", inv.Due, false},
	}

	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		style := fontstyle.Normal
		size := 9.0
		if l.grand {
			style = fontstyle.Bold
			size = 10
		}
		rows = append(rows, row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(l.label+":", props.Text{Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2})),
			col.New(3).Add(text.New(money.Format(l.value), props.Text{Style: style, Size: size, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
