package service

import (
	"context"
	"fmt"
	"io"

	"github.com/sangkips/pos-backoffice/internal/domain/report"
	"github.com/sangkips/pos-backoffice/internal/infrastructure/spreadsheet"
	"github.com/sangkips/pos-backoffice/pkg/money"
	"github.com/shopspring/decimal"
)

var bucketHeader = []string{"key", "label", "order_count", "gross_amount", "revenue", "discount", "tax", "total_money"}

var productHeader = []string{"product_id", "name", "code", "quantity", "order_count", "gross_sales", "cost", "profit", "margin_pct", "share_pct"}

// Export writes the report as an xlsx workbook and returns a file name for it.
func (s *ReportService) Export(ctx context.Context, kind ReportKind, q ReportQuery, w io.Writer) (string, error) {
	res, err := s.Build(ctx, kind, q)
	if err != nil {
		return "", err
	}

	var tables []spreadsheet.Table
	var rangeKey string
	switch r := res.(type) {
	case *report.Result:
		rangeKey = r.From + "_" + r.To
		tables = []spreadsheet.Table{bucketTable(string(kind), r)}
	case *report.ProductResult:
		rangeKey = r.From + "_" + r.To
		tables = []spreadsheet.Table{productTable("Products", r.Rows, &r.Totals)}
	case *report.Analysis:
		rangeKey = r.From + "_" + r.To
		tables = []spreadsheet.Table{
			productTable("Top", r.Top, nil),
			productTable("Bottom", r.Bottom, nil),
			slowMoverTable(r.SlowMovers),
		}
	case *report.SummaryResult:
		rangeKey = r.From + "_" + r.To
		tables = []spreadsheet.Table{summaryTable(r)}
	case *report.AttendanceResult:
		rangeKey = r.From + "_" + r.To
		tables = []spreadsheet.Table{attendanceTable(r)}
	default:
		return "", fmt.Errorf("no export for %T", res)
	}

	if err := spreadsheet.WriteTables(w, tables...); err != nil {
		return "", fmt.Errorf("write %s report: %w", kind, err)
	}
	return fmt.Sprintf("report-%s-%s.xlsx", kind, rangeKey), nil
}

// cell turns cents into a spreadsheet number.
func cell(cents int64) float64 {
	return money.FromCents(cents).InexactFloat64()
}

func pct(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func bucketRow(b report.Bucket) []any {
	return []any{b.Key, b.Label, b.OrderCount, cell(b.GrossAmount), cell(b.Revenue), cell(b.Discount), cell(b.Tax), cell(b.TotalMoney)}
}

func bucketTable(sheet string, r *report.Result) spreadsheet.Table {
	rows := make([][]any, 0, len(r.Buckets)+1)
	for _, b := range r.Buckets {
		rows = append(rows, bucketRow(b))
	}
	rows = append(rows, bucketRow(r.Totals))
	return spreadsheet.Table{Sheet: sheet, Header: bucketHeader, Rows: rows}
}

func productTable(sheet string, products []report.ProductRow, totals *report.ProductTotals) spreadsheet.Table {
	rows := make([][]any, 0, len(products)+1)
	for _, p := range products {
		rows = append(rows, []any{
			p.ProductID.String(), p.Name, p.Code, p.Quantity, p.OrderCount,
			cell(p.GrossSales), cell(p.Cost), cell(p.Profit), pct(p.MarginPct), pct(p.SharePct),
		})
	}
	if totals != nil {
		rows = append(rows, []any{
			"", "Total", "", totals.Quantity, totals.OrderCount,
			cell(totals.GrossSales), cell(totals.Cost), cell(totals.Profit),
			pct(money.Percent(totals.Profit, totals.GrossSales)), 100.0,
		})
	}
	return spreadsheet.Table{Sheet: sheet, Header: productHeader, Rows: rows}
}

func slowMoverTable(products []report.CatalogProduct) spreadsheet.Table {
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{p.ID.String(), p.Name, p.Code, p.Quantity})
	}
	return spreadsheet.Table{
		Sheet:  "Slow movers",
		Header: []string{"product_id", "name", "code", "stock"},
		Rows:   rows,
	}
}

func summaryTable(r *report.SummaryResult) spreadsheet.Table {
	return spreadsheet.Table{
		Sheet:  "Summary",
		Header: []string{"metric", "value"},
		Rows: [][]any{
			{"from", r.From},
			{"to", r.To},
			{"days", r.Days},
			{"order_count", r.Totals.OrderCount},
			{"gross_amount", cell(r.Totals.GrossAmount)},
			{"revenue", cell(r.Totals.Revenue)},
			{"discount", cell(r.Totals.Discount)},
			{"tax", cell(r.Totals.Tax)},
			{"total_money", cell(r.Totals.TotalMoney)},
			{"average_order_value", cell(r.AverageOrderValue)},
			{"cancelled_orders", r.CancelledOrders},
			{"skipped", r.Skipped},
		},
	}
}

func attendanceTable(r *report.AttendanceResult) spreadsheet.Table {
	rows := make([][]any, 0, len(r.Rows))
	for _, a := range r.Rows {
		rows = append(rows, []any{a.EmployeeID.String(), a.Name, a.DaysPresent, a.Records, a.OpenRecords, pct(a.WorkedHours)})
	}
	return spreadsheet.Table{
		Sheet:  "Attendance",
		Header: []string{"employee_id", "name", "days_present", "records", "open_records", "worked_hours"},
		Rows:   rows,
	}
}
