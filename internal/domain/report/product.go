package report

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/pkg/money"
	"github.com/shopspring/decimal"
)

func decimalInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// ProductRow is the sales of one product across a range.
type ProductRow struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	Code       string          `json:"code,omitempty"`
	Quantity   int             `json:"quantity"`
	OrderCount int             `json:"order_count"`
	GrossSales int64           `json:"-"`
	Cost       int64           `json:"-"`
	Profit     int64           `json:"-"`
	MarginPct  decimal.Decimal `json:"margin_pct"`
	SharePct   decimal.Decimal `json:"share_pct"`

	orders map[uuid.UUID]struct{}
}

func (r ProductRow) MarshalJSON() ([]byte, error) {
	type Alias ProductRow
	return json.Marshal(&struct {
		Alias
		GrossSales json.Number `json:"gross_sales"`
		Cost       json.Number `json:"cost"`
		Profit     json.Number `json:"profit"`
		MarginPct  json.Number `json:"margin_pct"`
		SharePct   json.Number `json:"share_pct"`
	}{
		Alias:      Alias(r),
		GrossSales: money.Number(r.GrossSales),
		Cost:       money.Number(r.Cost),
		Profit:     money.Number(r.Profit),
		MarginPct:  json.Number(r.MarginPct.StringFixed(2)),
		SharePct:   json.Number(r.SharePct.StringFixed(2)),
	})
}

// ProductTotals sums every ProductRow of a report.
type ProductTotals struct {
	Quantity   int   `json:"quantity"`
	OrderCount int   `json:"order_count"`
	GrossSales int64 `json:"-"`
	Cost       int64 `json:"-"`
	Profit     int64 `json:"-"`
}

func (t ProductTotals) MarshalJSON() ([]byte, error) {
	type Alias ProductTotals
	return json.Marshal(&struct {
		Alias
		GrossSales json.Number `json:"gross_sales"`
		Cost       json.Number `json:"cost"`
		Profit     json.Number `json:"profit"`
	}{Alias(t), money.Number(t.GrossSales), money.Number(t.Cost), money.Number(t.Profit)})
}

// ProductResult is the per-product sales report, best sellers first.
type ProductResult struct {
	From    string        `json:"from"`
	To      string        `json:"to"`
	Rows    []ProductRow  `json:"rows"`
	Totals  ProductTotals `json:"totals"`
	Skipped int           `json:"skipped"`
	Skips   []Skip        `json:"-"`
}

// SalesByProduct rolls order lines up per product. Rows are sorted by gross
// sales, then quantity, then name. OrderCount counts distinct orders.
func SalesByProduct(items []ItemRecord, rng Range) ProductResult {
	rows := make(map[uuid.UUID]*ProductRow)
	var skips []Skip
	for _, it := range items {
		if it.Cancelled {
			continue
		}
		if reason := rng.check(it.OrderDate); reason != "" {
			skips = append(skips, Skip{ID: it.OrderID, Ref: it.ProductName, Reason: reason})
			continue
		}
		if it.Quantity <= 0 {
			skips = append(skips, Skip{ID: it.OrderID, Ref: it.ProductName, Reason: ReasonNegativeQty})
			continue
		}
		row, ok := rows[it.ProductID]
		if !ok {
			row = &ProductRow{
				ProductID: it.ProductID,
				Name:      it.ProductName,
				Code:      it.ProductCode,
				orders:    make(map[uuid.UUID]struct{}),
			}
			rows[it.ProductID] = row
		}
		row.Quantity += it.Quantity
		row.GrossSales += it.Total
		row.Cost += it.CostPrice * int64(it.Quantity)
		row.orders[it.OrderID] = struct{}{}
	}

	res := ProductResult{
		From:    rng.From.Format(DayLayout),
		To:      rng.To.Format(DayLayout),
		Rows:    make([]ProductRow, 0, len(rows)),
		Skipped: len(skips),
		Skips:   skips,
	}
	orders := make(map[uuid.UUID]struct{})
	for _, row := range rows {
		row.OrderCount = len(row.orders)
		for id := range row.orders {
			orders[id] = struct{}{}
		}
		row.Profit = row.GrossSales - row.Cost
		row.MarginPct = money.Percent(row.Profit, row.GrossSales)
		res.Totals.Quantity += row.Quantity
		res.Totals.GrossSales += row.GrossSales
		res.Totals.Cost += row.Cost
		res.Totals.Profit += row.Profit
		res.Rows = append(res.Rows, *row)
	}
	res.Totals.OrderCount = len(orders)
	for i := range res.Rows {
		res.Rows[i].SharePct = money.Percent(res.Rows[i].GrossSales, res.Totals.GrossSales)
		res.Rows[i].orders = nil
	}
	sort.Slice(res.Rows, func(i, j int) bool {
		a, b := res.Rows[i], res.Rows[j]
		if a.GrossSales != b.GrossSales {
			return a.GrossSales > b.GrossSales
		}
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	return res
}

// CatalogProduct is a product considered by the analysis, sold or not.
type CatalogProduct struct {
	ID       uuid.UUID `json:"product_id"`
	Name     string    `json:"name"`
	Code     string    `json:"code,omitempty"`
	Quantity int       `json:"stock"`
}

// Analysis ranks products for a range.
type Analysis struct {
	From       string           `json:"from"`
	To         string           `json:"to"`
	Top        []ProductRow     `json:"top"`
	Bottom     []ProductRow     `json:"bottom"`
	SlowMovers []CatalogProduct `json:"slow_movers"`
	Totals     ProductTotals    `json:"totals"`
	Skipped    int              `json:"skipped"`
	Skips      []Skip           `json:"-"`
}

// ProductAnalysis returns the topN best and worst sellers that sold at all, and
// the catalog products with no sales in the range, ordered by stock held.
func ProductAnalysis(items []ItemRecord, catalog []CatalogProduct, rng Range, topN int) Analysis {
	sales := SalesByProduct(items, rng)
	if topN <= 0 {
		topN = 10
	}

	sold := make(map[uuid.UUID]struct{}, len(sales.Rows))
	for _, r := range sales.Rows {
		sold[r.ProductID] = struct{}{}
	}
	slow := make([]CatalogProduct, 0)
	for _, p := range catalog {
		if _, ok := sold[p.ID]; !ok {
			slow = append(slow, p)
		}
	}
	sort.Slice(slow, func(i, j int) bool {
		if slow[i].Quantity != slow[j].Quantity {
			return slow[i].Quantity > slow[j].Quantity
		}
		return slow[i].Name < slow[j].Name
	})

	n := topN
	if n > len(sales.Rows) {
		n = len(sales.Rows)
	}
	top := append([]ProductRow(nil), sales.Rows[:n]...)
	bottom := make([]ProductRow, 0, n)
	for i := len(sales.Rows) - 1; i >= len(sales.Rows)-n; i-- {
		bottom = append(bottom, sales.Rows[i])
	}

	return Analysis{
		From:       sales.From,
		To:         sales.To,
		Top:        top,
		Bottom:     bottom,
		SlowMovers: slow,
		Totals:     sales.Totals,
		Skipped:    sales.Skipped,
		Skips:      sales.Skips,
	}
}
