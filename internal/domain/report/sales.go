package report

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/sangkips/pos-backoffice/pkg/money"
)

// Keys of the buckets for orders without an employee or customer.
const (
	UnassignedKey = "unassigned"
	WalkInKey     = "walk-in"
)

// Bucket sums the orders that share a grouping key.
type Bucket struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	OrderCount  int    `json:"order_count"`
	GrossAmount int64  `json:"-"`
	Revenue     int64  `json:"-"`
	Discount    int64  `json:"-"`
	Tax         int64  `json:"-"`
	TotalMoney  int64  `json:"-"`
}

// Add folds one order into the bucket.
func (b *Bucket) Add(r OrderRecord) {
	gross, revenue := r.Amounts()
	b.OrderCount++
	b.GrossAmount += gross
	b.Revenue += revenue
	b.Discount += r.Discount
	b.Tax += r.Tax
	b.TotalMoney += r.Total
}

func (b *Bucket) merge(o Bucket) {
	b.OrderCount += o.OrderCount
	b.GrossAmount += o.GrossAmount
	b.Revenue += o.Revenue
	b.Discount += o.Discount
	b.Tax += o.Tax
	b.TotalMoney += o.TotalMoney
}

func (b Bucket) MarshalJSON() ([]byte, error) {
	type Alias Bucket
	return json.Marshal(&struct {
		Alias
		GrossAmount json.Number `json:"gross_amount"`
		Revenue     json.Number `json:"revenue"`
		Discount    json.Number `json:"discount"`
		Tax         json.Number `json:"tax"`
		TotalMoney  json.Number `json:"total_money"`
	}{
		Alias:       Alias(b),
		GrossAmount: money.Number(b.GrossAmount),
		Revenue:     money.Number(b.Revenue),
		Discount:    money.Number(b.Discount),
		Tax:         money.Number(b.Tax),
		TotalMoney:  money.Number(b.TotalMoney),
	})
}

// Result is a grouped sales report. Totals always equals the sum of Buckets.
type Result struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Buckets []Bucket `json:"buckets"`
	Totals  Bucket   `json:"totals"`
	Skipped int      `json:"skipped"`
	Skips   []Skip   `json:"-"`
}

// Names resolves employee or customer IDs to display names.
type Names map[uuid.UUID]string

type keyFunc func(OrderRecord) (key, label string)

// group filters records to usable, non-cancelled orders in rng and buckets them by key.
func group(records []OrderRecord, rng Range, key keyFunc) (map[string]*Bucket, []Skip) {
	buckets := make(map[string]*Bucket)
	var skips []Skip
	for _, r := range records {
		if r.Cancelled {
			continue
		}
		if reason := rng.check(r.OrderDate); reason != "" {
			skips = append(skips, Skip{ID: r.ID, Ref: r.InvoiceNo, Reason: reason})
			continue
		}
		k, label := key(r)
		b, ok := buckets[k]
		if !ok {
			b = &Bucket{Key: k, Label: label}
			buckets[k] = b
		}
		b.Add(r)
	}
	return buckets, skips
}

func newResult(rng Range, buckets []Bucket, skips []Skip) Result {
	res := Result{
		From:    rng.From.Format(DayLayout),
		To:      rng.To.Format(DayLayout),
		Buckets: buckets,
		Totals:  Bucket{Key: "total", Label: "Total"},
		Skipped: len(skips),
		Skips:   skips,
	}
	for _, b := range buckets {
		res.Totals.merge(b)
	}
	return res
}

// DailySales buckets orders by store-local day. Every day of the range is
// present, in ascending order, including days without sales.
func DailySales(records []OrderRecord, rng Range) Result {
	m, skips := group(records, rng, func(r OrderRecord) (string, string) {
		k := rng.DayKey(r.OrderDate)
		return k, k
	})
	keys := rng.DayKeys()
	buckets := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		if b, ok := m[k]; ok {
			buckets = append(buckets, *b)
			continue
		}
		buckets = append(buckets, Bucket{Key: k, Label: k})
	}
	return newResult(rng, buckets, skips)
}

// SalesByEmployee buckets orders by the employee who served them, highest revenue first.
func SalesByEmployee(records []OrderRecord, rng Range, names Names) Result {
	return byParty(records, rng, func(r OrderRecord) (string, string) {
		return partyKey(r.EmployeeID, names, UnassignedKey, "Unassigned")
	})
}

// SalesByCustomer buckets orders by customer, highest revenue first.
func SalesByCustomer(records []OrderRecord, rng Range, names Names) Result {
	return byParty(records, rng, func(r OrderRecord) (string, string) {
		return partyKey(r.CustomerID, names, WalkInKey, "Walk-in")
	})
}

func partyKey(id *uuid.UUID, names Names, noneKey, noneLabel string) (string, string) {
	if id == nil || *id == uuid.Nil {
		return noneKey, noneLabel
	}
	label, ok := names[*id]
	if !ok || label == "" {
		label = "Unknown (" + id.String()[:8] + ")"
	}
	return id.String(), label
}

func byParty(records []OrderRecord, rng Range, key keyFunc) Result {
	m, skips := group(records, rng, key)
	buckets := make([]Bucket, 0, len(m))
	for _, b := range m {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Revenue != buckets[j].Revenue {
			return buckets[i].Revenue > buckets[j].Revenue
		}
		return buckets[i].Label < buckets[j].Label
	})
	return newResult(rng, buckets, skips)
}

// SummaryResult is the headline figures of a range.
type SummaryResult struct {
	From              string `json:"from"`
	To                string `json:"to"`
	Days              int    `json:"days"`
	Totals            Bucket `json:"totals"`
	AverageOrderValue int64  `json:"-"`
	CancelledOrders   int    `json:"cancelled_orders"`
	Skipped           int    `json:"skipped"`
	Skips             []Skip `json:"-"`
}

func (s SummaryResult) MarshalJSON() ([]byte, error) {
	type Alias SummaryResult
	return json.Marshal(&struct {
		Alias
		AverageOrderValue json.Number `json:"average_order_value"`
	}{Alias(s), money.Number(s.AverageOrderValue)})
}

// Summary totals the range. The average order value is revenue per order, rounded to the cent.
func Summary(records []OrderRecord, rng Range) SummaryResult {
	m, skips := group(records, rng, func(OrderRecord) (string, string) { return "total", "Total" })
	var total Bucket
	if b, ok := m["total"]; ok {
		total = *b
	} else {
		total = Bucket{Key: "total", Label: "Total"}
	}
	cancelled := 0
	for _, r := range records {
		if r.Cancelled && rng.check(r.OrderDate) == "" {
			cancelled++
		}
	}
	var avg int64
	if total.OrderCount > 0 {
		avg = money.ToCents(money.FromCents(total.Revenue).DivRound(decimalInt(total.OrderCount), 4))
	}
	return SummaryResult{
		From:              rng.From.Format(DayLayout),
		To:                rng.To.Format(DayLayout),
		Days:              rng.Days(),
		Totals:            total,
		AverageOrderValue: avg,
		CancelledOrders:   cancelled,
		Skipped:           len(skips),
		Skips:             skips,
	}
}
