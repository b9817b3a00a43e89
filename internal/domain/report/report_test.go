package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nairobi = time.FixedZone("EAT", 3*3600)

func day(d int, hour int) time.Time {
	return time.Date(2024, 5, d, hour, 0, 0, 0, nairobi)
}

func mustRange(t *testing.T, from, to string) Range {
	t.Helper()
	r, err := ParseRange(from, to, nairobi)
	require.NoError(t, err)
	return r
}

func TestAmounts_TaxInclusive(t *testing.T) {
	r := OrderRecord{PriceIncludesTax: true, SubTotal: 110, Discount: 10}
	gross, revenue := r.Amounts()
	assert.Equal(t, int64(120), gross)
	assert.Equal(t, int64(110), revenue)
}

func TestAmounts_TaxExclusive(t *testing.T) {
	r := OrderRecord{SubTotal: 110, Discount: 10}
	gross, revenue := r.Amounts()
	assert.Equal(t, int64(110), gross)
	assert.Equal(t, int64(100), revenue)

	r = OrderRecord{SubTotal: 50, Discount: 80}
	_, revenue = r.Amounts()
	assert.Zero(t, revenue)
}

func TestParseRange(t *testing.T) {
	_, err := ParseRange("2024-05-10", "2024-05-01", nairobi)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = ParseRange("05/01/2024", "2024-05-01", nairobi)
	assert.Error(t, err)

	r := mustRange(t, "2024-05-01", "2024-05-03")
	assert.Equal(t, 3, r.Days())
	assert.Equal(t, []string{"2024-05-01", "2024-05-02", "2024-05-03"}, r.DayKeys())
	assert.True(t, r.Contains(day(3, 23)))
	assert.False(t, r.Contains(day(4, 0)))
	assert.Equal(t, "2024-05-01_2024-05-03", r.Key())
}

func TestMonthToDate(t *testing.T) {
	r := MonthToDate(time.Date(2024, 2, 15, 22, 0, 0, 0, time.UTC), nairobi)
	assert.Equal(t, "2024-02-01", r.From.Format(DayLayout))
	// 22:00 UTC is already the 16th in Nairobi.
	assert.Equal(t, "2024-02-16", r.To.Format(DayLayout))
}

func TestDailySales_ZeroFillsAndUsesStoreDay(t *testing.T) {
	rng := mustRange(t, "2024-05-01", "2024-05-03")
	records := []OrderRecord{
		{ID: uuid.New(), OrderDate: day(1, 9), SubTotal: 1000, Tax: 160, Total: 1160},
		{ID: uuid.New(), OrderDate: day(1, 13), PriceIncludesTax: true, SubTotal: 11000, Discount: 1000, Tax: 1517, Total: 11000},
		// 22:30 UTC on the 2nd is the 3rd in Nairobi.
		{ID: uuid.New(), OrderDate: time.Date(2024, 5, 2, 22, 30, 0, 0, time.UTC), SubTotal: 500, Total: 500},
	}

	res := DailySales(records, rng)

	require.Len(t, res.Buckets, 3)
	assert.Equal(t, "2024-05-01", res.Buckets[0].Key)
	assert.Equal(t, 2, res.Buckets[0].OrderCount)
	assert.Equal(t, int64(1000+11000), res.Buckets[0].Revenue)
	assert.Equal(t, int64(1000+12000), res.Buckets[0].GrossAmount)

	assert.Equal(t, "2024-05-02", res.Buckets[1].Key)
	assert.Zero(t, res.Buckets[1].OrderCount)

	assert.Equal(t, 1, res.Buckets[2].OrderCount)
	assert.Equal(t, int64(500), res.Buckets[2].Revenue)
	assert.Zero(t, res.Skipped)
}

func TestDailySales_SkipsBadDatesAndCancelled(t *testing.T) {
	rng := mustRange(t, "2024-05-01", "2024-05-01")
	badID := uuid.New()
	records := []OrderRecord{
		{ID: uuid.New(), OrderDate: day(1, 10), SubTotal: 100, Total: 100},
		{ID: badID, InvoiceNo: "INV-9", SubTotal: 999, Total: 999},
		{ID: uuid.New(), OrderDate: day(2, 10), SubTotal: 999, Total: 999},
		{ID: uuid.New(), OrderDate: day(1, 11), SubTotal: 999, Total: 999, Cancelled: true},
	}

	res := DailySales(records, rng)

	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Skips, 2)
	assert.Equal(t, badID, res.Skips[0].ID)
	assert.Equal(t, ReasonNoDate, res.Skips[0].Reason)
	assert.Equal(t, ReasonOutOfRange, res.Skips[1].Reason)
	assert.Equal(t, int64(100), res.Totals.Revenue)
	assert.Equal(t, 1, res.Totals.OrderCount)
}

func TestTotalsEqualSumOfBuckets(t *testing.T) {
	rng := mustRange(t, "2024-05-01", "2024-05-05")
	var records []OrderRecord
	for i := 1; i <= 5; i++ {
		records = append(records, OrderRecord{
			ID: uuid.New(), OrderDate: day(i, 12), SubTotal: int64(i * 1000), Discount: int64(i * 50),
			Tax: int64(i * 10), Total: int64(i * 1100), PriceIncludesTax: i%2 == 0,
		})
	}
	res := DailySales(records, rng)

	var sum Bucket
	for _, b := range res.Buckets {
		sum.merge(b)
		assert.GreaterOrEqual(t, b.Revenue, int64(0))
	}
	assert.Equal(t, sum.Revenue, res.Totals.Revenue)
	assert.Equal(t, sum.GrossAmount, res.Totals.GrossAmount)
	assert.Equal(t, sum.Discount, res.Totals.Discount)
	assert.Equal(t, sum.Tax, res.Totals.Tax)
	assert.Equal(t, sum.TotalMoney, res.Totals.TotalMoney)
	assert.Equal(t, sum.OrderCount, res.Totals.OrderCount)
}

func TestSalesByEmployee(t *testing.T) {
	rng := mustRange(t, "2024-05-01", "2024-05-31")
	alice, bob := uuid.New(), uuid.New()
	names := Names{alice: "Alice", bob: "Bob"}
	records := []OrderRecord{
		{ID: uuid.New(), OrderDate: day(2, 10), EmployeeID: &alice, SubTotal: 100},
		{ID: uuid.New(), OrderDate: day(3, 10), EmployeeID: &bob, SubTotal: 500},
		{ID: uuid.New(), OrderDate: day(3, 11), EmployeeID: &alice, SubTotal: 300},
		{ID: uuid.New(), OrderDate: day(4, 11), SubTotal: 50},
	}

	res := SalesByEmployee(records, rng, names)

	require.Len(t, res.Buckets, 3)
	assert.Equal(t, "Bob", res.Buckets[0].Label)
	assert.Equal(t, "Alice", res.Buckets[1].Label)
	assert.Equal(t, int64(400), res.Buckets[1].Revenue)
	assert.Equal(t, UnassignedKey, res.Buckets[2].Key)
	assert.Equal(t, int64(950), res.Totals.Revenue)
}

func TestSalesByCustomer_WalkInAndUnknown(t *testing.T) {
	rng := mustRange(t, "2024-05-01", "2024-05-31")
	ghost := uuid.New()
	records := []OrderRecord{
		{ID: uuid.New(), OrderDate: day(2, 10), SubTotal: 100},
		{ID: uuid.New(), OrderDate: day(2, 10), CustomerID: &ghost, SubTotal: 50},
	}

	res := SalesByCustomer(records, rng, Names{})

	require.Len(t, res.Buckets, 2)
	assert.Equal(t, WalkInKey, res.Buckets[0].Key)
	assert.Equal(t, ghost.String(), res.Buckets[1].Key)
	assert.Contains(t, res.Buckets[1].Label, "Unknown")
}

func TestSummary(t *testing.T) {
	rng := mustRange(t, "2024-05-01", "2024-05-02")
	records := []OrderRecord{
		{ID: uuid.New(), OrderDate: day(1, 10), SubTotal: 1000},
		{ID: uuid.New(), OrderDate: day(1, 11), SubTotal: 1000},
		{ID: uuid.New(), OrderDate: day(2, 11), SubTotal: 1001},
		{ID: uuid.New(), OrderDate: day(2, 12), SubTotal: 5000, Cancelled: true},
	}

	s := Summary(records, rng)

	assert.Equal(t, 2, s.Days)
	assert.Equal(t, 3, s.Totals.OrderCount)
	assert.Equal(t, int64(3001), s.Totals.Revenue)
	assert.Equal(t, int64(1000), s.AverageOrderValue)
	assert.Equal(t, 1, s.CancelledOrders)
}

func TestSalesByProduct(t *testing.T) {
	rng := mustRange(t, "2024-05-01", "2024-05-31")
	tea, cake := uuid.New(), uuid.New()
	o1, o2 := uuid.New(), uuid.New()
	items := []ItemRecord{
		{OrderID: o1, OrderDate: day(2, 9), ProductID: tea, ProductName: "Tea", Quantity: 2, Total: 400, CostPrice: 50},
		{OrderID: o2, OrderDate: day(3, 9), ProductID: tea, ProductName: "Tea", Quantity: 1, Total: 200, CostPrice: 50},
		{OrderID: o2, OrderDate: day(3, 9), ProductID: cake, ProductName: "Cake", Quantity: 1, Total: 200, CostPrice: 150},
		{OrderID: uuid.New(), OrderDate: day(3, 9), ProductID: cake, ProductName: "Cake", Quantity: 9, Total: 1800, Cancelled: true},
		{OrderID: uuid.New(), ProductID: cake, ProductName: "Cake", Quantity: 1, Total: 200},
	}

	res := SalesByProduct(items, rng)

	require.Len(t, res.Rows, 2)
	teaRow := res.Rows[0]
	assert.Equal(t, "Tea", teaRow.Name)
	assert.Equal(t, 3, teaRow.Quantity)
	assert.Equal(t, 2, teaRow.OrderCount)
	assert.Equal(t, int64(600), teaRow.GrossSales)
	assert.Equal(t, int64(150), teaRow.Cost)
	assert.Equal(t, int64(450), teaRow.Profit)
	assert.True(t, decimal.NewFromInt(75).Equal(teaRow.MarginPct))
	assert.True(t, decimal.NewFromInt(75).Equal(teaRow.SharePct))
	assert.True(t, decimal.NewFromInt(25).Equal(res.Rows[1].SharePct))

	assert.Equal(t, 2, res.Totals.OrderCount)
	assert.Equal(t, int64(800), res.Totals.GrossSales)
	assert.Equal(t, 1, res.Skipped)
}

func TestProductAnalysis(t *testing.T) {
	rng := mustRange(t, "2024-05-01", "2024-05-31")
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	items := []ItemRecord{
		{OrderID: uuid.New(), OrderDate: day(2, 9), ProductID: a, ProductName: "A", Quantity: 1, Total: 300},
		{OrderID: uuid.New(), OrderDate: day(2, 9), ProductID: b, ProductName: "B", Quantity: 1, Total: 200},
		{OrderID: uuid.New(), OrderDate: day(2, 9), ProductID: c, ProductName: "C", Quantity: 1, Total: 100},
	}
	catalog := []CatalogProduct{
		{ID: a, Name: "A"}, {ID: b, Name: "B"}, {ID: c, Name: "C"},
		{ID: d, Name: "D", Quantity: 40},
		{ID: uuid.New(), Name: "E", Quantity: 5},
	}

	an := ProductAnalysis(items, catalog, rng, 2)

	require.Len(t, an.Top, 2)
	assert.Equal(t, "A", an.Top[0].Name)
	assert.Equal(t, "B", an.Top[1].Name)
	require.Len(t, an.Bottom, 2)
	assert.Equal(t, "C", an.Bottom[0].Name)
	require.Len(t, an.SlowMovers, 2)
	assert.Equal(t, "D", an.SlowMovers[0].Name)
}

func TestAttendanceSummary(t *testing.T) {
	rng := mustRange(t, "2024-05-01", "2024-05-31")
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	out := func(t time.Time) *time.Time { return &t }
	records := []AttendanceRecord{
		{ID: uuid.New(), EmployeeID: alice, CheckIn: day(1, 8), CheckOut: out(day(1, 16))},
		{ID: uuid.New(), EmployeeID: alice, CheckIn: day(1, 18), CheckOut: out(day(1, 20))},
		{ID: uuid.New(), EmployeeID: alice, CheckIn: day(2, 8)},
		{ID: uuid.New(), EmployeeID: bob, CheckIn: day(3, 8), CheckOut: out(day(3, 12).Add(30 * time.Minute))},
		{ID: uuid.New(), EmployeeID: bob, CheckIn: day(4, 8), CheckOut: out(day(4, 7))},
		{ID: uuid.New(), EmployeeID: bob},
	}

	dave := uuid.New()
	names := Names{alice: "Alice", bob: "Bob", carol: "Carol", dave: "Dave"}
	roster := Names{alice: "Alice", bob: "Bob", carol: "Carol"}
	res := AttendanceSummary(records, rng, names, roster)

	require.Len(t, res.Rows, 3)
	assert.Equal(t, "Alice", res.Rows[0].Name)
	assert.Equal(t, 2, res.Rows[0].DaysPresent)
	assert.Equal(t, 3, res.Rows[0].Records)
	assert.Equal(t, 1, res.Rows[0].OpenRecords)
	assert.True(t, decimal.NewFromInt(10).Equal(res.Rows[0].WorkedHours))

	assert.Equal(t, "Bob", res.Rows[1].Name)
	assert.True(t, decimal.RequireFromString("4.5").Equal(res.Rows[1].WorkedHours))

	assert.Equal(t, "Carol", res.Rows[2].Name)
	assert.Zero(t, res.Rows[2].Records)
	assert.Equal(t, 2, res.Skipped)

	// removed staff keep their name on past shifts but get no empty row
	records = append(records, AttendanceRecord{ID: uuid.New(), EmployeeID: dave, CheckIn: day(5, 8), CheckOut: out(day(5, 9))})
	res = AttendanceSummary(records, rng, names, roster)
	require.Len(t, res.Rows, 4)
	res = AttendanceSummary(records[:len(records)-1], rng, names, roster)
	require.Len(t, res.Rows, 3)
	for _, row := range res.Rows {
		assert.NotEqual(t, "Dave", row.Name)
	}
}
