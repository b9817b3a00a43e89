package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/pos-backoffice/internal/domain/report"
	"github.com/sangkips/pos-backoffice/internal/domain/repository"
	"github.com/sangkips/pos-backoffice/pkg/apperror"
)

// ReportKind names one of the available reports.
type ReportKind string

const (
	ReportDaily           ReportKind = "daily"
	ReportEmployees       ReportKind = "employees"
	ReportCustomers       ReportKind = "customers"
	ReportProducts        ReportKind = "products"
	ReportProductAnalysis ReportKind = "product-analysis"
	ReportSummary         ReportKind = "summary"
	ReportAttendance      ReportKind = "attendance"
)

// ReportKinds lists every report in display order.
var ReportKinds = []ReportKind{
	ReportSummary, ReportDaily, ReportEmployees, ReportCustomers,
	ReportProducts, ReportProductAnalysis, ReportAttendance,
}

// ParseReportKind validates a report name taken from a request.
func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ReportKinds {
		if k == known {
			return k, nil
		}
	}
	return "", apperror.NewNotFoundError("Report")
}

// ReportCache stores rendered reports. A nil-safe no-op implementation is fine.
type ReportCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

// ReportOptions configures the report service.
type ReportOptions struct {
	Location     *time.Location
	CacheTTL     time.Duration
	SlowAfter    time.Duration
	MaxRangeDays int
	TopN         int
}

// ReportQuery is the caller's choice of range. Empty bounds take defaults.
type ReportQuery struct {
	From string
	To   string
	TopN int
}

// ReportService loads records and runs the report aggregations over them.
type ReportService struct {
	reportRepo repository.ReportRepository
	cache      ReportCache
	opts       ReportOptions
	now        func() time.Time
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository, cache ReportCache, opts ReportOptions) *ReportService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = 366
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	return &ReportService{
		reportRepo: reportRepo,
		cache:      cache,
		opts:       opts,
		now:        time.Now,
	}
}

// Range resolves a query to a report range. Both bounds missing means month to date;
// a missing from means the first day of to's month; a missing to means today.
func (s *ReportService) Range(q ReportQuery) (report.Range, error) {
	loc := s.opts.Location
	today := s.now().In(loc)
	if q.From == "" && q.To == "" {
		return report.MonthToDate(today, loc), nil
	}

	to := today
	if q.To != "" {
		t, err := time.ParseInLocation(report.DayLayout, q.To, loc)
		if err != nil {
			return report.Range{}, apperror.NewFieldError("to", "must be a date in YYYY-MM-DD format")
		}
		to = t
	}
	from := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, loc)
	if q.From != "" {
		f, err := time.ParseInLocation(report.DayLayout, q.From, loc)
		if err != nil {
			return report.Range{}, apperror.NewFieldError("from", "must be a date in YYYY-MM-DD format")
		}
		from = f
	}

	rng, err := report.NewRange(from, to, loc)
	if err != nil {
		return report.Range{}, apperror.NewFieldError("from", "must not be after to")
	}
	if rng.Days() > s.opts.MaxRangeDays {
		return report.Range{}, apperror.NewBadRequestError(
			fmt.Sprintf("Report range must not exceed %d days", s.opts.MaxRangeDays))
	}
	return rng, nil
}

// DailySales returns one bucket per day of the range.
func (s *ReportService) DailySales(ctx context.Context, q ReportQuery) (*report.Result, error) {
	rng, records, err := s.orders(ctx, q)
	if err != nil {
		return nil, err
	}
	res := report.DailySales(records, rng)
	logSkips(ctx, ReportDaily, res.Skips)
	return &res, nil
}

// SalesByEmployee returns one bucket per employee.
func (s *ReportService) SalesByEmployee(ctx context.Context, q ReportQuery) (*report.Result, error) {
	rng, records, err := s.orders(ctx, q)
	if err != nil {
		return nil, err
	}
	names, err := s.reportRepo.EmployeeNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load employee names: %w", err)
	}
	res := report.SalesByEmployee(records, rng, names)
	logSkips(ctx, ReportEmployees, res.Skips)
	return &res, nil
}

// SalesByCustomer returns one bucket per customer.
func (s *ReportService) SalesByCustomer(ctx context.Context, q ReportQuery) (*report.Result, error) {
	rng, records, err := s.orders(ctx, q)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, r := range records {
		if r.CustomerID == nil {
			continue
		}
		if _, ok := seen[*r.CustomerID]; !ok {
			seen[*r.CustomerID] = struct{}{}
			ids = append(ids, *r.CustomerID)
		}
	}
	names, err := s.reportRepo.CustomerNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load customer names: %w", err)
	}
	res := report.SalesByCustomer(records, rng, names)
	logSkips(ctx, ReportCustomers, res.Skips)
	return &res, nil
}

// SalesByProduct returns one row per product sold.
func (s *ReportService) SalesByProduct(ctx context.Context, q ReportQuery) (*report.ProductResult, error) {
	rng, items, err := s.items(ctx, q)
	if err != nil {
		return nil, err
	}
	res := report.SalesByProduct(items, rng)
	logSkips(ctx, ReportProducts, res.Skips)
	return &res, nil
}

// ProductAnalysis returns the best and worst sellers and the products that did not sell.
func (s *ReportService) ProductAnalysis(ctx context.Context, q ReportQuery) (*report.Analysis, error) {
	rng, items, err := s.items(ctx, q)
	if err != nil {
		return nil, err
	}
	catalog, err := s.reportRepo.CatalogProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	res := report.ProductAnalysis(items, catalog, rng, s.topN(q))
	logSkips(ctx, ReportProductAnalysis, res.Skips)
	return &res, nil
}

// Summary returns the headline figures of the range.
func (s *ReportService) Summary(ctx context.Context, q ReportQuery) (*report.SummaryResult, error) {
	rng, records, err := s.orders(ctx, q)
	if err != nil {
		return nil, err
	}
	res := report.Summary(records, rng)
	logSkips(ctx, ReportSummary, res.Skips)
	return &res, nil
}

// Attendance returns per-employee presence and worked hours.
func (s *ReportService) Attendance(ctx context.Context, q ReportQuery) (*report.AttendanceResult, error) {
	if _, err := requireTenant(ctx); err != nil {
		return nil, err
	}
	rng, err := s.Range(q)
	if err != nil {
		return nil, err
	}
	records, err := s.reportRepo.AttendanceRecords(ctx, rng.Start(), rng.End())
	if err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}
	names, err := s.reportRepo.EmployeeNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load employee names: %w", err)
	}
	roster, err := s.reportRepo.EmployeeRoster(ctx)
	if err != nil {
		return nil, fmt.Errorf("load employee roster: %w", err)
	}
	res := report.AttendanceSummary(records, rng, names, roster)
	logSkips(ctx, ReportAttendance, res.Skips)
	return &res, nil
}

// Build runs the report named by kind.
func (s *ReportService) Build(ctx context.Context, kind ReportKind, q ReportQuery) (any, error) {
	switch kind {
	case ReportDaily:
		return s.DailySales(ctx, q)
	case ReportEmployees:
		return s.SalesByEmployee(ctx, q)
	case ReportCustomers:
		return s.SalesByCustomer(ctx, q)
	case ReportProducts:
		return s.SalesByProduct(ctx, q)
	case ReportProductAnalysis:
		return s.ProductAnalysis(ctx, q)
	case ReportSummary:
		return s.Summary(ctx, q)
	case ReportAttendance:
		return s.Attendance(ctx, q)
	}
	return nil, apperror.NewNotFoundError("Report")
}

// JSON returns the rendered report, from the cache when a fresh copy exists.
// Cache failures are logged and the report is computed instead.
func (s *ReportService) JSON(ctx context.Context, kind ReportKind, q ReportQuery) (json.RawMessage, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	rng, err := s.Range(q)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("report:%s:%s:%s", tenantID, kind, rng.Key())
	if kind == ReportProductAnalysis {
		key = fmt.Sprintf("%s:top%d", key, s.topN(q))
	}
	logger := log.Ctx(ctx).With().Str("report", string(kind)).Str("range", rng.Key()).Logger()

	if s.cache != nil {
		var cached json.RawMessage
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logger.Warn().Err(err).Msg("report cache read failed")
		}
		if hit {
			return cached, nil
		}
	}

	started := s.now()
	res, err := s.Build(ctx, kind, q)
	if err != nil {
		return nil, err
	}
	if elapsed := s.now().Sub(started); s.opts.SlowAfter > 0 && elapsed > s.opts.SlowAfter {
		logger.Warn().Dur("elapsed", elapsed).Msg("slow report")
	}

	body, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode %s report: %w", kind, err)
	}
	if s.cache != nil && s.opts.CacheTTL > 0 {
		if err := s.cache.SetJSON(ctx, key, json.RawMessage(body), s.opts.CacheTTL); err != nil {
			logger.Warn().Err(err).Msg("report cache write failed")
		}
	}
	return body, nil
}

func (s *ReportService) topN(q ReportQuery) int {
	if q.TopN > 0 && q.TopN <= 100 {
		return q.TopN
	}
	return s.opts.TopN
}

func (s *ReportService) orders(ctx context.Context, q ReportQuery) (report.Range, []report.OrderRecord, error) {
	if _, err := requireTenant(ctx); err != nil {
		return report.Range{}, nil, err
	}
	rng, err := s.Range(q)
	if err != nil {
		return report.Range{}, nil, err
	}
	records, err := s.reportRepo.OrderRecords(ctx, rng.Start(), rng.End())
	if err != nil {
		return report.Range{}, nil, fmt.Errorf("load orders: %w", err)
	}
	return rng, records, nil
}

func (s *ReportService) items(ctx context.Context, q ReportQuery) (report.Range, []report.ItemRecord, error) {
	if _, err := requireTenant(ctx); err != nil {
		return report.Range{}, nil, err
	}
	rng, err := s.Range(q)
	if err != nil {
		return report.Range{}, nil, err
	}
	items, err := s.reportRepo.ItemRecords(ctx, rng.Start(), rng.End())
	if err != nil {
		return report.Range{}, nil, fmt.Errorf("load order items: %w", err)
	}
	return rng, items, nil
}

// logSkips records the records a report left out.
func logSkips(ctx context.Context, kind ReportKind, skips []report.Skip) {
	if len(skips) == 0 {
		return
	}
	logger := log.Ctx(ctx)
	logger.Warn().Str("report", string(kind)).Int("skipped", len(skips)).Msg("report skipped records")
	for _, sk := range skips {
		logger.Debug().
			Str("report", string(kind)).
			Str("record_id", sk.ID.String()).
			Str("ref", sk.Ref).
			Str("reason", sk.Reason).
			Msg("skipped record")
	}
}
