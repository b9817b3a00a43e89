package report

import (
	"errors"
	"fmt"
	"time"
)

// DayLayout is the key format of daily buckets.
const DayLayout = "2006-01-02"

var ErrInvalidRange = errors.New("report range: from must not be after to")

// Range is an inclusive span of calendar days in a store time zone.
type Range struct {
	From time.Time // midnight of the first day
	To   time.Time // midnight of the last day
	loc  *time.Location
}

// NewRange builds a range from two days. Only the calendar date of from and to in loc is used.
func NewRange(from, to time.Time, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := midnight(from.In(loc))
	t := midnight(to.In(loc))
	if f.After(t) {
		return Range{}, ErrInvalidRange
	}
	return Range{From: f, To: t, loc: loc}, nil
}

// ParseRange parses YYYY-MM-DD bounds in loc.
func ParseRange(from, to string, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.UTC
	}
	f, err := time.ParseInLocation(DayLayout, from, loc)
	if err != nil {
		return Range{}, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	t, err := time.ParseInLocation(DayLayout, to, loc)
	if err != nil {
		return Range{}, fmt.Errorf("invalid to date %q: %w", to, err)
	}
	return NewRange(f, t, loc)
}

// MonthToDate is the default report range: the first of now's month through now.
func MonthToDate(now time.Time, loc *time.Location) Range {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	r, _ := NewRange(first, now, loc)
	return r
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Location returns the range's time zone.
func (r Range) Location() *time.Location {
	if r.loc == nil {
		return time.UTC
	}
	return r.loc
}

// Start is the first instant of the range.
func (r Range) Start() time.Time { return r.From }

// End is the first instant after the range.
func (r Range) End() time.Time { return r.To.AddDate(0, 0, 1) }

// Days is the number of calendar days covered.
func (r Range) Days() int {
	n := 0
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// DayKeys lists every day of the range in ascending order.
func (r Range) DayKeys() []string {
	keys := make([]string, 0, r.Days())
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format(DayLayout))
	}
	return keys
}

// DayKey returns the store-local day of t.
func (r Range) DayKey(t time.Time) string {
	return t.In(r.Location()).Format(DayLayout)
}

// Contains reports whether t falls on one of the range's days.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start()) && t.Before(r.End())
}

// Key identifies the range in cache keys and file names.
func (r Range) Key() string {
	return r.From.Format(DayLayout) + "_" + r.To.Format(DayLayout)
}

// check classifies a record date. An empty reason means the record is usable.
func (r Range) check(t time.Time) string {
	if t.IsZero() || t.Year() < 1970 {
		return ReasonNoDate
	}
	if !r.Contains(t) {
		return ReasonOutOfRange
	}
	return ""
}
