package report

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AttendanceRow summarises one employee's shifts.
type AttendanceRow struct {
	EmployeeID  uuid.UUID       `json:"employee_id"`
	Name        string          `json:"name"`
	DaysPresent int             `json:"days_present"`
	Records     int             `json:"records"`
	OpenRecords int             `json:"open_records"`
	WorkedHours decimal.Decimal `json:"worked_hours"`
}

func (r AttendanceRow) MarshalJSON() ([]byte, error) {
	type Alias AttendanceRow
	return json.Marshal(&struct {
		Alias
		WorkedHours json.Number `json:"worked_hours"`
	}{Alias(r), json.Number(r.WorkedHours.StringFixed(2))})
}

// AttendanceResult is the attendance summary for a range.
type AttendanceResult struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	Rows    []AttendanceRow `json:"rows"`
	Skipped int             `json:"skipped"`
	Skips   []Skip          `json:"-"`
}

// AttendanceSummary groups shifts by employee. A shift belongs to the day it
// started on; open shifts count towards presence but not worked hours.
// Employees on the roster with no shifts appear with zero rows. names labels
// every shift, including those of employees who have since been removed.
func AttendanceSummary(records []AttendanceRecord, rng Range, names, roster Names) AttendanceResult {
	type acc struct {
		row     AttendanceRow
		days    map[string]struct{}
		seconds int64
	}
	accs := make(map[uuid.UUID]*acc)
	get := func(id uuid.UUID) *acc {
		a, ok := accs[id]
		if !ok {
			name, found := names[id]
			if !found || name == "" {
				name, found = roster[id]
			}
			if !found || name == "" {
				name = "Unknown (" + id.String()[:8] + ")"
			}
			a = &acc{row: AttendanceRow{EmployeeID: id, Name: name}, days: make(map[string]struct{})}
			accs[id] = a
		}
		return a
	}
	for id := range roster {
		get(id)
	}

	var skips []Skip
	for _, r := range records {
		if reason := rng.check(r.CheckIn); reason != "" {
			skips = append(skips, Skip{ID: r.ID, Reason: reason})
			continue
		}
		if r.CheckOut != nil && r.CheckOut.Before(r.CheckIn) {
			skips = append(skips, Skip{ID: r.ID, Reason: ReasonBadCheckOut})
			continue
		}
		a := get(r.EmployeeID)
		a.row.Records++
		a.days[rng.DayKey(r.CheckIn)] = struct{}{}
		if r.CheckOut == nil {
			a.row.OpenRecords++
			continue
		}
		a.seconds += int64(r.CheckOut.Sub(r.CheckIn).Seconds())
	}

	res := AttendanceResult{
		From:    rng.From.Format(DayLayout),
		To:      rng.To.Format(DayLayout),
		Rows:    make([]AttendanceRow, 0, len(accs)),
		Skipped: len(skips),
		Skips:   skips,
	}
	for _, a := range accs {
		a.row.DaysPresent = len(a.days)
		a.row.WorkedHours = decimal.NewFromInt(a.seconds).Div(decimal.NewFromInt(3600)).Round(2)
		res.Rows = append(res.Rows, a.row)
	}
	sort.Slice(res.Rows, func(i, j int) bool {
		if !res.Rows[i].WorkedHours.Equal(res.Rows[j].WorkedHours) {
			return res.Rows[i].WorkedHours.GreaterThan(res.Rows[j].WorkedHours)
		}
		return res.Rows[i].Name < res.Rows[j].Name
	})
	return res
}
