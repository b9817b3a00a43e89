package validation

import "time"

// DayLayout is the wire format for calendar days.
const DayLayout = "2006-01-02"

func parseDay(s string) (time.Time, error) {
	return time.Parse(DayLayout, s)
}

// ParseDay parses a YYYY-MM-DD string as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DayLayout, s, loc)
}
