package dates

import (
	"time"
)

// Layout is the compact date format used on the wire and in the store.
const Layout = "20060102"

// Parse strictly parses a YYYYMMDD date string. Eight digits are required
// and the date must be a real calendar date ("20240230" is rejected).
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

// Format renders a time as a YYYYMMDD string.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// WeekdayName returns the lowercase weekday name for a date, matching the
// timeslot bucket keys.
func WeekdayName(t time.Time) string {
	switch t.Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}
