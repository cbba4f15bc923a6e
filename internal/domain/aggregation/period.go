// Package aggregation computes spending summaries, month-bucketed history and
// next-period forecasts over an owner's expenses.
//
// Every function is pure. Calendar boundaries are always derived from an
// explicit *time.Location; the process-local zone is never consulted.
package aggregation

import "time"

// StartOfDay returns local midnight of the calendar day containing t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(orUTC(loc))
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// EndOfDay returns the last representable instant of the calendar day
// containing t in loc. It is derived from the next day's midnight so that
// days shortened or lengthened by DST transitions stay correct.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	start := StartOfDay(t, loc)
	next := time.Date(start.Year(), start.Month(), start.Day()+1, 0, 0, 0, 0, start.Location())
	return next.Add(-time.Nanosecond)
}

// MonthBounds returns the first and last instants of the given month in loc.
func MonthBounds(year int, month time.Month, loc *time.Location) (start, end time.Time) {
	l := orUTC(loc)
	start = time.Date(year, month, 1, 0, 0, 0, 0, l)
	end = time.Date(year, month+1, 1, 0, 0, 0, 0, l).Add(-time.Nanosecond)
	return start, end
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
