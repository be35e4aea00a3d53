package utils

import (
	"time"
)

// DefaultDisplayZone is the timezone dashboard times are rendered in.
const DefaultDisplayZone = "Australia/Sydney"

// AEST is the fixed-offset fallback used when the tz database is missing.
var AEST = time.FixedZone("AEST", 10*60*60)

// clockLayout renders 2-digit hour and minute, en-AU style ("09:30 am").
const clockLayout = "03:04 pm"

// apiDateLayout is the date-only layout upstream calendar queries use.
const apiDateLayout = "2006-01-02"

// LoadDisplayLocation resolves a timezone name. An empty name means
// DefaultDisplayZone; an unknown zone falls back to AEST.
func LoadDisplayLocation(name string) *time.Location {
	if name == "" {
		name = DefaultDisplayZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Fallback: fixed zone if tz database is not available
		return AEST
	}
	return loc
}

// FormatClock formats t as a 2-digit hour and minute in loc.
func FormatClock(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = AEST
	}
	return t.In(loc).Format(clockLayout)
}

// FormatAPIDate formats t as "2006-01-02" in UTC.
func FormatAPIDate(t time.Time) string {
	return t.UTC().Format(apiDateLayout)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// NextDay reports whether t falls on the calendar day after ref in loc.
func NextDay(t, ref time.Time, loc *time.Location) bool {
	r := ref.In(loc)
	tomorrow := time.Date(r.Year(), r.Month(), r.Day()+1, 12, 0, 0, 0, loc)
	return SameDay(t, tomorrow, loc)
}

// FormatDateTime formats t as "2006-01-02 15:04:05 MST" in loc.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04:05 MST")
}
