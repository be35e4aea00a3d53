package models

import "time"

// CalendarEvent represents an event in the economic calendar.
type CalendarEvent struct {
	Time    time.Time `json:"time"` // UTC
	Country string    `json:"country"`
	Event   string    `json:"event"`
	Actual  *string   `json:"actual,omitempty"` // nil until announced
	Impact  string    `json:"impact,omitempty"` // "Low", "Medium", "High"
}

// CalendarBucket is the display bucket an event falls into.
type CalendarBucket int

const (
	BucketOther        CalendarBucket = iota // not shown
	BucketAnnouncement                       // already past, has an actual value
	BucketToday                              // later today, not yet past
	BucketTomorrow                           // scheduled on the next calendar day
)

func (b CalendarBucket) String() string {
	switch b {
	case BucketAnnouncement:
		return "announcement"
	case BucketToday:
		return "today"
	case BucketTomorrow:
		return "tomorrow"
	default:
		return "other"
	}
}

// Classify places e into a bucket relative to now, using loc for calendar days.
func (e CalendarEvent) Classify(now time.Time, loc *time.Location) CalendarBucket {
	if e.Time.Before(now) {
		if e.Actual != nil {
			return BucketAnnouncement
		}
		return BucketOther
	}
	n := now.In(loc)
	t := e.Time.In(loc)
	if t.Year() == n.Year() && t.YearDay() == n.YearDay() {
		return BucketToday
	}
	next := time.Date(n.Year(), n.Month(), n.Day()+1, 0, 0, 0, 0, loc)
	if t.Year() == next.Year() && t.YearDay() == next.YearDay() {
		return BucketTomorrow
	}
	return BucketOther
}
