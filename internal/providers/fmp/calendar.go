package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// calendarDateLayout is the timestamp layout of economic_calendar events (UTC).
const calendarDateLayout = "2006-01-02 15:04:05"

// EconomicCalendar fetches economic calendar events between from and to.
// Records with an unparseable date are skipped.
func (c *Client) EconomicCalendar(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	q := url.Values{}
	q.Set("from", utils.FormatAPIDate(from))
	q.Set("to", utils.FormatAPIDate(to))

	var payload any
	if err := c.getJSON(ctx, "/economic_calendar", q, &payload); err != nil {
		return nil, fmt.Errorf("fmp economic calendar: %w", err)
	}

	records := utils.RecordsFromJSON(payload)
	events := make([]models.CalendarEvent, 0, len(records))
	for _, r := range records {
		if e, ok := ParseCalendarEvent(r); ok {
			events = append(events, e)
		}
	}
	return events, nil
}

// ParseCalendarEvent normalizes one economic_calendar record.
func ParseCalendarEvent(r utils.Record) (models.CalendarEvent, bool) {
	raw, ok := r.Field("date").String()
	if !ok {
		return models.CalendarEvent{}, false
	}
	ts, err := parseCalendarTime(raw)
	if err != nil {
		return models.CalendarEvent{}, false
	}

	e := models.CalendarEvent{
		Time:    ts,
		Country: textOrEmpty(r.Field("country")),
		Impact:  textOrEmpty(r.Field("impact")),
	}

	name, ok := r.Field("event").String()
	if !ok || name == "" {
		name = r.Field("eventName").Text()
	}
	e.Event = strings.TrimSpace(name)

	e.Actual = actualValue(r.Field("actual"), textOrEmpty(r.Field("unit")))
	return e, true
}

// actualValue renders the announced value, or nil when not yet announced.
func actualValue(f utils.Field, unit string) *string {
	if !f.Present() {
		return nil
	}
	var s string
	if utils.IsNumber(f.Value()) {
		s = utils.FormatGrouped(f.Value())
	} else if text, ok := f.String(); ok && strings.TrimSpace(text) != "" {
		s = strings.TrimSpace(text)
	} else {
		return nil
	}
	s += unit
	return &s
}

func parseCalendarTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := time.ParseInLocation(calendarDateLayout, raw, time.UTC); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func textOrEmpty(f utils.Field) string {
	s, ok := f.String()
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
