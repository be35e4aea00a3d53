package datasource

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// Calendar window and list defaults.
const (
	DefaultCalendarLookback  = 15 * time.Hour
	DefaultCalendarLookahead = 24 * time.Hour
	DefaultAnnouncementCap   = 5
)

// CalendarFetcher fetches the economic calendar around now and buckets it
// for display in a fixed timezone.
type CalendarFetcher struct {
	client          CalendarClient
	lookback        time.Duration
	lookahead       time.Duration
	announcementCap int
	loc             *time.Location
}

// CalendarSettings tunes a CalendarFetcher. Zero values take the defaults.
type CalendarSettings struct {
	Lookback        time.Duration
	Lookahead       time.Duration
	AnnouncementCap int
	Location        *time.Location
}

// NewCalendarFetcher creates a CalendarFetcher over client.
func NewCalendarFetcher(client CalendarClient, s CalendarSettings) *CalendarFetcher {
	f := &CalendarFetcher{
		client:          client,
		lookback:        s.Lookback,
		lookahead:       s.Lookahead,
		announcementCap: s.AnnouncementCap,
		loc:             s.Location,
	}
	if f.lookback <= 0 {
		f.lookback = DefaultCalendarLookback
	}
	if f.lookahead <= 0 {
		f.lookahead = DefaultCalendarLookahead
	}
	if f.announcementCap <= 0 {
		f.announcementCap = DefaultAnnouncementCap
	}
	if f.loc == nil {
		f.loc = utils.LoadDisplayLocation("")
	}
	return f
}

// Location returns the display timezone.
func (f *CalendarFetcher) Location() *time.Location { return f.loc }

// Fetch returns the events in [now-lookback, now+lookahead].
func (f *CalendarFetcher) Fetch(ctx context.Context, now time.Time) ([]models.CalendarEvent, error) {
	events, err := f.client.EconomicCalendar(ctx, now.Add(-f.lookback), now.Add(f.lookahead))
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}
	return events, nil
}

// Render buckets events relative to now. Each list holds at least one line.
func (f *CalendarFetcher) Render(events []models.CalendarEvent, now time.Time) *models.CalendarBrief {
	var announced, today, tomorrow []models.CalendarEvent
	for _, e := range events {
		switch e.Classify(now, f.loc) {
		case models.BucketAnnouncement:
			announced = append(announced, e)
		case models.BucketToday:
			today = append(today, e)
		case models.BucketTomorrow:
			tomorrow = append(tomorrow, e)
		}
	}

	// Newest announcements first; upcoming events in time order.
	sort.SliceStable(announced, func(i, j int) bool { return announced[i].Time.After(announced[j].Time) })
	sort.SliceStable(today, func(i, j int) bool { return today[i].Time.Before(today[j].Time) })
	sort.SliceStable(tomorrow, func(i, j int) bool { return tomorrow[i].Time.Before(tomorrow[j].Time) })

	if len(announced) > f.announcementCap {
		announced = announced[:f.announcementCap]
	}

	cb := &models.CalendarBrief{
		Announcements: make([]string, 0, len(announced)),
		Today:         make([]string, 0, len(today)),
		Tomorrow:      make([]string, 0, len(tomorrow)),
	}
	for _, e := range announced {
		cb.Announcements = append(cb.Announcements, announcementLine(e))
	}
	for _, e := range today {
		cb.Today = append(cb.Today, f.scheduledLine(e))
	}
	for _, e := range tomorrow {
		cb.Tomorrow = append(cb.Tomorrow, f.scheduledLine(e))
	}

	if len(cb.Announcements) == 0 {
		cb.Announcements = []string{NoAnnouncements}
	}
	if len(cb.Today) == 0 {
		cb.Today = []string{NoEventsToday}
	}
	if len(cb.Tomorrow) == 0 {
		cb.Tomorrow = []string{NoEventsTomorrow}
	}
	return cb
}

// Unavailable is the brief shown when the calendar fetch failed.
func (f *CalendarFetcher) Unavailable() *models.CalendarBrief {
	return &models.CalendarBrief{
		Announcements: []string{CalendarUnavailable},
		Today:         []string{CalendarUnavailable},
		Tomorrow:      []string{CalendarUnavailable},
	}
}

// announcementLine renders "- {country} {event}: {actual}".
func announcementLine(e models.CalendarEvent) string {
	actual := utils.NA
	if e.Actual != nil {
		actual = *e.Actual
	}
	return "- " + joinNonEmpty(e.Country, e.Event) + ": " + actual
}

// scheduledLine renders "- {clock} {country} {event}".
func (f *CalendarFetcher) scheduledLine(e models.CalendarEvent) string {
	return "- " + joinNonEmpty(utils.FormatClock(e.Time, f.loc), e.Country, e.Event)
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
