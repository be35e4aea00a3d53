// Package datasource fetches every upstream concurrently and reduces the
// results into a models.Brief. No single upstream failure aborts the others.
package datasource

import (
	"context"
	"time"

	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// QuoteClient fetches raw quote records for a batch of symbols.
type QuoteClient interface {
	Quotes(ctx context.Context, symbols []string) ([]utils.Record, error)
}

// HeadlineClient is one headline provider.
type HeadlineClient interface {
	Name() string
	Headlines(ctx context.Context) ([]models.Headline, error)
}

// CalendarClient fetches economic calendar events in [from, to].
type CalendarClient interface {
	EconomicCalendar(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error)
}

// SectionSource produces one auxiliary dashboard section.
type SectionSource interface {
	Key() string
	Title() string
	// Lines fetches the section body. An error means the fetch failed.
	Lines(ctx context.Context) ([]string, error)
	// FailureLines is shown when Lines fails.
	FailureLines() []string
}

// Placeholder lines shown when a section has nothing to display.
const (
	HeadlinesUnavailable = "Could not fetch headlines."
	CalendarUnavailable  = "Could not fetch calendar data."
	NoAnnouncements      = "No recent data announcements."
	NoEventsToday        = "No more events scheduled today."
	NoEventsTomorrow     = "No events scheduled tomorrow."
)
