package datasource

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

var errUpstream = errors.New("upstream unavailable")

type fakeQuotes struct {
	records []utils.Record
	err     error

	mu  sync.Mutex
	got []string
}

func (f *fakeQuotes) Quotes(_ context.Context, symbols []string) ([]utils.Record, error) {
	f.mu.Lock()
	f.got = symbols
	f.mu.Unlock()
	return f.records, f.err
}

type fakeHeadlines struct {
	name  string
	items []models.Headline
	err   error
	panic bool
}

func (f *fakeHeadlines) Name() string { return f.name }

func (f *fakeHeadlines) Headlines(context.Context) ([]models.Headline, error) {
	if f.panic {
		panic("provider exploded")
	}
	return f.items, f.err
}

type fakeCalendar struct {
	events   []models.CalendarEvent
	err      error
	from, to time.Time
}

func (f *fakeCalendar) EconomicCalendar(_ context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	f.from, f.to = from, to
	return f.events, f.err
}

type fakeScraper struct {
	texts []string
	err   error
}

func (f *fakeScraper) Texts(context.Context, string, string, int) ([]string, error) {
	return f.texts, f.err
}

func titles(source models.HeadlineSource, texts ...string) []models.Headline {
	out := make([]models.Headline, len(texts))
	for i, t := range texts {
		out[i] = models.Headline{Text: t, Source: source}
	}
	return out
}

func quoteRecord(symbol string, price, pct any) utils.Record {
	return utils.Record{"symbol": symbol, "price": price, "changesPercentage": pct}
}

func strPtr(s string) *string { return &s }
