package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/seenimoa/marketbrief/internal/config"
	"github.com/seenimoa/marketbrief/internal/infra"
	"github.com/seenimoa/marketbrief/internal/metrics"
	"github.com/seenimoa/marketbrief/internal/providers/fmp"
	"github.com/seenimoa/marketbrief/internal/providers/newsapi"
	"github.com/seenimoa/marketbrief/internal/providers/rss"
	"github.com/seenimoa/marketbrief/internal/providers/scrape"
	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// Source names used in outcomes, logs and metrics.
const (
	SourceQuotes   = "quotes"
	SourceCalendar = "calendar"
)

// Options are the per-invocation knobs of Build.
type Options struct {
	FreshnessWindow time.Duration // 0 disables the headline recency filter
	SymbolSet       string        // empty or unknown means DefaultSymbolSet
	Now             time.Time     // zero means the wall clock
}

// Aggregator fetches and merges data from every source concurrently.
type Aggregator struct {
	quotes    *QuoteFetcher
	headlines *HeadlineFetcher
	calendar  *CalendarFetcher // nil when the calendar is disabled
	sections  []SectionSource
	log       zerolog.Logger
	metrics   *metrics.Recorder
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log zerolog.Logger) AggregatorOption {
	return func(a *Aggregator) { a.log = log }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(rec *metrics.Recorder) AggregatorOption {
	return func(a *Aggregator) { a.metrics = rec }
}

// WithCalendar enables the economic calendar.
func WithCalendar(cal *CalendarFetcher) AggregatorOption {
	return func(a *Aggregator) { a.calendar = cal }
}

// WithSections appends auxiliary sections, rendered after the quotes in
// the given order.
func WithSections(sections ...SectionSource) AggregatorOption {
	return func(a *Aggregator) { a.sections = append(a.sections, sections...) }
}

// NewAggregator creates an aggregator over the given fetchers.
func NewAggregator(quotes *QuoteFetcher, headlines *HeadlineFetcher, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		quotes:    quotes,
		headlines: headlines,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewAggregatorFromConfig wires the production upstream clients.
func NewAggregatorFromConfig(cfg *config.Config, log zerolog.Logger, rec *metrics.Recorder) *Aggregator {
	httpClient := infra.NewHTTPClient(cfg.HTTP.Timeout())

	fmpClient := fmp.New(cfg.Providers.FMPKey,
		fmp.WithBaseURL(cfg.Providers.FMPBaseURL),
		fmp.WithHTTPClient(httpClient),
	)
	newsClient := newsapi.New(cfg.Providers.NewsAPIKey,
		newsapi.WithBaseURL(cfg.Providers.NewsAPIBaseURL),
		newsapi.WithHTTPClient(httpClient),
	)
	feed := rss.New(cfg.Providers.RSSURL, rss.WithHTTPClient(httpClient))

	opts := []AggregatorOption{WithLogger(log), WithMetrics(rec)}

	if cfg.Brief.CalendarEnabled {
		opts = append(opts, WithCalendar(NewCalendarFetcher(fmpClient, CalendarSettings{
			Lookback:        time.Duration(cfg.Brief.CalendarLookbackHours) * time.Hour,
			Lookahead:       time.Duration(cfg.Brief.CalendarLookaheadHours) * time.Hour,
			AnnouncementCap: cfg.Brief.AnnouncementCap,
			Location:        utils.LoadDisplayLocation(cfg.Brief.Timezone),
		})))
	}

	scraper := scrape.New(httpClient)
	for _, s := range cfg.Brief.Scrapes {
		opts = append(opts, WithSections(NewScrapeSection(scraper, s.Name, s.Title, s.URL, s.Selector, s.Limit)))
	}
	for _, s := range cfg.Brief.Static {
		opts = append(opts, WithSections(NewStaticSection(s.Key, s.Title, s.Lines)))
	}

	return NewAggregator(
		NewQuoteFetcher(fmpClient),
		NewHeadlineFetcher(cfg.Brief.HeadlinesPerProvider, cfg.Brief.HeadlineCap, newsClient, feed),
		opts...,
	)
}

// CalendarEnabled reports whether Build fills Brief.Calendar.
func (a *Aggregator) CalendarEnabled() bool { return a.calendar != nil }

// sectionResult is the settled value of one auxiliary section.
type sectionResult struct {
	lines []string
	ok    bool
}

// Build runs every source, waits for all of them to settle, and assembles
// the brief. Upstream failures never fail the build; they degrade to N/A
// values and placeholder lines.
func (a *Aggregator) Build(ctx context.Context, opts Options) *models.Brief {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	id := uuid.NewString()
	log := a.log.With().Str("brief_id", id).Logger()

	set, known := LookupSymbolSet(opts.SymbolSet)
	if !known {
		log.Warn().Str("symbol_set", opts.SymbolSet).Str("fallback", set.Name).Msg("unknown symbol set")
	}

	var (
		book      map[string]utils.Record
		providers = a.headlines.Providers()
		headlines = make([][]models.Headline, len(providers))
		events    []models.CalendarEvent
		calOK     bool
		sections  = make([]sectionResult, len(a.sections))
	)

	tasks := []task{{
		name: SourceQuotes,
		run: func(ctx context.Context) error {
			var err error
			book, err = a.quotes.Fetch(ctx, set)
			return err
		},
	}}

	for i, p := range providers {
		i, p := i, p
		tasks = append(tasks, task{
			name: "headlines." + p.Name(),
			run: func(ctx context.Context) error {
				items, err := p.Headlines(ctx)
				if err != nil {
					return err
				}
				headlines[i] = items
				return nil
			},
		})
	}

	if a.calendar != nil {
		tasks = append(tasks, task{
			name: SourceCalendar,
			run: func(ctx context.Context) error {
				var err error
				if events, err = a.calendar.Fetch(ctx, now); err != nil {
					return err
				}
				calOK = true
				return nil
			},
		})
	}

	for i, s := range a.sections {
		i, s := i, s
		tasks = append(tasks, task{
			name: "section." + s.Key(),
			run: func(ctx context.Context) error {
				lines, err := s.Lines(ctx)
				if err != nil {
					return fmt.Errorf("section %s: %w", s.Key(), err)
				}
				sections[i] = sectionResult{lines: lines, ok: true}
				return nil
			},
		})
	}

	outcomes := settleAll(ctx, log, a.metrics, tasks)

	brief := &models.Brief{
		ID:          id,
		Market:      a.quotes.Render(set, book),
		Headlines:   a.headlines.Merge(headlines, now, opts.FreshnessWindow),
		Sources:     outcomes,
		GeneratedAt: now.UTC(),
	}

	for i, s := range a.sections {
		lines := sections[i].lines
		if !sections[i].ok || len(lines) == 0 {
			lines = s.FailureLines()
		}
		if len(lines) == 0 {
			lines = []string{fmt.Sprintf("Could not fetch %s.", s.Title())}
		}
		brief.Market = append(brief.Market, models.Section{Key: s.Key(), Title: s.Title(), Lines: lines})
	}

	if a.calendar != nil {
		if calOK {
			brief.Calendar = a.calendar.Render(events, now)
		} else {
			brief.Calendar = a.calendar.Unavailable()
		}
	}

	if failed := brief.FailedSources(); len(failed) > 0 {
		log.Info().Strs("failed", failed).Int("sources", len(outcomes)).Msg("brief built with degraded sources")
	}
	return brief
}
