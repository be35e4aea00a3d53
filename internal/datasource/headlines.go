package datasource

import (
	"strings"
	"time"

	"github.com/seenimoa/marketbrief/pkg/models"
)

// Headline merge defaults.
const (
	DefaultPerProvider     = 5
	DefaultHeadlineCap     = 8
	DefaultFreshnessWindow = 4 * time.Hour
)

const removedTitle = "[Removed]"

// HeadlineFetcher queries the headline providers and merges their results.
// Providers are merged in the order given.
type HeadlineFetcher struct {
	providers   []HeadlineClient
	perProvider int
	maxLines    int
}

// NewHeadlineFetcher creates a HeadlineFetcher. Non-positive limits take
// the defaults.
func NewHeadlineFetcher(perProvider, maxLines int, providers ...HeadlineClient) *HeadlineFetcher {
	if perProvider <= 0 {
		perProvider = DefaultPerProvider
	}
	if maxLines <= 0 {
		maxLines = DefaultHeadlineCap
	}
	return &HeadlineFetcher{providers: providers, perProvider: perProvider, maxLines: maxLines}
}

// Providers returns the providers in merge order.
func (f *HeadlineFetcher) Providers() []HeadlineClient {
	return f.providers
}

// Merge reduces per-provider results into display lines. results[i] holds
// provider i's headlines, nil when it failed. A window of 0 keeps every
// headline regardless of age. The result is never empty.
func (f *HeadlineFetcher) Merge(results [][]models.Headline, now time.Time, window time.Duration) []string {
	seen := make(map[string]bool)
	var lines []string

	for _, items := range results {
		for _, h := range f.selectProvider(items, now, window) {
			if seen[h.Text] {
				continue
			}
			seen[h.Text] = true
			lines = append(lines, "- "+h.Text)
			if len(lines) == f.maxLines {
				return lines
			}
		}
	}

	if len(lines) == 0 {
		return []string{HeadlinesUnavailable}
	}
	return lines
}

// selectProvider applies the per-provider filters and limit. items are
// assumed to be in the provider's rank order.
func (f *HeadlineFetcher) selectProvider(items []models.Headline, now time.Time, window time.Duration) []models.Headline {
	out := make([]models.Headline, 0, f.perProvider)
	for _, h := range items {
		h.Text = strings.TrimSpace(h.Text)
		if h.Text == "" || h.Text == removedTitle {
			continue
		}
		if window > 0 && !h.PublishedAt.IsZero() && now.Sub(h.PublishedAt) > window {
			continue
		}
		out = append(out, h)
		if len(out) == f.perProvider {
			break
		}
	}
	return out
}
