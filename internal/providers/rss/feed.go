// Package rss fetches headlines from an RSS or Atom feed.
package rss

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/seenimoa/marketbrief/internal/infra"
	"github.com/seenimoa/marketbrief/pkg/models"
)

// DefaultFeedURL is a business headline feed that needs no API key.
const DefaultFeedURL = "https://feeds.content.dowjones.io/public/rss/mw_topstories"

// Feed reads headlines from a single feed URL.
type Feed struct {
	url        string
	httpClient *http.Client
	parser     *gofeed.Parser
}

// Option configures the Feed.
type Option func(*Feed)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(f *Feed) {
		if httpClient != nil {
			f.httpClient = httpClient
		}
	}
}

// New creates a feed reader. An empty URL means DefaultFeedURL.
func New(feedURL string, opts ...Option) *Feed {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	f := &Feed{
		url:        feedURL,
		httpClient: infra.NewHTTPClient(0),
		parser:     gofeed.NewParser(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the provider name.
func (f *Feed) Name() string { return "rss" }

// URL returns the feed URL.
func (f *Feed) URL() string { return f.url }

// Headlines returns the feed items newest first. Items without a
// timestamp keep their feed order after the dated ones.
func (f *Feed) Headlines(ctx context.Context) ([]models.Headline, error) {
	data, err := infra.GetBytes(ctx, f.httpClient, f.url, map[string]string{
		"Accept": "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8",
	})
	if err != nil {
		return nil, fmt.Errorf("rss fetch: %w", err)
	}

	feed, err := f.parser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("rss parse %s: %w", infra.Redact(f.url), err)
	}

	out := make([]models.Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := cleanHTML(item.Title)
		if title == "" {
			continue
		}
		h := models.Headline{Text: title, Source: models.HeadlineSourceB}
		switch {
		case item.PublishedParsed != nil:
			h.PublishedAt = item.PublishedParsed.UTC()
		case item.UpdatedParsed != nil:
			h.PublishedAt = item.UpdatedParsed.UTC()
		}
		out = append(out, h)
	}

	sortNewestFirst(out)
	return out, nil
}

// cleanHTML strips HTML tags and entities from a string using goquery.
func cleanHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func sortNewestFirst(items []models.Headline) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].PublishedAt, items[j].PublishedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b)
	})
}
