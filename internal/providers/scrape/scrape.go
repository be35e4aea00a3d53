// Package scrape extracts text items from HTML pages with CSS selectors.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/marketbrief/internal/infra"
)

// Scraper fetches pages and selects elements from them.
type Scraper struct {
	httpClient *http.Client
}

// New creates a Scraper. A nil client means a default infra client.
func New(httpClient *http.Client) *Scraper {
	if httpClient == nil {
		httpClient = infra.NewHTTPClient(0)
	}
	return &Scraper{httpClient: httpClient}
}

// Texts fetches pageURL and returns the trimmed visible text of every
// element matching selector, in document order. Empty matches are
// skipped; limit <= 0 means no limit.
func (s *Scraper) Texts(ctx context.Context, pageURL, selector string, limit int) ([]string, error) {
	doc, err := s.fetchPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return SelectTexts(doc, selector, limit), nil
}

// SelectTexts applies selector to an already parsed document.
func SelectTexts(doc *goquery.Document, selector string, limit int) []string {
	var out []string
	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text != "" {
			out = append(out, text)
		}
		return limit <= 0 || len(out) < limit
	})
	return out
}

// fetchPage fetches and parses an HTML page.
func (s *Scraper) fetchPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, _, err := infra.DoGet(ctx, s.httpClient, pageURL, map[string]string{
		"Accept": "text/html,application/xhtml+xml",
	})
	if err != nil {
		return nil, fmt.Errorf("scrape fetch: %w", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML %s: %w", infra.Redact(pageURL), err)
	}
	return doc, nil
}
