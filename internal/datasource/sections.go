package datasource

import (
	"context"
	"fmt"

	"github.com/seenimoa/marketbrief/pkg/models"
)

// Scraper extracts element texts from a web page.
type Scraper interface {
	Texts(ctx context.Context, pageURL, selector string, limit int) ([]string, error)
}

// ScrapeSection renders the matches of a CSS selector on one page.
type ScrapeSection struct {
	key      string
	title    string
	url      string
	selector string
	limit    int
	scraper  Scraper
}

// NewScrapeSection creates a scraped section.
func NewScrapeSection(scraper Scraper, key, title, pageURL, selector string, limit int) *ScrapeSection {
	return &ScrapeSection{
		key:      key,
		title:    title,
		url:      pageURL,
		selector: selector,
		limit:    limit,
		scraper:  scraper,
	}
}

func (s *ScrapeSection) Key() string   { return s.key }
func (s *ScrapeSection) Title() string { return s.title }

// Lines returns one "- {text}" line per match, or a placeholder when the
// page has no matching elements.
func (s *ScrapeSection) Lines(ctx context.Context) ([]string, error) {
	texts, err := s.scraper.Texts(ctx, s.url, s.selector, s.limit)
	if err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return []string{fmt.Sprintf("No items found on %s.", s.title)}, nil
	}
	lines := make([]string, len(texts))
	for i, t := range texts {
		lines[i] = "- " + t
	}
	return lines, nil
}

func (s *ScrapeSection) FailureLines() []string {
	return []string{fmt.Sprintf("Could not fetch %s.", s.title)}
}

// StaticSection is a fixed block of lines that always succeeds.
type StaticSection struct {
	section models.Section
}

// NewStaticSection creates a constant section.
func NewStaticSection(key, title string, lines []string) *StaticSection {
	return &StaticSection{section: models.Section{
		Key:   key,
		Title: title,
		Lines: append([]string(nil), lines...),
	}}
}

func (s *StaticSection) Key() string   { return s.section.Key }
func (s *StaticSection) Title() string { return s.section.Title }

func (s *StaticSection) Lines(context.Context) ([]string, error) {
	return s.lines(), nil
}

func (s *StaticSection) FailureLines() []string { return s.lines() }

func (s *StaticSection) lines() []string {
	return append([]string(nil), s.section.Lines...)
}
