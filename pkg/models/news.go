package models

import "time"

// HeadlineSource identifies which headline provider produced a headline.
// Providers are merged in ascending order.
type HeadlineSource int

const (
	HeadlineSourceA HeadlineSource = iota // primary API feed
	HeadlineSourceB                       // secondary RSS feed
)

func (s HeadlineSource) String() string {
	switch s {
	case HeadlineSourceA:
		return "A"
	case HeadlineSourceB:
		return "B"
	default:
		return "unknown"
	}
}

// Headline is a single business headline.
// Two headlines with identical Text are duplicates regardless of source.
type Headline struct {
	Text        string         `json:"text"`
	Source      HeadlineSource `json:"source"`
	PublishedAt time.Time      `json:"published_at,omitempty"` // zero when the provider has no timestamp
}
