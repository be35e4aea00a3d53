package models

import "time"

// Section is one named block of dashboard lines.
type Section struct {
	Key   string   `json:"key"`
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// CalendarBrief holds the rendered economic calendar lists.
type CalendarBrief struct {
	Announcements []string `json:"announcements"`
	Today         []string `json:"today"`
	Tomorrow      []string `json:"tomorrow"`
}

// SourceOutcome records how a single upstream fetch settled.
type SourceOutcome struct {
	Source   string        `json:"source"`
	OK       bool          `json:"ok"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Brief is the aggregated result of one invocation.
// Every promised section carries at least one line.
type Brief struct {
	ID          string          `json:"id"`
	Headlines   []string        `json:"headlines"`
	Market      []Section       `json:"market"`
	Calendar    *CalendarBrief  `json:"calendar,omitempty"` // nil when the calendar is disabled
	Sources     []SourceOutcome `json:"sources"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// FailedSources returns the names of sources that did not settle successfully.
func (b *Brief) FailedSources() []string {
	var out []string
	for _, s := range b.Sources {
		if !s.OK {
			out = append(out, s.Source)
		}
	}
	return out
}
