package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seenimoa/marketbrief/pkg/models"
)

// Layout selects how marketData is serialized.
type Layout string

const (
	// LayoutFlat renders marketData as display lines with "*Title*" headers.
	LayoutFlat Layout = "flat"
	// LayoutSections renders marketData as structured {key,title,lines} blocks.
	LayoutSections Layout = "sections"
)

// ParseLayout parses a layout name. Empty means LayoutFlat.
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(strings.TrimSpace(s))) {
	case "", LayoutFlat:
		return LayoutFlat, nil
	case LayoutSections:
		return LayoutSections, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want flat or sections)", s)
	}
}

// Format selects the encoding used by Encode.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses an output format name. Empty means FormatJSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// Encode writes v to w as indented JSON or YAML.
func Encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("encode: unknown format %q", format)
	}
}

// ErrInvalidBrief reports a brief that breaks the always-populated contract.
var ErrInvalidBrief = errors.New("invalid brief")

// Payload is the JSON body of a successful market-data response.
type Payload struct {
	NewsHeadlines    []string               `json:"newsHeadlines"              yaml:"newsHeadlines"`
	MarketData       any                    `json:"marketData"                 yaml:"marketData"` // []string or []models.Section
	EconomicCalendar *models.CalendarBrief  `json:"economicCalendar,omitempty" yaml:"economicCalendar,omitempty"`
	GeneratedAt      time.Time              `json:"generatedAt"                yaml:"generatedAt"`
	BriefID          string                 `json:"briefId,omitempty"          yaml:"briefId,omitempty"`
	Sources          []models.SourceOutcome `json:"sources,omitempty"          yaml:"sources,omitempty"`
}

// ErrorResponse is the JSON body of a failed market-data request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Assemble serializes brief into the response payload. It fails only when
// the brief violates its own invariants.
func Assemble(brief *models.Brief, layout Layout) (*Payload, error) {
	if err := checkBrief(brief); err != nil {
		return nil, err
	}

	p := &Payload{
		NewsHeadlines:    brief.Headlines,
		EconomicCalendar: brief.Calendar,
		GeneratedAt:      brief.GeneratedAt,
	}
	switch layout {
	case LayoutSections:
		p.MarketData = brief.Market
	case LayoutFlat, "":
		p.MarketData = flattenSections(brief.Market)
	default:
		return nil, fmt.Errorf("assemble: unknown layout %q", layout)
	}
	return p, nil
}

// flattenSections renders each section as a "*Title*" header followed by
// its lines, with a blank line between sections.
func flattenSections(sections []models.Section) []string {
	out := make([]string, 0)
	for i, s := range sections {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, "*"+s.Title+"*")
		out = append(out, s.Lines...)
	}
	return out
}

func checkBrief(b *models.Brief) error {
	if b == nil {
		return fmt.Errorf("%w: nil brief", ErrInvalidBrief)
	}
	if len(b.Headlines) == 0 {
		return fmt.Errorf("%w: no headline lines", ErrInvalidBrief)
	}
	if len(b.Market) == 0 {
		return fmt.Errorf("%w: no market sections", ErrInvalidBrief)
	}
	for _, s := range b.Market {
		if s.Title == "" || len(s.Lines) == 0 {
			return fmt.Errorf("%w: section %q has no title or lines", ErrInvalidBrief, s.Key)
		}
	}
	if c := b.Calendar; c != nil {
		if len(c.Announcements) == 0 || len(c.Today) == 0 || len(c.Tomorrow) == 0 {
			return fmt.Errorf("%w: empty calendar list", ErrInvalidBrief)
		}
	}
	return nil
}
