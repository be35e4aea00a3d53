package datasource

import (
	"context"
	"fmt"

	"github.com/seenimoa/marketbrief/internal/providers/fmp"
	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// QuoteFetcher fetches a symbol set in one batch and renders it as
// grouped sections.
type QuoteFetcher struct {
	client QuoteClient
}

// NewQuoteFetcher creates a QuoteFetcher over client.
func NewQuoteFetcher(client QuoteClient) *QuoteFetcher {
	return &QuoteFetcher{client: client}
}

// Fetch returns the quote book for set, keyed by upper-case symbol.
// A partial or empty response is not an error.
func (f *QuoteFetcher) Fetch(ctx context.Context, set SymbolSet) (map[string]utils.Record, error) {
	records, err := f.client.Quotes(ctx, set.Symbols())
	if err != nil {
		return nil, fmt.Errorf("quotes %s: %w", set.Name, err)
	}
	return fmp.QuoteBook(records), nil
}

// Render builds one section per symbol group. Every symbol gets a line;
// symbols missing from book render N/A. A nil book is valid.
func (f *QuoteFetcher) Render(set SymbolSet, book map[string]utils.Record) []models.Section {
	sections := make([]models.Section, 0, len(set.Groups))
	for _, g := range set.Groups {
		lines := make([]string, 0, len(g.Symbols))
		for _, spec := range g.Symbols {
			lines = append(lines, QuoteLine(spec, fmp.QuoteFor(book, spec.Symbol)))
		}
		sections = append(sections, models.Section{Key: g.Key, Title: g.Title, Lines: lines})
	}
	return sections
}

// QuoteLine renders "- {label}: {pct}, Last: {price}".
func QuoteLine(spec SymbolSpec, q models.SymbolQuote) string {
	var price string
	if spec.Style.Grouped {
		price = utils.FormatGrouped(q.Price)
	} else {
		price = utils.FormatFixed(q.Price, spec.Style.Places)
	}
	return fmt.Sprintf("- %s: %s, Last: %s", spec.Label, utils.FormatPercent(q.ChangePercent), price)
}
