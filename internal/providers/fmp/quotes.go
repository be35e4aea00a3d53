package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

// Quote record fields as named by FMP.
const (
	fieldSymbol        = "symbol"
	fieldName          = "name"
	fieldPrice         = "price"
	fieldChangePercent = "changesPercentage"
)

// Quotes fetches quotes for all symbols in a single batched request and
// returns the raw records. A payload that is not a list yields no records
// rather than an error; only transport and decode failures are errors.
func (c *Client) Quotes(ctx context.Context, symbols []string) ([]utils.Record, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	escaped := make([]string, len(symbols))
	for i, s := range symbols {
		escaped[i] = url.PathEscape(s)
	}
	path := "/quote/" + strings.Join(escaped, ",")

	var payload any
	if err := c.getJSON(ctx, path, nil, &payload); err != nil {
		return nil, fmt.Errorf("fmp quote: %w", err)
	}
	return utils.RecordsFromJSON(payload), nil
}

// QuoteBook indexes quote records by symbol. Later duplicates win.
func QuoteBook(records []utils.Record) map[string]utils.Record {
	book := make(map[string]utils.Record, len(records))
	for _, r := range records {
		sym, ok := r.Field(fieldSymbol).String()
		if !ok || sym == "" {
			continue
		}
		book[strings.ToUpper(strings.TrimSpace(sym))] = r
	}
	return book
}

// QuoteFor builds the SymbolQuote for symbol from book.
// Missing or mistyped fields are left nil.
func QuoteFor(book map[string]utils.Record, symbol string) models.SymbolQuote {
	q := models.SymbolQuote{Symbol: symbol}
	if name, ok := utils.Extract(book, symbol, fieldName).String(); ok && name != "" {
		q.DisplayName = &name
	}
	q.Price = utils.Extract(book, symbol, fieldPrice).FloatPtr()
	q.ChangePercent = utils.Extract(book, symbol, fieldChangePercent).FloatPtr()
	return q
}
