package datasource

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/marketbrief/pkg/models"
	"github.com/seenimoa/marketbrief/pkg/utils"
)

func TestLookupSymbolSet(t *testing.T) {
	v1, ok := LookupSymbolSet("")
	require.True(t, ok)
	assert.Equal(t, "v1", v1.Name)
	assert.Equal(t, []string{
		"^IXIC", "^GSPC", "^DJI", "^FTSE", "^AXJO", "^N225",
		"EURUSD", "AUDUSD", "USDJPY", "GBPUSD",
		"BTCUSD", "GCUSD", "CLUSD", "^VIX",
	}, v1.Symbols())

	us, ok := LookupSymbolSet(" US ")
	require.True(t, ok)
	assert.Equal(t, "us", us.Name)
	assert.NotContains(t, us.Symbols(), "^FTSE")

	fallback, ok := LookupSymbolSet("v9")
	assert.False(t, ok)
	assert.Equal(t, "v1", fallback.Name)

	assert.Equal(t, []string{"us", "v1"}, SymbolSetNames())
}

func TestQuoteLine(t *testing.T) {
	price := 5123.4567
	pct := 0.5
	neg := -1.234
	fx := 1.08456

	tests := []struct {
		name string
		spec SymbolSpec
		q    models.SymbolQuote
		want string
	}{
		{"grouped", SymbolSpec{"^GSPC", "US S&P 500", styleGrouped}, models.SymbolQuote{Price: &price, ChangePercent: &pct}, "- US S&P 500: +0.50%, Last: 5,123.457"},
		{"fixed 4", SymbolSpec{"EURUSD", "EUR/USD", styleFixed4}, models.SymbolQuote{Price: &fx, ChangePercent: &neg}, "- EUR/USD: -1.23%, Last: 1.0846"},
		{"fixed 2", SymbolSpec{"^VIX", "VIX", styleFixed2}, models.SymbolQuote{Price: &fx}, "- VIX: N/A, Last: 1.08"},
		{"missing", SymbolSpec{"CLUSD", "WTI Oil", styleGrouped}, models.MissingQuote("CLUSD"), "- WTI Oil: N/A, Last: N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteLine(tt.spec, tt.q))
		})
	}
}

func TestQuoteFetcherPartialResponse(t *testing.T) {
	set, _ := LookupSymbolSet("v1")
	symbols := set.Symbols()

	// Upstream returns 10 of the 14 symbols.
	var records []utils.Record
	for _, s := range symbols[:10] {
		records = append(records, quoteRecord(s, 100.0, 1.0))
	}
	client := &fakeQuotes{records: records}
	f := NewQuoteFetcher(client)

	book, err := f.Fetch(context.Background(), set)
	require.NoError(t, err)
	assert.Equal(t, symbols, client.got, "one batched request for the whole set")

	sections := f.Render(set, book)
	require.Len(t, sections, 3)
	assert.Equal(t, []string{"Indices", "Currencies", "Other Markets ($USD)"},
		[]string{sections[0].Title, sections[1].Title, sections[2].Title})

	var lines []string
	for _, s := range sections {
		lines = append(lines, s.Lines...)
	}
	require.Len(t, lines, 14)

	na := 0
	for _, l := range lines {
		if strings.HasSuffix(l, ": N/A, Last: N/A") {
			na++
		}
	}
	assert.Equal(t, 4, na)
}

func TestQuoteFetcherMalformedRecords(t *testing.T) {
	set, _ := LookupSymbolSet("v1")
	book := map[string]utils.Record{
		"^GSPC":  quoteRecord("^GSPC", "5,000", 0.25),
		"EURUSD": quoteRecord("EURUSD", 1.1, "up"),
		"^VIX":   {"symbol": "^VIX"},
	}

	lines := NewQuoteFetcher(&fakeQuotes{}).Render(set, book)
	assert.Equal(t, "- US S&P 500: +0.25%, Last: N/A", lines[0].Lines[1])
	assert.Equal(t, "- EUR/USD: N/A, Last: 1.1000", lines[1].Lines[0])
	assert.Equal(t, "- VIX: N/A, Last: N/A", lines[2].Lines[3])
}

func TestQuoteFetcherError(t *testing.T) {
	set, _ := LookupSymbolSet("us")
	f := NewQuoteFetcher(&fakeQuotes{err: errUpstream})

	book, err := f.Fetch(context.Background(), set)
	require.ErrorIs(t, err, errUpstream)

	// A failed fetch still renders every symbol.
	sections := f.Render(set, book)
	for _, s := range sections {
		for _, l := range s.Lines {
			assert.True(t, strings.HasSuffix(l, "N/A, Last: N/A"), l)
		}
	}
}
