package datasource

import (
	"sort"
	"strings"
)

// PriceStyle selects how a quote's last price is rendered.
type PriceStyle struct {
	Grouped bool // thousands-grouped, free decimals
	Places  int  // fixed decimals when !Grouped
}

var (
	styleGrouped = PriceStyle{Grouped: true}
	styleFixed2  = PriceStyle{Places: 2}
	styleFixed4  = PriceStyle{Places: 4}
)

// SymbolSpec is one ticker and how it is displayed.
type SymbolSpec struct {
	Symbol string
	Label  string
	Style  PriceStyle
}

// SymbolGroup is a titled block of symbols rendered as one section.
type SymbolGroup struct {
	Key     string
	Title   string
	Symbols []SymbolSpec
}

// SymbolSet is a named, versioned list of symbol groups.
type SymbolSet struct {
	Name   string
	Groups []SymbolGroup
}

// DefaultSymbolSet is used when no set, or an unknown set, is requested.
const DefaultSymbolSet = "v1"

var (
	indicesUS = []SymbolSpec{
		{"^IXIC", "US Nasdaq", styleGrouped},
		{"^GSPC", "US S&P 500", styleGrouped},
		{"^DJI", "US Dow Jones", styleGrouped},
	}
	indicesIntl = []SymbolSpec{
		{"^FTSE", "UK FTSE 100", styleGrouped},
		{"^AXJO", "AU ASX 200", styleGrouped},
		{"^N225", "JP Nikkei 225", styleGrouped},
	}
	currencies = []SymbolSpec{
		{"EURUSD", "EUR/USD", styleFixed4},
		{"AUDUSD", "AUD/USD", styleFixed4},
		{"USDJPY", "USD/JPY", styleFixed2},
		{"GBPUSD", "GBP/USD", styleFixed4},
	}
	otherMarkets = []SymbolSpec{
		{"BTCUSD", "Bitcoin", styleGrouped},
		{"GCUSD", "Gold", styleGrouped},
		{"CLUSD", "WTI Oil", styleGrouped},
		{"^VIX", "VIX", styleFixed2},
	}
)

var symbolSets = map[string]SymbolSet{
	"v1": {
		Name: "v1",
		Groups: []SymbolGroup{
			{Key: "indices", Title: "Indices", Symbols: concatSpecs(indicesUS, indicesIntl)},
			{Key: "currencies", Title: "Currencies", Symbols: currencies},
			{Key: "other", Title: "Other Markets ($USD)", Symbols: otherMarkets},
		},
	},
	"us": {
		Name: "us",
		Groups: []SymbolGroup{
			{Key: "indices", Title: "Indices", Symbols: indicesUS},
			{Key: "other", Title: "Other Markets ($USD)", Symbols: otherMarkets},
		},
	},
}

// LookupSymbolSet returns the named set. The second result is false when
// the name is unknown and the default set was returned instead.
func LookupSymbolSet(name string) (SymbolSet, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return symbolSets[DefaultSymbolSet], true
	}
	set, ok := symbolSets[name]
	if !ok {
		return symbolSets[DefaultSymbolSet], false
	}
	return set, true
}

// SymbolSetNames lists the known set names in sorted order.
func SymbolSetNames() []string {
	names := make([]string, 0, len(symbolSets))
	for name := range symbolSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Symbols returns every ticker in the set, in display order.
func (s SymbolSet) Symbols() []string {
	var out []string
	for _, g := range s.Groups {
		for _, spec := range g.Symbols {
			out = append(out, spec.Symbol)
		}
	}
	return out
}

func concatSpecs(parts ...[]SymbolSpec) []SymbolSpec {
	var out []SymbolSpec
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
