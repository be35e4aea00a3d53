// Package models defines the normalized records produced by the source
// fetchers and the aggregated brief returned to the dashboard.
package models

// SymbolQuote is one ticker's quote as parsed from an upstream quote feed.
// Price and ChangePercent are nil when the upstream omitted or mistyped them.
type SymbolQuote struct {
	Symbol        string   `json:"symbol"`
	DisplayName   *string  `json:"display_name,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
}

// MissingQuote returns the N/A-filled quote used for symbols absent from
// the upstream response.
func MissingQuote(symbol string) SymbolQuote {
	return SymbolQuote{Symbol: symbol}
}

// Complete reports whether both numeric fields are present.
func (q SymbolQuote) Complete() bool {
	return q.Price != nil && q.ChangePercent != nil
}
