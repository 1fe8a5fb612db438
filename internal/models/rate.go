package models

import "time"

// RateQuote is one currency pair priced by a provider.
// CurrencyA and CurrencyB hold canonical symbols.
type RateQuote struct {
	CurrencyA string   `json:"currency_a"`      // Quoted currency, e.g. USD
	CurrencyB string   `json:"currency_b"`      // Counter currency, e.g. UAH
	Buy       *float64 `json:"buy,omitempty"`   // Price the provider buys CurrencyA at
	Sell      *float64 `json:"sell,omitempty"`  // Price the provider sells CurrencyA at
	Cross     *float64 `json:"cross,omitempty"` // Single multiplier when no two-sided price exists
}

// HasTwoSided reports whether both buy and sell prices are present.
func (q RateQuote) HasTwoSided() bool {
	return q.Buy != nil && q.Sell != nil
}

// Usable reports whether the quote can price a conversion at all.
func (q RateQuote) Usable() bool {
	return q.HasTwoSided() || q.Cross != nil
}

// Matches reports whether the quote prices the pair in either orientation.
func (q RateQuote) Matches(from, to string) bool {
	return (q.CurrencyA == from && q.CurrencyB == to) ||
		(q.CurrencyA == to && q.CurrencyB == from)
}

// RateTable is a provider response in provider order. Tables are replaced, never mutated.
type RateTable []RateQuote

// RateCacheEntry is the last successful fetch for a provider.
type RateCacheEntry struct {
	Provider  Provider  `json:"provider"`
	Table     RateTable `json:"table"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Fresh reports whether the entry is younger than ttl at now.
func (e RateCacheEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// Float returns a pointer to v. Handy for building quotes.
func Float(v float64) *float64 {
	return &v
}
