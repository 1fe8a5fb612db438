package models

import "strings"

// Supported currency codes
const (
	USD = "USD"
	EUR = "EUR"
	UAH = "UAH"
	GBP = "GBP"
	PLN = "PLN"
	BTC = "BTC"
)

// ConvertibleCurrencies lists the currencies a user can pick in the dialogue.
var ConvertibleCurrencies = []string{USD, EUR, UAH, GBP, PLN}

// IsConvertibleCurrency reports whether code is one of ConvertibleCurrencies.
func IsConvertibleCurrency(code string) bool {
	for _, c := range ConvertibleCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// Provider identifies an external source of exchange rates.
type Provider int

const (
	// ProviderMonobank publishes rates keyed by numeric ISO 4217 codes.
	ProviderMonobank Provider = iota
	// ProviderPrivatbank publishes rates keyed by currency tickers.
	ProviderPrivatbank
)

// DefaultProvider is used until a conversation picks another source.
const DefaultProvider = ProviderMonobank

// Providers lists every supported provider in display order.
var Providers = []Provider{ProviderMonobank, ProviderPrivatbank}

// String returns the stable lowercase name used in configs, keys and URLs.
func (p Provider) String() string {
	switch p {
	case ProviderMonobank:
		return "monobank"
	case ProviderPrivatbank:
		return "privatbank"
	default:
		return "unknown"
	}
}

// Title returns the name shown to chat users.
func (p Provider) Title() string {
	switch p {
	case ProviderMonobank:
		return "Monobank"
	case ProviderPrivatbank:
		return "PrivatBank"
	default:
		return "Unknown"
	}
}

// ParseProvider maps a provider name or title to a Provider, ignoring case.
func ParseProvider(name string) (Provider, bool) {
	name = strings.TrimSpace(name)
	for _, p := range Providers {
		if strings.EqualFold(name, p.String()) || strings.EqualFold(name, p.Title()) {
			return p, true
		}
	}
	return 0, false
}
