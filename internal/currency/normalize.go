// Package currency maps provider-specific currency identifiers to canonical symbols.
package currency

import (
	"strconv"

	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

var isoNumeric = map[int]string{
	840: models.USD,
	978: models.EUR,
	980: models.UAH,
	826: models.GBP,
	985: models.PLN,
	756: "CHF",
	124: "CAD",
	392: "JPY",
	203: "CZK",
}

var tickers = map[string]string{
	models.USD: models.USD,
	models.EUR: models.EUR,
	models.UAH: models.UAH,
	models.GBP: models.GBP,
	models.PLN: models.PLN,
	models.BTC: models.BTC,
}

// FromISONumeric returns the symbol for a numeric ISO 4217 code.
// Unknown codes come back as their decimal string.
func FromISONumeric(code int) string {
	if s, ok := isoNumeric[code]; ok {
		return s
	}
	return strconv.Itoa(code)
}

// FromTicker returns the symbol for a provider ticker. Unknown tickers pass through.
func FromTicker(ticker string) string {
	if s, ok := tickers[ticker]; ok {
		return s
	}
	return ticker
}

// Normalize maps raw, as published by provider p, to a canonical symbol.
// It never fails: anything unrecognised is returned as an opaque symbol.
func Normalize(raw string, p models.Provider) string {
	switch p {
	case models.ProviderMonobank:
		code, err := strconv.Atoi(raw)
		if err != nil {
			return raw
		}
		return FromISONumeric(code)
	case models.ProviderPrivatbank:
		return FromTicker(raw)
	default:
		return raw
	}
}
