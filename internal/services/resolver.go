package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

// ErrRateNotFound means no usable quote prices the requested pair.
var ErrRateNotFound = errors.New("rate not found")

//go:generate mockgen -source=resolver.go -destination=resolver_mock.go -package=services

// RateConverter applies a provider's quoting convention to a matched quote.
type RateConverter interface {
	Provider() models.Provider
	Convert(q models.RateQuote, from string, amount float64) (float64, error)
}

// Resolver finds quotes in a table and converts amounts with the owning provider's rule.
type Resolver struct {
	converters map[models.Provider]RateConverter
}

// NewResolver registers one converter per provider.
func NewResolver(converters ...RateConverter) *Resolver {
	r := &Resolver{converters: make(map[models.Provider]RateConverter, len(converters))}
	for _, c := range converters {
		r.converters[c.Provider()] = c
	}
	return r
}

// Resolve returns the first quote, in table order, pricing from/to in either orientation.
func (r *Resolver) Resolve(table models.RateTable, from, to string) (models.RateQuote, error) {
	for _, q := range table {
		if q.Matches(from, to) {
			return q, nil
		}
	}
	return models.RateQuote{}, fmt.Errorf("%w: %s/%s", ErrRateNotFound, from, to)
}

// Convert prices amount of from with q under provider p's rule.
func (r *Resolver) Convert(q models.RateQuote, p models.Provider, from string, amount float64) (float64, error) {
	c, ok := r.converters[p]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownProvider, p)
	}
	converted, err := c.Convert(q, from, amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %s/%s: %v", ErrRateNotFound, q.CurrencyA, q.CurrencyB, err)
	}
	return converted, nil
}

// RateText describes the rate applied to a conversion, e.g. "Rate: 1 USD = 40.0000 UAH".
func RateText(q models.RateQuote, from, to string) string {
	switch {
	case q.HasTwoSided() && from == models.UAH:
		return fmt.Sprintf("Rate: 1 %s = %.4f %s", to, *q.Sell, from)
	case q.HasTwoSided():
		return fmt.Sprintf("Rate: 1 %s = %.4f %s", from, *q.Buy, to)
	case q.Cross != nil:
		return fmt.Sprintf("Rate: 1 %s = %.4f %s", from, *q.Cross, to)
	default:
		return ""
	}
}

// RateTableReader returns a provider's current table.
type RateTableReader interface {
	Fetch(ctx context.Context, p models.Provider, useCache bool) (models.RateTable, error)
}

// Converter prices a conversion end to end: fetch, resolve, convert.
type Converter struct {
	rates    RateTableReader
	resolver *Resolver
}

// NewConverter creates a converter over a rate source and resolver.
func NewConverter(rates RateTableReader, resolver *Resolver) *Converter {
	return &Converter{rates: rates, resolver: resolver}
}

// Quote converts amount of from into to using provider p's current rates.
// It returns ErrRatesUnavailable or ErrRateNotFound on failure.
func (c *Converter) Quote(
	ctx context.Context,
	p models.Provider,
	from, to string,
	amount float64,
) (*models.Conversion, error) {
	table, err := c.rates.Fetch(ctx, p, true)
	if err != nil {
		return nil, err
	}

	quote, err := c.resolver.Resolve(table, from, to)
	if err != nil {
		return nil, err
	}

	converted, err := c.resolver.Convert(quote, p, from, amount)
	if err != nil {
		return nil, err
	}

	return &models.Conversion{
		Provider:        p,
		Amount:          amount,
		FromCurrency:    from,
		ToCurrency:      to,
		ConvertedAmount: converted,
		Quote:           quote,
	}, nil
}
