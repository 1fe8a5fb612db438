package facades

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sbilibin2017/gw-currency-bot/internal/currency"
	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

// monobankRate is one element of the Monobank public currency feed.
type monobankRate struct {
	CurrencyCodeA json.Number `json:"currencyCodeA"`
	CurrencyCodeB json.Number `json:"currencyCodeB"`
	Date          int64       `json:"date"`
	RateBuy       *float64    `json:"rateBuy"`
	RateSell      *float64    `json:"rateSell"`
	RateCross     *float64    `json:"rateCross"`
}

// MonobankFacade reads the Monobank feed, keyed by numeric ISO 4217 codes.
type MonobankFacade struct {
	client *http.Client
	url    string
}

// NewMonobankFacade creates a facade for the feed at url.
func NewMonobankFacade(url string, timeout time.Duration) *MonobankFacade {
	return &MonobankFacade{client: newHTTPClient(timeout), url: url}
}

// Provider implements the rate provider capability.
func (f *MonobankFacade) Provider() models.Provider {
	return models.ProviderMonobank
}

// FetchRates downloads and decodes the feed. Currency codes are normalized to symbols.
func (f *MonobankFacade) FetchRates(ctx context.Context) (models.RateTable, error) {
	body, err := getFeed(ctx, f.client, f.url)
	if err != nil {
		logger.Log.Errorw("failed to fetch monobank rates", "url", f.url, "error", err)
		return nil, err
	}

	var rates []monobankRate
	if err := json.Unmarshal(body, &rates); err != nil {
		logger.Log.Errorw("failed to decode monobank rates", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}
	if len(rates) == 0 {
		return nil, ErrEmptyFeed
	}

	table := make(models.RateTable, 0, len(rates))
	for _, r := range rates {
		table = append(table, models.RateQuote{
			CurrencyA: currency.Normalize(r.CurrencyCodeA.String(), f.Provider()),
			CurrencyB: currency.Normalize(r.CurrencyCodeB.String(), f.Provider()),
			Buy:       r.RateBuy,
			Sell:      r.RateSell,
			Cross:     r.RateCross,
		})
	}
	return table, nil
}

// Convert applies the Monobank rule: two-sided prices divide by sell when
// converting from UAH and multiply by buy otherwise; a lone cross rate always
// multiplies.
func (f *MonobankFacade) Convert(q models.RateQuote, from string, amount float64) (float64, error) {
	switch {
	case q.HasTwoSided():
		if from == models.UAH {
			if *q.Sell == 0 {
				return 0, ErrNoUsablePrice
			}
			return amount / *q.Sell, nil
		}
		return amount * *q.Buy, nil
	case q.Cross != nil:
		return amount * *q.Cross, nil
	default:
		return 0, ErrNoUsablePrice
	}
}
