package facades

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/sbilibin2017/gw-currency-bot/internal/currency"
	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

// DefaultPrivatbankURL is the cash rates feed.
const DefaultPrivatbankURL = "https://api.privatbank.ua/p24api/pubinfo?exchange&coursid=5"

// PrivatbankFacade reads the PrivatBank feed, keyed by tickers.
// Prices arrive as strings or numbers depending on the endpoint.
type PrivatbankFacade struct {
	client *http.Client
	url    string
}

// NewPrivatbankFacade creates a facade for the feed at url.
func NewPrivatbankFacade(url string, timeout time.Duration) *PrivatbankFacade {
	if url == "" {
		url = DefaultPrivatbankURL
	}
	return &PrivatbankFacade{client: newHTTPClient(timeout), url: url}
}

// Provider implements the rate provider capability.
func (f *PrivatbankFacade) Provider() models.Provider {
	return models.ProviderPrivatbank
}

// FetchRates downloads and decodes the feed.
func (f *PrivatbankFacade) FetchRates(ctx context.Context) (models.RateTable, error) {
	body, err := getFeed(ctx, f.client, f.url)
	if err != nil {
		logger.Log.Errorw("failed to fetch privatbank rates", "url", f.url, "error", err)
		return nil, err
	}

	if !gjson.ValidBytes(body) {
		logger.Log.Errorw("failed to decode privatbank rates", "body_size", len(body))
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedFeed)
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected array, got %s", ErrMalformedFeed, root.Type)
	}

	items := root.Array()
	if len(items) == 0 {
		return nil, ErrEmptyFeed
	}

	table := make(models.RateTable, 0, len(items))
	for _, item := range items {
		table = append(table, models.RateQuote{
			CurrencyA: currency.Normalize(item.Get("ccy").String(), f.Provider()),
			CurrencyB: currency.Normalize(item.Get("base_ccy").String(), f.Provider()),
			Buy:       price(item.Get("buy")),
			Sell:      price(item.Get("sale")),
		})
	}
	return table, nil
}

// Convert applies the PrivatBank rule. Only two-sided prices are published:
// divide by sell when converting from UAH, multiply by buy otherwise.
func (f *PrivatbankFacade) Convert(q models.RateQuote, from string, amount float64) (float64, error) {
	if !q.HasTwoSided() {
		return 0, ErrNoUsablePrice
	}
	if from == models.UAH {
		if *q.Sell == 0 {
			return 0, ErrNoUsablePrice
		}
		return amount / *q.Sell, nil
	}
	return amount * *q.Buy, nil
}

// price reads a string or numeric price; anything else is absent.
func price(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		v := r.Float()
		return &v
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return nil
		}
		return &v
	default:
		return nil
	}
}
