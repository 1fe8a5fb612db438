package facades

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sbilibin2017/gw-currency-bot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMonobankFacade_FetchRates(t *testing.T) {
	body := `[
		{"currencyCodeA":840,"currencyCodeB":980,"date":1700000000,"rateBuy":40.0,"rateSell":40.5},
		{"currencyCodeA":826,"currencyCodeB":980,"date":1700000000,"rateCross":52.1},
		{"currencyCodeA":933,"currencyCodeB":980,"date":1700000000,"rateCross":15.2}
	]`
	srv := newFeedServer(t, http.StatusOK, body)
	facade := NewMonobankFacade(srv.URL, time.Second)

	table, err := facade.FetchRates(context.Background())
	require.NoError(t, err)
	require.Len(t, table, 3)

	assert.Equal(t, "USD", table[0].CurrencyA)
	assert.Equal(t, "UAH", table[0].CurrencyB)
	assert.Equal(t, 40.0, *table[0].Buy)
	assert.Equal(t, 40.5, *table[0].Sell)
	assert.Nil(t, table[0].Cross)

	assert.Equal(t, "GBP", table[1].CurrencyA)
	assert.Nil(t, table[1].Buy)
	assert.Equal(t, 52.1, *table[1].Cross)

	assert.Equal(t, "933", table[2].CurrencyA)
	assert.Equal(t, models.ProviderMonobank, facade.Provider())
}

func TestMonobankFacade_FetchRates_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		err    error
	}{
		{"bad_status", http.StatusTooManyRequests, `{"errorDescription":"Too many requests"}`, ErrUnexpectedStatus},
		{"malformed", http.StatusOK, `{"not":"an array"}`, ErrMalformedFeed},
		{"garbage", http.StatusOK, `<html>`, ErrMalformedFeed},
		{"empty", http.StatusOK, `[]`, ErrEmptyFeed},
		{"ticker_code", http.StatusOK, `[{"currencyCodeA":"USD","currencyCodeB":980,"rateCross":1}]`, ErrMalformedFeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFeedServer(t, tt.status, tt.body)
			facade := NewMonobankFacade(srv.URL, time.Second)

			table, err := facade.FetchRates(context.Background())
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, table)
		})
	}
}

func TestMonobankFacade_FetchRates_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	facade := NewMonobankFacade(url, time.Second)
	_, err := facade.FetchRates(context.Background())
	assert.Error(t, err)
}

func TestMonobankFacade_Convert(t *testing.T) {
	facade := NewMonobankFacade("", 0)
	usd := models.RateQuote{CurrencyA: "USD", CurrencyB: "UAH", Buy: models.Float(40.0), Sell: models.Float(40.5)}
	gbp := models.RateQuote{CurrencyA: "GBP", CurrencyB: "UAH", Cross: models.Float(52.0)}

	got, err := facade.Convert(usd, "UAH", 100)
	require.NoError(t, err)
	assert.InDelta(t, 2.4691358, got, 1e-6)

	got, err = facade.Convert(usd, "USD", 100)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, got)

	got, err = facade.Convert(gbp, "GBP", 2)
	require.NoError(t, err)
	assert.Equal(t, 104.0, got)

	_, err = facade.Convert(models.RateQuote{CurrencyA: "PLN", CurrencyB: "UAH", Buy: models.Float(10)}, "PLN", 1)
	assert.ErrorIs(t, err, ErrNoUsablePrice)

	_, err = facade.Convert(models.RateQuote{CurrencyA: "USD", CurrencyB: "UAH", Buy: models.Float(1), Sell: models.Float(0)}, "UAH", 1)
	assert.ErrorIs(t, err, ErrNoUsablePrice)
}
