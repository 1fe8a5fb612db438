package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in       string
		expected Provider
		ok       bool
	}{
		{"monobank", ProviderMonobank, true},
		{"Monobank", ProviderMonobank, true},
		{"PrivatBank", ProviderPrivatbank, true},
		{" privatbank ", ProviderPrivatbank, true},
		{"nbu", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, ok := ParseProvider(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, p)
			}
		})
	}
}

func TestRateQuote(t *testing.T) {
	q := RateQuote{CurrencyA: USD, CurrencyB: UAH, Buy: Float(40), Sell: Float(40.5)}
	assert.True(t, q.HasTwoSided())
	assert.True(t, q.Usable())
	assert.True(t, q.Matches(USD, UAH))
	assert.True(t, q.Matches(UAH, USD))
	assert.False(t, q.Matches(EUR, UAH))

	cross := RateQuote{CurrencyA: GBP, CurrencyB: UAH, Cross: Float(52.1)}
	assert.False(t, cross.HasTwoSided())
	assert.True(t, cross.Usable())

	empty := RateQuote{CurrencyA: PLN, CurrencyB: UAH, Buy: Float(10)}
	assert.False(t, empty.Usable())
}

func TestRateCacheEntry_Fresh(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	entry := RateCacheEntry{FetchedAt: now}

	assert.True(t, entry.Fresh(now.Add(899*time.Second), 900*time.Second))
	assert.False(t, entry.Fresh(now.Add(900*time.Second), 900*time.Second))
}

func TestSession_ClearDialogue(t *testing.T) {
	s := NewSession(7)
	s.Provider = ProviderPrivatbank
	s.State = StateAwaitingToCurrency
	s.Amount = Float(10)
	s.FromCurrency = USD
	s.ToCurrency = UAH

	s.ClearDialogue()

	assert.Equal(t, StateIdle, s.State)
	assert.Nil(t, s.Amount)
	assert.False(t, s.HasPresetPair())
	assert.Equal(t, ProviderPrivatbank, s.Provider)
}

func TestIsConvertibleCurrency(t *testing.T) {
	assert.True(t, IsConvertibleCurrency("PLN"))
	assert.False(t, IsConvertibleCurrency("BTC"))
	assert.False(t, IsConvertibleCurrency("usd"))
}
