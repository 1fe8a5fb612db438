package currency

import (
	"testing"

	"github.com/sbilibin2017/gw-currency-bot/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		provider models.Provider
		expected string
	}{
		{"monobank_usd", "840", models.ProviderMonobank, "USD"},
		{"monobank_eur", "978", models.ProviderMonobank, "EUR"},
		{"monobank_uah", "980", models.ProviderMonobank, "UAH"},
		{"monobank_gbp", "826", models.ProviderMonobank, "GBP"},
		{"monobank_pln", "985", models.ProviderMonobank, "PLN"},
		{"monobank_unmapped", "933", models.ProviderMonobank, "933"},
		{"monobank_not_a_number", "XYZ", models.ProviderMonobank, "XYZ"},
		{"privatbank_usd", "USD", models.ProviderPrivatbank, "USD"},
		{"privatbank_btc", "BTC", models.ProviderPrivatbank, "BTC"},
		{"privatbank_unmapped", "RUR", models.ProviderPrivatbank, "RUR"},
		{"unknown_provider", "840", models.Provider(42), "840"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.raw, tt.provider))
		})
	}
}

func TestFromISONumeric_Unmapped(t *testing.T) {
	sym := FromISONumeric(1)
	assert.Equal(t, "1", sym)
	assert.False(t, models.IsConvertibleCurrency(sym))
}
