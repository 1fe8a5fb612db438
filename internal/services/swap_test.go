package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

func TestEncodeDecodeSwap(t *testing.T) {
	data := EncodeSwap(models.ProviderPrivatbank, 12.345, "UAH", "EUR")
	assert.Equal(t, "swap|privatbank|12.345|UAH|EUR", data)
	assert.LessOrEqual(t, len(data), 64)

	swap, err := DecodeSwap(data)
	require.NoError(t, err)
	assert.Equal(t, Swap{Provider: models.ProviderPrivatbank, Amount: 12.345, From: "UAH", To: "EUR"}, swap)
}

func TestEncodeSwap_ExtremeAmounts(t *testing.T) {
	for _, amount := range []float64{
		1e100,
		1e-30,
		123456789.123456789,
		1000000,
		math.MaxFloat64,
		math.SmallestNonzeroFloat64,
		2.2250738585072014e-308,
	} {
		data := EncodeSwap(models.ProviderPrivatbank, amount, "UAH", "USD")
		assert.LessOrEqual(t, len(data), MaxActionData, data)

		swap, err := DecodeSwap(data)
		require.NoError(t, err, data)
		assert.Equal(t, amount, swap.Amount, data)
	}
}

func TestDecodeSwap_Malformed(t *testing.T) {
	for _, data := range []string{
		"",
		"swap_currencies",
		"swap|monobank|1|USD",
		"rates|monobank|1|USD|UAH",
		"swap|nbu|1|USD|UAH",
		"swap|monobank|zero|USD|UAH",
		"swap|monobank|1|BTC|UAH",
	} {
		_, err := DecodeSwap(data)
		assert.ErrorIs(t, err, ErrMalformedAction, data)
	}
}
