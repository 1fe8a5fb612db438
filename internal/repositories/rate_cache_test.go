package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sbilibin2017/gw-currency-bot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() models.RateTable {
	return models.RateTable{
		{CurrencyA: "USD", CurrencyB: "UAH", Buy: models.Float(40), Sell: models.Float(40.5)},
		{CurrencyA: "GBP", CurrencyB: "UAH", Cross: models.Float(52.1)},
	}
}

func TestRateMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewRateMemoryCache()

	got, err := cache.Get(ctx, models.ProviderMonobank)
	require.NoError(t, err)
	assert.Nil(t, got)

	fetchedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	entry := models.RateCacheEntry{Provider: models.ProviderMonobank, Table: sampleTable(), FetchedAt: fetchedAt}
	require.NoError(t, cache.Set(ctx, entry))

	got, err = cache.Get(ctx, models.ProviderMonobank)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry, *got)

	other, err := cache.Get(ctx, models.ProviderPrivatbank)
	require.NoError(t, err)
	assert.Nil(t, other)

	replaced := models.RateCacheEntry{Provider: models.ProviderMonobank, Table: sampleTable()[:1], FetchedAt: fetchedAt.Add(time.Hour)}
	require.NoError(t, cache.Set(ctx, replaced))
	got, _ = cache.Get(ctx, models.ProviderMonobank)
	assert.Len(t, got.Table, 1)
}

func TestRateMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	cache := NewRateMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = cache.Set(ctx, models.RateCacheEntry{Provider: models.ProviderPrivatbank, Table: sampleTable(), FetchedAt: time.Now()})
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(ctx, models.ProviderPrivatbank)
		}()
	}
	wg.Wait()

	got, err := cache.Get(ctx, models.ProviderPrivatbank)
	require.NoError(t, err)
	assert.Len(t, got.Table, 2)
}

func TestRateCacheRepository(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()

	repo := NewRateCacheRepository(rdb, 2*time.Second)

	t.Run("Set and Get rate table", func(t *testing.T) {
		entry := models.RateCacheEntry{
			Provider:  models.ProviderMonobank,
			Table:     sampleTable(),
			FetchedAt: time.Now().UTC().Truncate(time.Second),
		}

		require.NoError(t, repo.Set(ctx, entry))

		got, err := repo.Get(ctx, models.ProviderMonobank)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, entry.FetchedAt.Equal(got.FetchedAt))
		assert.Equal(t, entry.Table, got.Table)
	})

	t.Run("Get missing key returns nil", func(t *testing.T) {
		got, err := repo.Get(ctx, models.ProviderPrivatbank)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Cached value expires", func(t *testing.T) {
		entry := models.RateCacheEntry{Provider: models.ProviderPrivatbank, Table: sampleTable(), FetchedAt: time.Now()}
		require.NoError(t, repo.Set(ctx, entry))

		time.Sleep(3 * time.Second)

		got, err := repo.Get(ctx, models.ProviderPrivatbank)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}
