package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-currency-bot/internal/metrics"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
	"github.com/sbilibin2017/gw-currency-bot/internal/repositories"
)

func monoTable() models.RateTable {
	return models.RateTable{
		{CurrencyA: "USD", CurrencyB: "UAH", Buy: models.Float(40.0), Sell: models.Float(40.5)},
		{CurrencyA: "EUR", CurrencyB: "UAH", Buy: models.Float(43.1), Sell: models.Float(43.8)},
		{CurrencyA: "GBP", CurrencyB: "USD", Cross: models.Float(1.27)},
	}
}

func newFetcher(ctrl *gomock.Controller, p models.Provider) *MockRateFetcher {
	f := NewMockRateFetcher(ctrl)
	f.EXPECT().Provider().Return(p).AnyTimes()
	return f
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestGateway(cache RateCache, fetchers ...RateFetcher) (*RateGateway, *fakeClock, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	g := NewRateGateway(cache, DefaultRatesTTL, m, fetchers...)
	g.now = clock.Now
	return g, clock, m
}

func TestRateGateway_Fetch_CachedWithinTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mono := newFetcher(ctrl, models.ProviderMonobank)
	mono.EXPECT().FetchRates(gomock.Any()).Return(monoTable(), nil).Times(1)

	g, clock, m := newTestGateway(repositories.NewRateMemoryCache(), mono)

	first, err := g.Fetch(ctx, models.ProviderMonobank, true)
	require.NoError(t, err)

	clock.Advance(DefaultRatesTTL - time.Second)
	second, err := g.Fetch(ctx, models.ProviderMonobank, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateFetchesTotal.WithLabelValues("monobank", metrics.FetchNetwork)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateFetchesTotal.WithLabelValues("monobank", metrics.FetchCacheHit)))
}

func TestRateGateway_Fetch_StaleAfterTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mono := newFetcher(ctrl, models.ProviderMonobank)
	mono.EXPECT().FetchRates(gomock.Any()).Return(monoTable(), nil).Times(2)

	g, clock, _ := newTestGateway(repositories.NewRateMemoryCache(), mono)

	_, err := g.Fetch(ctx, models.ProviderMonobank, true)
	require.NoError(t, err)

	clock.Advance(DefaultRatesTTL)
	_, err = g.Fetch(ctx, models.ProviderMonobank, true)
	require.NoError(t, err)
}

func TestRateGateway_Fetch_BypassCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mono := newFetcher(ctrl, models.ProviderMonobank)
	mono.EXPECT().FetchRates(gomock.Any()).Return(monoTable(), nil).Times(2)

	g, _, _ := newTestGateway(repositories.NewRateMemoryCache(), mono)

	_, err := g.Fetch(ctx, models.ProviderMonobank, true)
	require.NoError(t, err)
	_, err = g.Fetch(ctx, models.ProviderMonobank, false)
	require.NoError(t, err)
}

func TestRateGateway_Fetch_FailureKeepsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	cache := repositories.NewRateMemoryCache()
	mono := newFetcher(ctrl, models.ProviderMonobank)
	gomock.InOrder(
		mono.EXPECT().FetchRates(gomock.Any()).Return(monoTable(), nil),
		mono.EXPECT().FetchRates(gomock.Any()).Return(nil, errors.New("connection refused")),
		mono.EXPECT().FetchRates(gomock.Any()).Return(models.RateTable{}, nil),
	)

	g, clock, m := newTestGateway(cache, mono)
	fetchedAt := clock.Now()

	_, err := g.Fetch(ctx, models.ProviderMonobank, true)
	require.NoError(t, err)

	clock.Advance(DefaultRatesTTL)
	table, err := g.Fetch(ctx, models.ProviderMonobank, true)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, ErrRatesUnavailable)

	// an empty payload is a failure too
	table, err = g.Fetch(ctx, models.ProviderMonobank, false)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, ErrRatesUnavailable)

	entry, err := cache.Get(ctx, models.ProviderMonobank)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, fetchedAt, entry.FetchedAt)
	assert.Equal(t, monoTable(), entry.Table)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RateFetchesTotal.WithLabelValues("monobank", metrics.FetchFailed)))
}

func TestRateGateway_Fetch_CacheErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	cache := NewMockRateCache(ctrl)
	mono := newFetcher(ctrl, models.ProviderMonobank)

	cache.EXPECT().Get(gomock.Any(), models.ProviderMonobank).Return(nil, errors.New("redis down")).Times(2)
	mono.EXPECT().FetchRates(gomock.Any()).Return(monoTable(), nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	g, _, _ := newTestGateway(cache, mono)

	table, err := g.Fetch(ctx, models.ProviderMonobank, true)
	require.NoError(t, err)
	assert.Equal(t, monoTable(), table)
}

func TestRateGateway_FetchBySource(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	privatTable := models.RateTable{
		{CurrencyA: "USD", CurrencyB: "UAH", Buy: models.Float(39.9), Sell: models.Float(40.6)},
	}
	mono := newFetcher(ctrl, models.ProviderMonobank)
	privat := newFetcher(ctrl, models.ProviderPrivatbank)
	privat.EXPECT().FetchRates(gomock.Any()).Return(privatTable, nil)

	g, _, _ := newTestGateway(repositories.NewRateMemoryCache(), mono, privat)

	table, err := g.FetchBySource(ctx, "PrivatBank", true)
	require.NoError(t, err)
	assert.Equal(t, privatTable, table)

	table, err = g.FetchBySource(ctx, "nbu", true)
	assert.Nil(t, table)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestRateGateway_Fetch_Concurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mono := newFetcher(ctrl, models.ProviderMonobank)
	mono.EXPECT().FetchRates(gomock.Any()).Return(monoTable(), nil).Times(1)

	g, _, _ := newTestGateway(repositories.NewRateMemoryCache(), mono)
	_, err := g.Fetch(ctx, models.ProviderMonobank, true)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table, err := g.Fetch(ctx, models.ProviderMonobank, true)
			assert.NoError(t, err)
			assert.Len(t, table, 3)
		}()
	}
	wg.Wait()
}

func TestRateGateway_Fetch_BypassDoesNotJoinCachedFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started, release := make(chan struct{}), make(chan struct{})
	mono := newFetcher(ctrl, models.ProviderMonobank)
	gomock.InOrder(
		mono.EXPECT().FetchRates(gomock.Any()).DoAndReturn(func(context.Context) (models.RateTable, error) {
			close(started)
			<-release
			return monoTable(), nil
		}),
		mono.EXPECT().FetchRates(gomock.Any()).Return(monoTable()[:1], nil),
	)

	g, _, _ := newTestGateway(repositories.NewRateMemoryCache(), mono)

	cachedDone := make(chan error, 1)
	go func() {
		_, err := g.Fetch(context.Background(), models.ProviderMonobank, true)
		cachedDone <- err
	}()
	<-started

	freshDone := make(chan models.RateTable, 1)
	go func() {
		table, err := g.Fetch(context.Background(), models.ProviderMonobank, false)
		assert.NoError(t, err)
		freshDone <- table
	}()

	select {
	case table := <-freshDone:
		assert.Len(t, table, 1)
	case <-time.After(5 * time.Second):
		close(release)
		t.Fatal("fresh fetch waited for the cached fetch")
	}

	close(release)
	require.NoError(t, <-cachedDone)
}

func TestRateGateway_Fetch_OutlivesCancelledCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started, release := make(chan struct{}), make(chan struct{})
	mono := newFetcher(ctrl, models.ProviderMonobank)
	mono.EXPECT().FetchRates(gomock.Any()).DoAndReturn(func(ctx context.Context) (models.RateTable, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return monoTable(), nil
	}).Times(1)

	cache := repositories.NewRateMemoryCache()
	g, _, _ := newTestGateway(cache, mono)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := g.Fetch(ctx, models.ProviderMonobank, true)
		errCh <- err
	}()
	<-started

	cancel()
	err := <-errCh
	assert.ErrorIs(t, err, ErrRatesUnavailable)
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		entry, err := cache.Get(context.Background(), models.ProviderMonobank)
		return err == nil && entry != nil
	}, 5*time.Second, 10*time.Millisecond)

	table, err := g.Fetch(context.Background(), models.ProviderMonobank, true)
	require.NoError(t, err)
	assert.Len(t, table, 3)
}
