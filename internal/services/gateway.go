package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sbilibin2017/gw-currency-bot/internal/logger"
	"github.com/sbilibin2017/gw-currency-bot/internal/metrics"
	"github.com/sbilibin2017/gw-currency-bot/internal/models"
)

var (
	// ErrRatesUnavailable means the provider feed could not be fetched or decoded.
	ErrRatesUnavailable = errors.New("rates unavailable")
	// ErrUnknownProvider means no fetcher is registered for the requested source.
	ErrUnknownProvider = errors.New("unknown rate provider")
)

// DefaultRatesTTL is how long a fetched table is served from cache.
const DefaultRatesTTL = 900 * time.Second

//go:generate mockgen -source=gateway.go -destination=gateway_mock.go -package=services

// RateFetcher downloads a provider's full rate table.
type RateFetcher interface {
	Provider() models.Provider
	FetchRates(ctx context.Context) (models.RateTable, error)
}

// RateCache stores the last successful table per provider.
// Get returns nil, nil when nothing is cached.
type RateCache interface {
	Get(ctx context.Context, p models.Provider) (*models.RateCacheEntry, error)
	Set(ctx context.Context, entry models.RateCacheEntry) error
}

// FetchRecorder counts rate table lookups.
type FetchRecorder interface {
	ObserveRateFetch(provider, result string)
}

// RateGateway serves provider rate tables through a time-based cache.
type RateGateway struct {
	fetchers map[models.Provider]RateFetcher
	cache    RateCache
	ttl      time.Duration
	recorder FetchRecorder
	now      func() time.Time
	inflight singleflight.Group
}

// NewRateGateway creates a gateway over the given fetchers, one per provider.
func NewRateGateway(
	cache RateCache,
	ttl time.Duration,
	recorder FetchRecorder,
	fetchers ...RateFetcher,
) *RateGateway {
	if ttl <= 0 {
		ttl = DefaultRatesTTL
	}
	g := &RateGateway{
		fetchers: make(map[models.Provider]RateFetcher, len(fetchers)),
		cache:    cache,
		ttl:      ttl,
		recorder: recorder,
		now:      time.Now,
	}
	for _, f := range fetchers {
		g.fetchers[f.Provider()] = f
	}
	return g
}

// FetchBySource resolves a provider by name and fetches its table.
func (g *RateGateway) FetchBySource(ctx context.Context, name string, useCache bool) (models.RateTable, error) {
	p, ok := models.ParseProvider(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	return g.Fetch(ctx, p, useCache)
}

// Fetch returns the provider's table. With useCache a table younger than the
// TTL is returned without a network call. Failed fetches leave the cache as is
// and return ErrRatesUnavailable.
func (g *RateGateway) Fetch(ctx context.Context, p models.Provider, useCache bool) (models.RateTable, error) {
	fetcher, ok := g.fetchers[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, p)
	}

	if useCache {
		if table, ok := g.cached(ctx, p); ok {
			g.recorder.ObserveRateFetch(p.String(), metrics.FetchCacheHit)
			return table, nil
		}
	}

	// Concurrent refreshes of one provider share a single request. Cached and
	// fresh reads fly separately so a fresh read always reaches the network.
	// The shared fetch outlives the caller that started it; the fetcher's
	// client timeout bounds it.
	key := p.String() + "|" + strconv.FormatBool(useCache)
	ch := g.inflight.DoChan(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		if useCache {
			if table, ok := g.cached(fetchCtx, p); ok {
				return table, nil
			}
		}
		return g.refresh(fetchCtx, fetcher)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w: %w", p, ErrRatesUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(models.RateTable), nil
	}
}

func (g *RateGateway) cached(ctx context.Context, p models.Provider) (models.RateTable, bool) {
	entry, err := g.cache.Get(ctx, p)
	if err != nil {
		logger.Log.Warnw("rate cache unavailable, fetching from provider", "provider", p.String(), "error", err)
		return nil, false
	}
	if entry == nil || !entry.Fresh(g.now(), g.ttl) {
		return nil, false
	}
	return entry.Table, true
}

func (g *RateGateway) refresh(ctx context.Context, fetcher RateFetcher) (models.RateTable, error) {
	p := fetcher.Provider()

	table, err := fetcher.FetchRates(ctx)
	if err == nil && len(table) == 0 {
		err = errors.New("empty rate table")
	}
	if err != nil {
		g.recorder.ObserveRateFetch(p.String(), metrics.FetchFailed)
		logger.Log.Errorw("rate fetch failed", "provider", p.String(), "error", err)
		return nil, fmt.Errorf("%s: %w: %w", p, ErrRatesUnavailable, err)
	}

	g.recorder.ObserveRateFetch(p.String(), metrics.FetchNetwork)
	entry := models.RateCacheEntry{Provider: p, Table: table, FetchedAt: g.now()}
	if err := g.cache.Set(ctx, entry); err != nil {
		logger.Log.Errorw("failed to cache rates", "provider", p.String(), "error", err)
	}

	logger.Log.Infow("rates refreshed", "provider", p.String(), "quotes", len(table))
	return table, nil
}
