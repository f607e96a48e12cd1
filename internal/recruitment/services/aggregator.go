package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-recruiter/pkg/config"
	"go-recruiter/pkg/evegateway"
	"go-recruiter/pkg/sde"
)

const pricesKey = "market:prices"

// FetchError means the data the caller asked for could not be loaded.
// Authorization failures stay reachable through errors.As(*evegateway.ScopeError).
type FetchError struct {
	Domain string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Domain, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func fetchError(domain string, err error) error {
	return &FetchError{Domain: domain, Err: err}
}

// Options tunes an Aggregator.
type Options struct {
	CacheTime         int
	PriceCacheMinutes int
	Concurrency       int
	RemoteTypes       bool
}

func OptionsFromSettings(s *config.AggregatorSettings) Options {
	return Options{
		CacheTime:         s.CacheTime,
		PriceCacheMinutes: s.PriceCacheMinutes,
		Concurrency:       s.Concurrency,
		RemoteTypes:       s.TypeRemoteFallback,
	}
}

// Aggregator assembles presentation ready character data out of ESI calls.
type Aggregator struct {
	esi   *evegateway.Client
	store Store
	names *NameResolver
	opts  Options
	now   func() time.Time
}

func NewAggregator(esi *evegateway.Client, store Store, ref sde.Reader, opts Options) *Aggregator {
	if opts.CacheTime < 1 {
		opts.CacheTime = 3264
	}
	if opts.PriceCacheMinutes < 1 {
		opts.PriceCacheMinutes = 60
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 5
	}
	return &Aggregator{
		esi:   esi,
		store: store,
		names: NewNameResolver(esi, store, ref, ResolverOptions{
			TTL:         opts.CacheTime,
			RemoteTypes: opts.RemoteTypes,
			Concurrency: opts.Concurrency,
		}),
		opts: opts,
		now:  time.Now,
	}
}

// Names exposes the resolver shared by all assemblers.
func (a *Aggregator) Names() *NameResolver {
	return a.names
}

// PriceTable maps type ids to a unit price.
type PriceTable map[int32]float64

// Price returns zero for unknown types.
func (p PriceTable) Price(typeID int32) float64 {
	return p[typeID]
}

// prices returns the cached price table, loading it on a miss. A failed load
// degrades to an empty table so that values show as zero.
func (a *Aggregator) prices(ctx context.Context) PriceTable {
	var table PriceTable
	if ok, err := a.store.Get(ctx, pricesKey, &table); err == nil && ok {
		return table
	}
	table, err := a.loadPrices(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Market prices unavailable", "error", err)
		return PriceTable{}
	}
	if err := a.store.Add(ctx, pricesKey, table, a.opts.PriceCacheMinutes); err != nil {
		slog.WarnContext(ctx, "Failed to cache market prices", "error", err)
	}
	return table
}

func (a *Aggregator) loadPrices(ctx context.Context) (PriceTable, error) {
	resp, err := a.esi.GetMarketPrices(ctx)
	if err != nil {
		return nil, err
	}
	table := make(PriceTable, len(resp.Data))
	for _, p := range resp.Data {
		price := p.AveragePrice
		if price == 0 {
			price = p.AdjustedPrice
		}
		table[p.TypeID] = price
	}
	return table, nil
}

// PricesCached reports whether a price table is currently held in the store.
func (a *Aggregator) PricesCached(ctx context.Context) (bool, error) {
	return a.store.Has(ctx, pricesKey)
}

// WarmPrices replaces the cached price table with a fresh one.
func (a *Aggregator) WarmPrices(ctx context.Context) error {
	table, err := a.loadPrices(ctx)
	if err != nil {
		return fmt.Errorf("failed to load market prices: %w", err)
	}
	if err := a.store.Put(ctx, pricesKey, table, a.opts.PriceCacheMinutes); err != nil {
		return fmt.Errorf("failed to cache market prices: %w", err)
	}
	slog.InfoContext(ctx, "Market prices refreshed", "types", len(table))
	return nil
}
