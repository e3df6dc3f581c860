package collector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"MarketBulletin/internal/config"
	"MarketBulletin/internal/model"
)

// Source ids.
const (
	SourceFIIDII      = "groww-fii-dii"
	SourceGold        = "goodreturns-gold"
	SourceSilver      = "goodreturns-silver"
	SourceNews        = "moneycontrol-news"
	SourceOptionChain = "nse-option-chain"
	SourceYahoo       = "yahoo-chart"
)

// Query narrows a fetch for sources that serve more than one series.
type Query struct {
	Symbol   string
	Interval string
	Range    string
}

// Fetcher retrieves one source and returns its rows unparsed.
// Implementations must not retry; callers apply a RetryPolicy.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]model.RawRow, error)
}

// Registry dispatches fetches by source id and applies the shared retry policy.
type Registry struct {
	Retry RetryPolicy

	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// NewRegistry creates an empty registry.
func NewRegistry(retry RetryPolicy) *Registry {
	return &Registry{Retry: retry, fetchers: make(map[string]Fetcher)}
}

// Register adds f under f.Name(), replacing any previous fetcher with that id.
func (r *Registry) Register(f Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchers[f.Name()] = f
}

// Get returns the fetcher registered under id.
func (r *Registry) Get(id string) (Fetcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fetchers[id]
	return f, ok
}

// Names lists the registered source ids in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.fetchers))
	for n := range r.fetchers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Fetch runs the fetcher registered under id with the registry's retry policy.
func (r *Registry) Fetch(ctx context.Context, id string, q Query) ([]model.RawRow, error) {
	f, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, id)
	}
	name := id
	if q.Symbol != "" {
		name = id + ":" + q.Symbol
	}
	return Retry(ctx, r.Retry, name, func(ctx context.Context) ([]model.RawRow, error) {
		return f.Fetch(ctx, q)
	})
}

// NewDefaultRegistry registers every built-in source configured in cfg.
func NewDefaultRegistry(cfg *config.Config) *Registry {
	r := NewRegistry(NewRetryPolicy(cfg.Retry.MaxAttempts, cfg.Retry.InitialDelay))
	ua, proxy := cfg.HTTP.UserAgent, cfg.Proxy
	s := cfg.Sources
	r.Register(NewGrowwFlowFetcher(s.FIIDII, ua, proxy))
	r.Register(NewGoldFetcher(s.Gold, ua, proxy))
	r.Register(NewSilverFetcher(s.Silver, ua, proxy))
	r.Register(NewNewsFetcher(s.News, ua, proxy))
	r.Register(NewOptionChainFetcher(s.OptionChain, ua, proxy))
	r.Register(NewYahooFetcher(s.Yahoo, ua, proxy))
	return r
}
