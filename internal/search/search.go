// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search fans one candidate query out to several job boards through
// a web search transport and merges the per-board results in priority
// order. A failing board never affects the others.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/talent-radar/internal/httputil"
	"github.com/pdiddy/talent-radar/pkg/types"
)

const (
	DefaultLocale            = "ru-ru"
	DefaultResultsPerBackend = 10
	DefaultBackendTimeout    = 15 * time.Second
)

// Transport runs one scoped query against a web search engine and returns
// its hits in rank order.
type Transport interface {
	Name() string
	Query(ctx context.Context, backendQuery, locale string, count int) ([]types.Hit, error)
}

// NewTransport builds the transport selected by cfg.Transport. Google
// without an API key and engine id returns types.ErrConfigurationMissing.
func NewTransport(cfg types.SearchConfig) (Transport, error) {
	client := httputil.NewClient(cfg.HTTPConfig)
	agent := httputil.UserAgent(cfg.HTTPConfig)

	switch strings.ToLower(cfg.Transport) {
	case "", types.TransportDuckDuckGo:
		return &DuckDuckGoTransport{Client: client, UserAgent: agent}, nil
	case types.TransportGoogle:
		if cfg.GoogleAPIKey == "" || cfg.GoogleCX == "" {
			return nil, fmt.Errorf("google transport needs an API key and engine id: %w", types.ErrConfigurationMissing)
		}
		return &GoogleTransport{Client: client, UserAgent: agent, APIKey: cfg.GoogleAPIKey, CX: cfg.GoogleCX}, nil
	default:
		return nil, fmt.Errorf("unknown search transport %q", cfg.Transport)
	}
}

// Outcome is the settled result of one backend request.
type Outcome struct {
	Backend types.BackendDescriptor
	Query   string
	Items   []types.SearchResultItem
	Err     error
	Elapsed time.Duration
}

// Output is the merged result of one aggregated search.
type Output struct {
	// Query is the normalized query sent to every backend.
	Query string
	// Items are all backends' results in backend order, without dedup.
	Items []types.SearchResultItem
	// PerBackendCounts maps every queried backend name to its item count.
	PerBackendCounts map[string]int
	// Outcomes holds one entry per backend, in backend order.
	Outcomes []Outcome
}

// Failed returns the outcomes that ended in an error.
func (o Output) Failed() []Outcome {
	var out []Outcome
	for _, oc := range o.Outcomes {
		if oc.Err != nil {
			out = append(out, oc)
		}
	}
	return out
}

// Aggregator runs a query against every backend concurrently.
type Aggregator struct {
	transport Transport
	cfg       types.SearchConfig
	log       *zap.Logger
}

// New returns an Aggregator over transport. Zero config values take the
// package defaults.
func New(transport Transport, cfg types.SearchConfig, log *zap.Logger) *Aggregator {
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	if cfg.ResultsPerBackend <= 0 {
		cfg.ResultsPerBackend = DefaultResultsPerBackend
	}
	if cfg.BackendTimeout <= 0 {
		cfg.BackendTimeout = DefaultBackendTimeout
	}
	if len(cfg.Backends) == 0 {
		cfg.Backends = types.DefaultBackends
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{transport: transport, cfg: cfg, log: log}
}

// Backends returns the configured backend order.
func (a *Aggregator) Backends() []types.BackendDescriptor {
	return append([]types.BackendDescriptor(nil), a.cfg.Backends...)
}

// Search normalizes rawQuery and sends it to each backend, scoped to the
// backend's domain. A nil backends slice selects the configured list.
//
// Every backend runs in its own goroutine under its own timeout, detached
// from ctx's cancellation, and Search returns only after all of them have
// settled. Failures and panics are recorded in the backend's Outcome and
// contribute a zero count.
func (a *Aggregator) Search(ctx context.Context, rawQuery string, backends []types.BackendDescriptor) Output {
	if backends == nil {
		backends = a.cfg.Backends
	}
	query := NormalizeQuery(rawQuery)
	start := time.Now()

	outcomes := make([]Outcome, len(backends))
	base := context.WithoutCancel(ctx)

	var g errgroup.Group
	for i, b := range backends {
		outcomes[i] = Outcome{Backend: b, Query: ScopedQuery(query, b.Domain)}
		if strings.TrimSpace(query) == "" {
			outcomes[i].Err = fmt.Errorf("empty query: %w", types.ErrMalformedInput)
			continue
		}
		g.Go(func() error {
			a.run(base, &outcomes[i])
			return nil
		})
	}
	g.Wait()

	out := Output{
		Query:            query,
		Items:            []types.SearchResultItem{},
		PerBackendCounts: make(map[string]int, len(backends)),
		Outcomes:         outcomes,
	}
	for _, oc := range outcomes {
		out.PerBackendCounts[oc.Backend.Name] += len(oc.Items)
		out.Items = append(out.Items, oc.Items...)
		if oc.Err != nil {
			a.log.Warn("backend failed",
				zap.String("backend", oc.Backend.Name),
				zap.Duration("elapsed", oc.Elapsed),
				zap.Error(oc.Err))
		}
	}

	a.log.Info("web search finished",
		zap.String("query", query),
		zap.String("transport", a.transportName()),
		zap.Int("backends", len(backends)),
		zap.Int("failed", len(out.Failed())),
		zap.Int("items", len(out.Items)),
		zap.Duration("elapsed", time.Since(start)))
	return out
}

// run settles one backend into oc. It never panics.
func (a *Aggregator) run(ctx context.Context, oc *Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			oc.Items = nil
			oc.Err = fmt.Errorf("backend %s panicked: %v: %w", oc.Backend.Name, r, types.ErrBackendFailure)
		}
		oc.Elapsed = time.Since(start)
	}()

	if a.transport == nil {
		oc.Err = fmt.Errorf("no search transport: %w", types.ErrConfigurationMissing)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, a.cfg.BackendTimeout)
	defer cancel()

	hits, err := a.transport.Query(ctx, oc.Query, a.cfg.Locale, a.cfg.ResultsPerBackend)
	if err != nil {
		if !errors.Is(err, types.ErrBackendFailure) && !errors.Is(err, types.ErrConfigurationMissing) {
			err = fmt.Errorf("%w: %w", types.ErrBackendFailure, err)
		}
		oc.Err = err
		return
	}

	items := make([]types.SearchResultItem, 0, len(hits))
	for _, h := range hits {
		items = append(items, types.SearchResultItem{
			SourceName:   oc.Backend.Name,
			SourceDomain: oc.Backend.Domain,
			SourceIcon:   oc.Backend.Icon,
			Title:        h.Title,
			Snippet:      h.Snippet,
			Link:         h.Link,
		})
	}
	oc.Items = items
}

func (a *Aggregator) transportName() string {
	if a.transport == nil {
		return "none"
	}
	return a.transport.Name()
}
