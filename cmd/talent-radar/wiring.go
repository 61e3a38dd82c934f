// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/talent-radar/internal/discovery"
	"github.com/pdiddy/talent-radar/internal/extract"
	"github.com/pdiddy/talent-radar/internal/ingest"
	"github.com/pdiddy/talent-radar/internal/search"
	"github.com/pdiddy/talent-radar/internal/store"
	"github.com/pdiddy/talent-radar/internal/telegram"
	"github.com/pdiddy/talent-radar/pkg/types"
)

// newCache returns the channel cache, or nil when no channel is configured.
// A non-nil st receives every refreshed batch.
func newCache(cfg types.AppConfig, st *store.Store) *ingest.Cache {
	if cfg.Channel.Username == "" {
		return nil
	}
	opts := []ingest.Option{ingest.WithLogger(logger.Named("ingest"))}
	if st != nil {
		opts = append(opts, ingest.WithRefreshHook(saveHook(st)))
	}
	reader := telegram.NewFeedReader(cfg.Channel, logger.Named("telegram"))
	return ingest.New(reader, extract.New(cfg.Extract), cfg.Channel, opts...)
}

func saveHook(st *store.Store) ingest.RefreshHook {
	return func(ctx context.Context, records []types.CandidateRecord) {
		sum, err := st.Save(ctx, records)
		if err != nil {
			logger.Warn("saving candidates failed", zap.Error(err))
			return
		}
		logger.Info("candidates saved",
			zap.Int("inserted", sum.Inserted),
			zap.Int("updated", sum.Updated),
			zap.Int("skipped", sum.Skipped))
	}
}

// newAggregator returns the web aggregator, or nil when the selected
// transport lacks credentials.
func newAggregator(cfg types.AppConfig) (*search.Aggregator, error) {
	tr, err := search.NewTransport(cfg.Search)
	if errors.Is(err, types.ErrConfigurationMissing) {
		logger.Warn("web search not configured", zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return search.New(tr, cfg.Search, logger.Named("search")), nil
}

// newService composes the outward operations. Nil collaborators stay
// untyped nils so the service reports them unavailable.
func newService(cache *ingest.Cache, agg *search.Aggregator) *discovery.Service {
	var ch discovery.ChannelSearcher
	if cache != nil {
		ch = cache
	}
	var web discovery.WebSearcher
	if agg != nil {
		web = agg
	}
	return discovery.New(ch, web, discovery.WithLogger(logger.Named("discovery")))
}

func openStore(cfg types.AppConfig) (*store.Store, error) {
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening candidate store: %w", err)
	}
	return st, nil
}
