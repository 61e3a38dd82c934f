// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discovery exposes the two outward operations of the pipeline:
// a filtered search over the channel cache and an aggregated web search.
// Both return rendered text plus structured data and never fail.
package discovery

import (
	"context"

	"go.uber.org/zap"

	"github.com/pdiddy/talent-radar/internal/present"
	"github.com/pdiddy/talent-radar/internal/search"
	"github.com/pdiddy/talent-radar/pkg/types"
)

// ChannelSearcher is the part of ingest.Cache the service uses.
type ChannelSearcher interface {
	Search(ctx context.Context, f types.Filters) ([]types.CandidateRecord, error)
	ChannelURL() string
}

// WebSearcher is the part of search.Aggregator the service uses.
type WebSearcher interface {
	Search(ctx context.Context, rawQuery string, backends []types.BackendDescriptor) search.Output
}

// IngestResult is the outcome of IngestSearch.
type IngestResult struct {
	Text      string                  `json:"text"`
	Count     int                     `json:"count"`
	Records   []types.CandidateRecord `json:"records"`
	Available bool                    `json:"available"`
}

// WebResult is the outcome of WebSearch.
type WebResult struct {
	Text             string                   `json:"text"`
	Query            string                   `json:"query"`
	Count            int                      `json:"count"`
	PerBackendCounts map[string]int           `json:"per_backend_counts"`
	Items            []types.SearchResultItem `json:"items"`
	Available        bool                     `json:"available"`

	// Output is the full aggregator result, for callers that save it.
	Output search.Output `json:"-"`
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCandidateOptions sets how channel results are rendered.
func WithCandidateOptions(o present.CandidateOptions) Option {
	return func(s *Service) { s.candidateOpts = o }
}

// WithWebOptions sets how web results are rendered.
func WithWebOptions(o present.WebOptions) Option {
	return func(s *Service) { s.webOpts = o }
}

// Service composes the channel cache, the aggregator and the presenter.
type Service struct {
	channel       ChannelSearcher
	web           WebSearcher
	log           *zap.Logger
	candidateOpts present.CandidateOptions
	webOpts       present.WebOptions
}

// New returns a Service. Either searcher may be nil when its collaborator is
// not configured; the matching operation then reports itself unavailable.
func New(channel ChannelSearcher, web WebSearcher, opts ...Option) *Service {
	s := &Service{channel: channel, web: web, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestSearch searches the channel cache.
func (s *Service) IngestSearch(ctx context.Context, f types.Filters) IngestResult {
	if s.channel == nil {
		s.log.Info("channel search unavailable")
		return IngestResult{
			Text:    present.Unavailable("Channel search", present.ChannelInstructions("https://t.me/<channel>")),
			Records: []types.CandidateRecord{},
		}
	}

	records, err := s.channel.Search(ctx, f)
	if err != nil {
		s.log.Warn("channel search aborted", zap.Error(err))
		records = []types.CandidateRecord{}
	}

	opts := s.candidateOpts
	if opts.Source == "" {
		opts.Source = s.channel.ChannelURL()
	}
	s.log.Info("channel search finished", zap.Int("records", len(records)))
	return IngestResult{
		Text:      present.Candidates(records, f, opts),
		Count:     len(records),
		Records:   records,
		Available: true,
	}
}

// WebSearch runs query against every configured backend.
func (s *Service) WebSearch(ctx context.Context, query string) WebResult {
	if s.web == nil {
		s.log.Info("web search unavailable")
		return WebResult{
			Text:             present.Unavailable("Web search", present.SearchInstructions()),
			Query:            query,
			PerBackendCounts: map[string]int{},
			Items:            []types.SearchResultItem{},
		}
	}

	out := s.web.Search(ctx, query, nil)
	return WebResult{
		Text:             present.WebResults(out, s.webOpts),
		Query:            out.Query,
		Count:            len(out.Items),
		PerBackendCounts: out.PerBackendCounts,
		Items:            out.Items,
		Available:        true,
		Output:           out,
	}
}
