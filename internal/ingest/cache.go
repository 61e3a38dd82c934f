// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest keeps a lazily refreshed cache of candidate records parsed
// from a message channel and answers filtered searches over it.
package ingest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/talent-radar/internal/extract"
	"github.com/pdiddy/talent-radar/pkg/types"
)

const (
	DefaultPageSize   = 10
	DefaultStaleAfter = time.Hour
	DefaultBaseURL    = "https://t.me"
)

// ChannelReader returns the most recent messages of a channel, newest first.
// It may fail or return nothing; neither is fatal to the cache.
type ChannelReader interface {
	RecentMessages(ctx context.Context, channel string, limit int) ([]types.ChannelMessage, error)
}

// State is the cache lifecycle state.
type State int

const (
	// Cold means no refresh has succeeded yet.
	Cold State = iota
	// Warm means the cache holds the result of a successful refresh.
	Warm
)

func (s State) String() string {
	if s == Warm {
		return "warm"
	}
	return "cold"
}

// Snapshot is an immutable view of the cache slot.
type Snapshot struct {
	Records     []types.CandidateRecord
	RefreshedAt time.Time
}

// Age returns how old the snapshot is at now, or 0 when it was never filled.
func (s Snapshot) Age(now time.Time) time.Duration {
	if s.RefreshedAt.IsZero() {
		return 0
	}
	return now.Sub(s.RefreshedAt)
}

// RefreshHook observes every successful refresh.
type RefreshHook func(ctx context.Context, records []types.CandidateRecord)

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithRefreshHook registers a callback run after each successful refresh.
func WithRefreshHook(h RefreshHook) Option {
	return func(c *Cache) { c.hooks = append(c.hooks, h) }
}

// Cache owns the records parsed from one channel. The slot is replaced
// wholesale on refresh and never mutated in place.
type Cache struct {
	reader    ChannelReader
	extractor *extract.Extractor
	cfg       types.ChannelConfig
	log       *zap.Logger
	now       func() time.Time
	hooks     []RefreshHook

	// refreshMu serializes refreshes; mu guards the slot.
	refreshMu sync.Mutex
	mu        sync.RWMutex
	snap      Snapshot
}

// New returns a Cold cache over reader. A nil reader is allowed: every
// refresh then degrades to a no-op.
func New(reader ChannelReader, extractor *extract.Extractor, cfg types.ChannelConfig, opts ...Option) *Cache {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultStaleAfter
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.Username = strings.TrimPrefix(cfg.Username, "@")
	if extractor == nil {
		extractor = extract.New(types.ExtractConfig{})
	}

	c := &Cache{
		reader:    reader,
		extractor: extractor,
		cfg:       cfg,
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(zap.String("channel", cfg.Username))
	return c
}

// Channel returns the channel name the cache reads.
func (c *Cache) Channel() string { return c.cfg.Username }

// ChannelURL returns the public link of the channel.
func (c *Cache) ChannelURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/" + c.cfg.Username
}

// Snapshot returns a copy of the current slot.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	snap.Records = cloneRecords(snap.Records)
	return snap
}

// view returns the slot itself for read-only use inside the package.
func (c *Cache) view() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

func cloneRecord(r types.CandidateRecord) types.CandidateRecord {
	r.Skills = slices.Clone(r.Skills)
	return r
}

func cloneRecords(records []types.CandidateRecord) []types.CandidateRecord {
	if records == nil {
		return nil
	}
	out := make([]types.CandidateRecord, len(records))
	for i, r := range records {
		out[i] = cloneRecord(r)
	}
	return out
}

// State reports whether a refresh has succeeded since construction or Clear.
func (c *Cache) State() State {
	if c.view().RefreshedAt.IsZero() {
		return Cold
	}
	return Warm
}

// Clear empties the cache and returns it to Cold.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.snap = Snapshot{}
	c.mu.Unlock()
}

func (c *Cache) stale(s Snapshot) bool {
	return s.RefreshedAt.IsZero() || c.now().Sub(s.RefreshedAt) > c.cfg.StaleAfter
}

// RefreshIfStale refreshes when force is set, the cache is Cold, or its age
// exceeds the staleness window. It reports whether a refresh replaced the
// slot. A caller that waited behind another refresh re-checks staleness
// first, so concurrent searches trigger one fetch.
func (c *Cache) RefreshIfStale(ctx context.Context, force bool) (bool, error) {
	if !force && !c.stale(c.view()) {
		return false, nil
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if !force && !c.stale(c.view()) {
		return false, nil
	}
	if err := c.refreshLocked(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Refresh fetches the latest page unconditionally.
func (c *Cache) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *Cache) refreshLocked(ctx context.Context) error {
	if c.reader == nil || c.cfg.Username == "" {
		return fmt.Errorf("reading channel %q: %w", c.cfg.Username, types.ErrSourceUnavailable)
	}

	start := c.now()
	msgs, err := c.reader.RecentMessages(ctx, c.cfg.Username, c.cfg.PageSize)
	if err != nil {
		return fmt.Errorf("reading channel %q: %w", c.cfg.Username, err)
	}

	records := make([]types.CandidateRecord, 0, len(msgs))
	for _, msg := range msgs {
		r, ok := c.extractor.ExtractMessage(msg, c.messageLink(msg.ID), start)
		if !ok {
			c.log.Debug("message skipped",
				zap.Int64("message_id", msg.ID),
				zap.NamedError("reason", c.extractor.Check(msg.Text)))
			continue
		}
		records = append(records, r)
	}

	c.mu.Lock()
	c.snap = Snapshot{Records: records, RefreshedAt: c.now()}
	c.mu.Unlock()

	c.log.Info("channel refreshed",
		zap.Int("messages", len(msgs)),
		zap.Int("records", len(records)))

	for _, h := range c.hooks {
		h(ctx, cloneRecords(records))
	}
	return nil
}

func (c *Cache) messageLink(id int64) string {
	if id <= 0 {
		return c.ChannelURL()
	}
	return fmt.Sprintf("%s/%d", c.ChannelURL(), id)
}

// Search refreshes the cache when needed, then returns the records matching
// every set filter, newest first. A failed refresh is logged and the
// existing (possibly stale or empty) records are used. The only error is a
// context that is already done before filtering.
func (c *Cache) Search(ctx context.Context, f types.Filters) ([]types.CandidateRecord, error) {
	if _, err := c.RefreshIfStale(ctx, f.ForceRefresh); err != nil {
		c.log.Warn("refresh failed, serving cached records", zap.Error(err))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := c.view()
	c.log.Debug("searching cache",
		zap.Int("cached", len(snap.Records)),
		zap.Duration("age", snap.Age(c.now())),
		zap.String("profession", f.Profession),
		zap.String("level", f.Level),
		zap.String("location", f.Location))

	return Filter(snap.Records, f), nil
}

// Filter applies profession, level and location in that order, AND-combined,
// and sorts the survivors by CapturedAt descending. records is not modified
// and the result shares no memory with it.
func Filter(records []types.CandidateRecord, f types.Filters) []types.CandidateRecord {
	out := make([]types.CandidateRecord, 0, len(records))
	for _, r := range records {
		if f.Profession != "" && !matchesProfession(r, f.Profession) {
			continue
		}
		if f.Level != "" && !strings.EqualFold(r.Level, f.Level) {
			continue
		}
		if f.Location != "" && !containsFold(r.Location, f.Location) {
			continue
		}
		out = append(out, cloneRecord(r))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CapturedAt.After(out[j].CapturedAt)
	})
	return out
}

func matchesProfession(r types.CandidateRecord, profession string) bool {
	if containsFold(r.Position, profession) {
		return true
	}
	for _, s := range r.Skills {
		if containsFold(s, profession) {
			return true
		}
	}
	return false
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
