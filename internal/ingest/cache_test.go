// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/talent-radar/internal/extract"
	"github.com/pdiddy/talent-radar/pkg/types"
)

const (
	resumeIvan = "Меня зовут Иван Петров. Должность: Frontend разработчик. Navyki: React, TypeScript. Опыт работы: 3 года"
	resumeAnna = "Резюме\nИмя: Анна Смирнова\nДолжность: Backend разработчик\nНавыки: Go, PostgreSQL\nГород: Казань"
	posting    = "Вакансия: требуется Senior Go разработчик в команду платформы, удалённая работа"
)

// --- fake reader ---

type fakeReader struct {
	mu      sync.Mutex
	msgs    []types.ChannelMessage
	err     error
	calls   atomic.Int32
	release chan struct{} // when set, RecentMessages blocks until closed
	limit   int
	channel string
}

func (f *fakeReader) RecentMessages(_ context.Context, channel string, limit int) ([]types.ChannelMessage, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limit = limit
	f.channel = channel
	return f.msgs, f.err
}

func (f *fakeReader) set(msgs []types.ChannelMessage, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = msgs
	f.err = err
}

// --- clock ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
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

func testMessages() []types.ChannelMessage {
	base := time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC)
	return []types.ChannelMessage{
		{ID: 103, Text: resumeAnna, Timestamp: base.Add(2 * time.Hour)},
		{ID: 102, Text: posting, Timestamp: base.Add(time.Hour)},
		{ID: 101, Text: resumeIvan, Timestamp: base},
	}
}

func newTestCache(t *testing.T, r ChannelReader, clock *fakeClock, opts ...Option) *Cache {
	t.Helper()
	cfg := types.ChannelConfig{Username: "@javascript_jobs"}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return New(r, extract.New(types.ExtractConfig{}), cfg, opts...)
}

// --- refresh policy ---

func TestSearchColdCacheRefreshesOnce(t *testing.T) {
	r := &fakeReader{msgs: testMessages()}
	c := newTestCache(t, r, newClock())
	require.Equal(t, Cold, c.State())

	got, err := c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)

	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, Warm, c.State())
	assert.Len(t, got, 2, "posting must be dropped")
	assert.Equal(t, DefaultPageSize, r.limit)
	assert.Equal(t, "javascript_jobs", r.channel)
}

func TestSearchFreshCacheDoesNotCallReader(t *testing.T) {
	r := &fakeReader{msgs: testMessages()}
	clock := newClock()
	c := newTestCache(t, r, clock)

	_, err := c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	for i := 0; i < 3; i++ {
		_, err := c.Search(context.Background(), types.Filters{Profession: "go"})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestSearchStaleCacheRefreshes(t *testing.T) {
	r := &fakeReader{msgs: testMessages()}
	clock := newClock()
	c := newTestCache(t, r, clock)

	_, err := c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)
	_, err = c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), r.calls.Load())
}

func TestSearchStaleWindowIsConfigurable(t *testing.T) {
	r := &fakeReader{msgs: testMessages()}
	clock := newClock()
	c := New(r, nil, types.ChannelConfig{Username: "jobs", StaleAfter: 5 * time.Minute, PageSize: 3}, WithClock(clock.Now))

	_, err := c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)
	clock.Advance(6 * time.Minute)
	_, err = c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), r.calls.Load())
	assert.Equal(t, 3, r.limit)
}

func TestSearchForceRefresh(t *testing.T) {
	r := &fakeReader{msgs: testMessages()}
	c := newTestCache(t, r, newClock())

	_, err := c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)
	_, err = c.Search(context.Background(), types.Filters{ForceRefresh: true})
	require.NoError(t, err)
	assert.Equal(t, int32(2), r.calls.Load())
}

func TestRefreshReplacesWholesale(t *testing.T) {
	r := &fakeReader{msgs: testMessages()}
	c := newTestCache(t, r, newClock())

	_, err := c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)

	r.set([]types.ChannelMessage{{ID: 200, Text: resumeIvan}}, nil)
	got, err := c.Search(context.Background(), types.Filters{ForceRefresh: true})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "https://t.me/javascript_jobs/200", got[0].SourceLink)
}

// --- degraded sources ---

func TestRefreshFailureKeepsCache(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := &fakeReader{msgs: testMessages()}
	clock := newClock()
	c := newTestCache(t, r, clock, WithLogger(zap.New(core)))

	_, err := c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)
	refreshedAt := c.Snapshot().RefreshedAt

	r.set(nil, errors.New("connection reset"))
	clock.Advance(2 * time.Hour)
	got, err := c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Equal(t, refreshedAt, c.Snapshot().RefreshedAt)
	assert.Equal(t, 1, logs.FilterMessage("refresh failed, serving cached records").Len())
}

func TestColdFailureReturnsEmptyAndRetries(t *testing.T) {
	r := &fakeReader{err: errors.New("timeout")}
	c := newTestCache(t, r, newClock())

	got, err := c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, Cold, c.State())

	_, err = c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), r.calls.Load())
}

func TestNilReaderIsSourceUnavailable(t *testing.T) {
	c := newTestCache(t, nil, newClock())

	got, err := c.Search(context.Background(), types.Filters{Profession: "go"})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = c.RefreshIfStale(context.Background(), false)
	assert.True(t, errors.Is(err, types.ErrSourceUnavailable))
}

func TestSearchCanceledContext(t *testing.T) {
	c := newTestCache(t, &fakeReader{msgs: testMessages()}, newClock())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Search(ctx, types.Filters{})
	assert.ErrorIs(t, err, context.Canceled)
}

// --- concurrency ---

func TestConcurrentSearchesShareOneRefresh(t *testing.T) {
	r := &fakeReader{msgs: testMessages(), release: make(chan struct{})}
	c := newTestCache(t, r, newClock())

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := c.Search(context.Background(), types.Filters{})
			if err == nil {
				results[i] = len(got)
			}
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(r.release)
	wg.Wait()

	assert.Equal(t, int32(1), r.calls.Load())
	for _, n := range results {
		assert.Equal(t, 2, n)
	}
}

// --- hooks, links, lifecycle ---

func TestRefreshHookReceivesRecords(t *testing.T) {
	var got []types.CandidateRecord
	hook := func(_ context.Context, records []types.CandidateRecord) { got = records }
	c := newTestCache(t, &fakeReader{msgs: testMessages()}, newClock(), WithRefreshHook(hook))

	require.NoError(t, c.Refresh(context.Background()))
	assert.Len(t, got, 2)
}

func TestMessageLinksAndTimestamps(t *testing.T) {
	clock := newClock()
	msgs := []types.ChannelMessage{
		{ID: 7, Text: resumeIvan},
		{ID: 0, Text: resumeAnna, Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	c := newTestCache(t, &fakeReader{msgs: msgs}, clock)

	got, err := c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// The message without a timestamp is stamped with the ingestion time
	// and therefore sorts first.
	assert.Equal(t, "https://t.me/javascript_jobs/7", got[0].SourceLink)
	assert.Equal(t, clock.Now(), got[0].CapturedAt)
	assert.Equal(t, "https://t.me/javascript_jobs", got[1].SourceLink)
	assert.Equal(t, "https://t.me/javascript_jobs", c.ChannelURL())
}

func TestClearReturnsToCold(t *testing.T) {
	c := newTestCache(t, &fakeReader{msgs: testMessages()}, newClock())
	require.NoError(t, c.Refresh(context.Background()))
	require.Equal(t, Warm, c.State())

	c.Clear()
	assert.Equal(t, Cold, c.State())
	assert.Empty(t, c.Snapshot().Records)
}

// --- filtering ---

func filterFixture() []types.CandidateRecord {
	day := func(d int) time.Time { return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC) }
	return []types.CandidateRecord{
		{Name: "A", Position: "Frontend разработчик", Level: "Senior", Location: "Москва", Skills: []string{"React"}, CapturedAt: day(1)},
		{Name: "B", Position: "Backend developer", Level: "Middle", Location: "Санкт-Петербург", Skills: []string{"Go", "React Native"}, CapturedAt: day(3)},
		{Name: "C", Position: types.Unspecified, Skills: []string{"Python"}, CapturedAt: day(2)},
		{Name: "D", Position: "QA инженер", Level: "senior", Location: "Remote"},
	}
}

func names(records []types.CandidateRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		filters types.Filters
		want    []string
	}{
		{"no filters sorts newest first, zero time last", types.Filters{}, []string{"B", "C", "A", "D"}},
		{"profession matches position", types.Filters{Profession: "FRONTEND"}, []string{"A"}},
		{"profession matches skills", types.Filters{Profession: "react"}, []string{"B", "A"}},
		{"level is exact and case-insensitive", types.Filters{Level: "SENIOR"}, []string{"A", "D"}},
		{"level is not a substring match", types.Filters{Level: "Sen"}, []string{}},
		{"location substring", types.Filters{Location: "петербург"}, []string{"B"}},
		{"absent location never matches", types.Filters{Location: "a"}, []string{}},
		{"combined", types.Filters{Profession: "react", Level: "senior", Location: "моск"}, []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(filterFixture(), tt.filters)))
		})
	}
}

func TestFilterIsMonotonic(t *testing.T) {
	records := filterFixture()
	professions := []string{"", "react", "go", "qa"}
	levels := []string{"", "senior", "middle"}
	locations := []string{"", "москва", "remote"}

	for _, p := range professions {
		for _, l := range levels {
			for _, loc := range locations {
				base := len(Filter(records, types.Filters{Profession: p, Level: l}))
				more := len(Filter(records, types.Filters{Profession: p, Level: l, Location: loc}))
				assert.LessOrEqual(t, more, base, "profession=%q level=%q location=%q", p, l, loc)
			}
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := filterFixture()
	got := Filter(records, types.Filters{})
	assert.Equal(t, []string{"A", "B", "C", "D"}, names(records))

	require.Equal(t, "B", got[0].Name)
	got[0].Skills[0] = "changed"
	got[0].Name = "changed"
	assert.Equal(t, []string{"Go", "React Native"}, records[1].Skills)
	assert.Equal(t, "B", records[1].Name)
}

func TestCallersCannotMutateCachedRecords(t *testing.T) {
	var hooked []types.CandidateRecord
	hook := func(_ context.Context, records []types.CandidateRecord) { hooked = records }
	c := newTestCache(t, &fakeReader{msgs: testMessages()}, newClock(), WithRefreshHook(hook))

	found, err := c.Search(context.Background(), types.Filters{})
	require.NoError(t, err)
	require.NotEmpty(t, found)
	require.NotEmpty(t, found[0].Skills)
	want := c.Snapshot().Records

	found[0].Skills[0] = "changed"
	found[0].Name = "changed"
	snap := c.Snapshot()
	snap.Records[0].Name = "changed"
	snap.Records[0].Skills[0] = "changed"
	require.NotEmpty(t, hooked)
	hooked[0].Name = "changed"
	hooked[0].Skills[0] = "changed"

	assert.Equal(t, want, c.Snapshot().Records)
	for _, r := range c.Snapshot().Records {
		assert.NotEqual(t, "changed", r.Name)
		assert.NotContains(t, r.Skills, "changed")
	}
}
