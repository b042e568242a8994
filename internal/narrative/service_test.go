package narrative

import (
	"context"
	"io"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/enpal-growth/landing-insights/internal/events"
	"github.com/enpal-growth/landing-insights/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	enabled bool
	calls   int
	text    string
	err     error
}

func (f *fakeCompleter) Enabled() bool { return f.enabled }

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeCache struct {
	values map[string]string
	sets   int
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, error) {
	if v, ok := f.values[key]; ok {
		return v, nil
	}
	return "", goredis.Nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.sets++
	f.values[key] = value.(string)
	return nil
}

func (f *fakeCache) NarrativeKey(id string) string { return "li:narrative:" + id }

func testService(llm completer, c cache) *Service {
	return &Service{
		llm:      llm,
		cache:    c,
		cacheTTL: time.Hour,
		logg:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}
}

func TestAnalyzeDegradedWithoutKey(t *testing.T) {
	llm := &fakeCompleter{enabled: false}
	svc := testService(llm, &fakeCache{values: map[string]string{}})

	res, err := svc.Analyze(context.Background(), events.Table{}, events.Table{}, "2026-03-01", "2026-03-31")

	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, DegradedMessage, res.Analysis)
	assert.Zero(t, llm.calls)
	assert.Equal(t, "OLD Landing", res.OldSummary.LandingType)
	assert.False(t, res.OldSummary.HasData)
}

func TestAnalyzeCachesByPrompt(t *testing.T) {
	llm := &fakeCompleter{enabled: true, text: "analisi"}
	c := &fakeCache{values: map[string]string{}}
	svc := testService(llm, c)

	first, err := svc.Analyze(context.Background(), events.Table{}, events.Table{}, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "analisi", first.Analysis)

	second, err := svc.Analyze(context.Background(), events.Table{}, events.Table{}, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "analisi", second.Analysis)
	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, 1, c.sets)
}

func TestAnalyzeDistinctPeriodsMissCache(t *testing.T) {
	llm := &fakeCompleter{enabled: true, text: "analisi"}
	c := &fakeCache{values: map[string]string{}}
	svc := testService(llm, c)

	_, err := svc.Analyze(context.Background(), events.Table{}, events.Table{}, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	_, err = svc.Analyze(context.Background(), events.Table{}, events.Table{}, "2026-04-01", "2026-04-30")
	require.NoError(t, err)

	assert.Equal(t, 2, llm.calls)
}

func TestAnalyzeWithoutCache(t *testing.T) {
	llm := &fakeCompleter{enabled: true, text: "analisi"}
	svc := testService(llm, nil)

	res, err := svc.Analyze(context.Background(), events.Table{}, events.Table{}, "2026-03-01", "2026-03-31")

	require.NoError(t, err)
	assert.Equal(t, "analisi", res.Analysis)
	assert.False(t, res.Cached)
}
