package narrative

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/enpal-growth/landing-insights/internal/events"
	"github.com/enpal-growth/landing-insights/pkg/logger"
	"github.com/enpal-growth/landing-insights/pkg/redis"
)

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Enabled() bool
}

type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	NarrativeKey(id string) string
}

// Service produces cohort analyses, caching each distinct prompt so repeated
// requests over unchanged data do not re-spend tokens.
type Service struct {
	llm      completer
	cache    cache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService wires the analyst. The cache may be nil, which disables
// memoization.
func NewService(llm *Client, cache *redis.Client, cacheTTL time.Duration, logg *logger.Logger) *Service {
	s := &Service{llm: llm, cacheTTL: cacheTTL, logg: logg}
	if cache != nil {
		s.cache = cache
	}
	return s
}

// Result is an analysis with its provenance.
type Result struct {
	Analysis   string      `json:"analysis"`
	Cached     bool        `json:"cached"`
	Degraded   bool        `json:"degraded"`
	OldSummary DataSummary `json:"old_summary"`
	NewSummary DataSummary `json:"new_summary"`
}

// Analyze digests the two cohorts, asks the model to compare them, and
// returns the text. Degraded mode (no API key) short-circuits with the
// configuration hint and skips the cache.
func (s *Service) Analyze(ctx context.Context, oldTable, newTable events.Table, startDate, endDate string) (Result, error) {
	res := Result{
		OldSummary: BuildDataSummary(oldTable, "OLD Landing"),
		NewSummary: BuildDataSummary(newTable, "NEW Landing"),
	}

	prompt := BuildPrompt(res.OldSummary, res.NewSummary, startDate, endDate)

	if !s.llm.Enabled() {
		res.Analysis = DegradedMessage
		res.Degraded = true
		return res, nil
	}

	var key string
	if s.cache != nil {
		key = s.cache.NarrativeKey(promptDigest(prompt))
		if cached, err := s.cache.Get(ctx, key); err == nil {
			res.Analysis = cached
			res.Cached = true
			return res, nil
		} else if !redis.IsMiss(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "narrative cache read failed")
		}
	}

	text, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return Result{}, err
	}
	res.Analysis = text

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, text, s.cacheTTL); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "narrative cache write failed")
		}
	}
	return res, nil
}

func promptDigest(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
