package ingest

import (
	"context"
	"encoding/json"
	"time"

	"github.com/enpal-growth/landing-insights/internal/events"
	"github.com/enpal-growth/landing-insights/pkg/logger"
	"github.com/enpal-growth/landing-insights/pkg/metrics"
	"github.com/enpal-growth/landing-insights/pkg/redis"
)

type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(parts ...string) string
}

// Service serves the funnel dataset from its source, memoizing whole
// snapshots in Redis so every dashboard interaction within the TTL reuses
// one upstream fetch.
type Service struct {
	source  Source
	cache   cache
	ttl     time.Duration
	metrics *metrics.IngestMetrics
	logg    *logger.Logger
}

// NewService wires a source with its snapshot cache. The cache may be nil.
func NewService(source Source, cache *redis.Client, ttl time.Duration, m *metrics.IngestMetrics, logg *logger.Logger) *Service {
	s := &Service{source: source, ttl: ttl, metrics: m, logg: logg}
	if cache != nil {
		s.cache = cache
	}
	return s
}

// SourceName names the configured upstream.
func (s *Service) SourceName() string {
	return s.source.Name()
}

type snapshot struct {
	Rows []events.Row `json:"rows"`
	Meta Metadata     `json:"meta"`
}

// Events returns the current funnel snapshot, from cache when fresh.
func (s *Service) Events(ctx context.Context) (events.Table, Metadata, error) {
	key := s.snapshotKey()
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var snap snapshot
			if jsonErr := json.Unmarshal([]byte(raw), &snap); jsonErr == nil {
				s.metrics.IncCacheHit(s.source.Name())
				return events.Table(snap.Rows), snap.Meta, nil
			}
			// Unreadable entry; fall through to a fresh fetch.
			_ = s.cache.Del(ctx, key)
		} else if !redis.IsMiss(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "snapshot cache read failed")
		}
		s.metrics.IncCacheMiss(s.source.Name())
	}

	started := time.Now()
	table, meta, err := s.source.Fetch(ctx)
	if err != nil {
		s.metrics.IncFailure(s.source.Name())
		return nil, meta, err
	}
	s.metrics.ObserveFetch(s.source.Name(), time.Since(started), meta.RowCount, meta.PagesFetched, meta.Truncated)

	if s.cache != nil {
		if raw, jsonErr := json.Marshal(snapshot{Rows: table, Meta: meta}); jsonErr == nil {
			if setErr := s.cache.Set(ctx, key, string(raw), s.ttl); setErr != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", setErr.Error()), "snapshot cache write failed")
			}
		}
	}
	return table, meta, nil
}

// Refresh drops the cached snapshot and fetches a fresh one.
func (s *Service) Refresh(ctx context.Context) (events.Table, Metadata, error) {
	if s.cache != nil {
		if err := s.cache.Del(ctx, s.snapshotKey()); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "snapshot cache invalidation failed")
		}
	}
	return s.Events(ctx)
}

// EventActions lists distinct event actions seen by the source.
func (s *Service) EventActions(ctx context.Context) ([]events.DimensionCount, error) {
	return s.listDimension(ctx, "event_actions", s.source.ListEventActions)
}

// Channels lists distinct traffic channels seen by the source.
func (s *Service) Channels(ctx context.Context) ([]events.DimensionCount, error) {
	return s.listDimension(ctx, "channels", s.source.ListChannels)
}

func (s *Service) listDimension(ctx context.Context, name string, list func(context.Context) ([]events.DimensionCount, error)) ([]events.DimensionCount, error) {
	key := s.cacheKey("dims", name)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var dims []events.DimensionCount
			if json.Unmarshal([]byte(raw), &dims) == nil {
				return dims, nil
			}
			_ = s.cache.Del(ctx, key)
		} else if !redis.IsMiss(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "dimension cache read failed")
		}
	}

	dims, err := list(ctx)
	if err != nil {
		s.metrics.IncFailure(s.source.Name())
		return nil, err
	}

	if s.cache != nil {
		if raw, jsonErr := json.Marshal(dims); jsonErr == nil {
			if setErr := s.cache.Set(ctx, key, string(raw), s.ttl); setErr != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", setErr.Error()), "dimension cache write failed")
			}
		}
	}
	return dims, nil
}

func (s *Service) snapshotKey() string {
	return s.cacheKey("events")
}

func (s *Service) cacheKey(parts ...string) string {
	if s.cache == nil {
		return ""
	}
	return s.cache.CacheKey(append(parts, s.source.Name())...)
}
