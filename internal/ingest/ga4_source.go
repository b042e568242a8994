package ingest

import (
	"context"

	"github.com/enpal-growth/landing-insights/internal/events"
	"github.com/enpal-growth/landing-insights/pkg/config"
	"github.com/enpal-growth/landing-insights/pkg/ga4"
)

// GA4Source pulls the funnel dataset from the GA4 Data API.
type GA4Source struct {
	client *ga4.Client
}

func NewGA4Source(client *ga4.Client) *GA4Source {
	return &GA4Source{client: client}
}

func (s *GA4Source) Name() string { return config.SourceGA4 }

func (s *GA4Source) Fetch(ctx context.Context) (events.Table, Metadata, error) {
	rows, meta, err := s.client.RunFunnelReport(ctx)
	if err != nil {
		return nil, Metadata{Source: s.Name()}, err
	}

	converted := make([]events.Row, len(rows))
	for i, r := range rows {
		converted[i] = events.Row{
			Date:     r.Date,
			Action:   r.Action,
			Campaign: r.Campaign,
			Channel:  r.Channel,
			URL:      r.URL,
			Count:    r.Count,
		}
	}

	return events.NewTable(converted), Metadata{
		Source:         s.Name(),
		RowCount:       meta.RowCount,
		RowLimit:       meta.RowLimit,
		Truncated:      meta.Truncated,
		PagesFetched:   meta.PagesFetched,
		DateRangeStart: meta.DateRangeStart,
		DateRangeEnd:   meta.DateRangeEnd,
		Timezone:       meta.Timezone,
		QueryTime:      meta.QueryTime,
	}, nil
}

func (s *GA4Source) ListEventActions(ctx context.Context) ([]events.DimensionCount, error) {
	return convertDims(s.client.ListEventActions(ctx))
}

func (s *GA4Source) ListChannels(ctx context.Context) ([]events.DimensionCount, error) {
	return convertDims(s.client.ListChannels(ctx))
}

func convertDims(dims []ga4.DimensionCount, err error) ([]events.DimensionCount, error) {
	if err != nil {
		return nil, err
	}
	out := make([]events.DimensionCount, len(dims))
	for i, d := range dims {
		out[i] = events.DimensionCount{Value: d.Value, Count: d.Count}
	}
	return out, nil
}
