// Package bq pulls the funnel dataset from a GA4 BigQuery events export
// instead of the Data API. The export lags the property by up to a day but
// has no sampling and no row ceiling on the API side.
package bq

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcpbq "cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/enpal-growth/landing-insights/internal/events"
	"github.com/enpal-growth/landing-insights/internal/ingest"
	"github.com/enpal-growth/landing-insights/pkg/bigquery"
	"github.com/enpal-growth/landing-insights/pkg/config"
	"github.com/enpal-growth/landing-insights/pkg/logger"
)

const (
	suffixDateFormat = "20060102"
	dateFormat       = "2006-01-02"
)

// Daily export tables are named events_YYYYMMDD; the wildcard plus a suffix
// range keeps the scan bounded to the analysis window.
const funnelQuery = `
SELECT
  event_date AS date_raw,
  event_name AS action,
  collected_traffic_source.manual_campaign_name AS campaign,
  collected_traffic_source.manual_source AS channel,
  (SELECT value.string_value FROM UNNEST(event_params) WHERE key = 'page_location') AS url,
  COUNT(*) AS count
FROM %s
WHERE _TABLE_SUFFIX BETWEEN @start AND @end
GROUP BY date_raw, action, campaign, channel, url
ORDER BY count DESC
LIMIT @row_limit`

const dimensionQuery = `
SELECT
  %s AS value,
  COUNT(*) AS count
FROM %s
WHERE _TABLE_SUFFIX BETWEEN @start AND @end
GROUP BY value
ORDER BY count DESC
LIMIT @row_limit`

type exportRow struct {
	DateRaw  string           `bigquery:"date_raw"`
	Action   gcpbq.NullString `bigquery:"action"`
	Campaign gcpbq.NullString `bigquery:"campaign"`
	Channel  gcpbq.NullString `bigquery:"channel"`
	URL      gcpbq.NullString `bigquery:"url"`
	Count    int64            `bigquery:"count"`
}

type dimensionRow struct {
	Value gcpbq.NullString `bigquery:"value"`
	Count int64            `bigquery:"count"`
}

// Source reads the funnel dataset from the events export.
type Source struct {
	client *bigquery.Client
	cfg    config.GA4Config
	logg   *logger.Logger
	now    func() time.Time
}

func NewSource(client *bigquery.Client, cfg config.GA4Config, logg *logger.Logger) *Source {
	return &Source{client: client, cfg: cfg, logg: logg, now: time.Now}
}

func (s *Source) Name() string { return config.SourceBigQuery }

func (s *Source) location() *time.Location {
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *Source) window(days int) (start, end time.Time) {
	end = s.now().In(s.location())
	start = end.AddDate(0, 0, -days)
	return start, end
}

// Fetch aggregates the export window into funnel rows. The aggregation
// mirrors the Data API report, so downstream code cannot tell the sources
// apart.
func (s *Source) Fetch(ctx context.Context) (events.Table, ingest.Metadata, error) {
	start, end := s.window(s.cfg.DateRangeDays)
	sql := fmt.Sprintf(funnelQuery, s.client.EventsTableID())

	it, err := s.client.Query(ctx, sql, []gcpbq.QueryParameter{
		{Name: "start", Value: start.Format(suffixDateFormat)},
		{Name: "end", Value: end.Format(suffixDateFormat)},
		{Name: "row_limit", Value: int64(s.cfg.RowLimit)},
	})
	if err != nil {
		return nil, ingest.Metadata{Source: s.Name()}, fmt.Errorf("querying events export: %w", err)
	}

	rows := make([]events.Row, 0, 1024)
	skipped := 0
	for {
		var r exportRow
		err := it.Next(&r)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, ingest.Metadata{Source: s.Name()}, fmt.Errorf("reading events export: %w", err)
		}

		date, err := time.ParseInLocation(suffixDateFormat, r.DateRaw, s.location())
		if err != nil {
			skipped++
			continue
		}
		rows = append(rows, events.Row{
			Date:     date,
			Action:   r.Action.StringVal,
			Campaign: r.Campaign.StringVal,
			Channel:  r.Channel.StringVal,
			URL:      r.URL.StringVal,
			Count:    r.Count,
		})
	}
	if skipped > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "skipped_rows", skipped), "events export rows with malformed dates dropped")
	}

	return events.NewTable(rows), ingest.Metadata{
		Source:         s.Name(),
		RowCount:       len(rows),
		RowLimit:       s.cfg.RowLimit,
		Truncated:      len(rows) >= s.cfg.RowLimit,
		PagesFetched:   1,
		DateRangeStart: start.Format(dateFormat),
		DateRangeEnd:   end.Format(dateFormat),
		Timezone:       s.cfg.Timezone,
		QueryTime:      s.now().UTC(),
	}, nil
}

func (s *Source) ListEventActions(ctx context.Context) ([]events.DimensionCount, error) {
	return s.listDimension(ctx, "event_name")
}

func (s *Source) ListChannels(ctx context.Context) ([]events.DimensionCount, error) {
	return s.listDimension(ctx, "collected_traffic_source.manual_source")
}

func (s *Source) listDimension(ctx context.Context, column string) ([]events.DimensionCount, error) {
	start, end := s.window(s.cfg.DimensionListDays)
	sql := fmt.Sprintf(dimensionQuery, column, s.client.EventsTableID())

	it, err := s.client.Query(ctx, sql, []gcpbq.QueryParameter{
		{Name: "start", Value: start.Format(suffixDateFormat)},
		{Name: "end", Value: end.Format(suffixDateFormat)},
		{Name: "row_limit", Value: s.cfg.DimensionListRowLimit},
	})
	if err != nil {
		return nil, fmt.Errorf("querying export dimension %s: %w", column, err)
	}

	out := make([]events.DimensionCount, 0, 64)
	for {
		var r dimensionRow
		err := it.Next(&r)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading export dimension %s: %w", column, err)
		}
		value := r.Value.StringVal
		if !r.Value.Valid || value == "" {
			value = events.NotSet
		}
		out = append(out, events.DimensionCount{Value: value, Count: r.Count})
	}
	return out, nil
}
