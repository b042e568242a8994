package ingest

import (
	"context"
	"time"

	"github.com/enpal-growth/landing-insights/internal/events"
)

// Metadata describes where a snapshot came from and whether it is complete.
type Metadata struct {
	Source         string    `json:"source"`
	RowCount       int       `json:"row_count"`
	RowLimit       int       `json:"row_limit"`
	Truncated      bool      `json:"truncated"`
	PagesFetched   int       `json:"pages_fetched"`
	DateRangeStart string    `json:"date_range_start"`
	DateRangeEnd   string    `json:"date_range_end"`
	Timezone       string    `json:"timezone"`
	QueryTime      time.Time `json:"query_time"`
}

// Source is one upstream the funnel dataset can be pulled from. Both the
// GA4 Data API and the BigQuery events export implement it.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (events.Table, Metadata, error)
	ListEventActions(ctx context.Context) ([]events.DimensionCount, error)
	ListChannels(ctx context.Context) ([]events.DimensionCount, error)
}
