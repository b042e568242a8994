package ga4

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/enpal-growth/landing-insights/pkg/config"
	"github.com/enpal-growth/landing-insights/pkg/logger"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"
)

const (
	// The GA4 Data API caps a single runReport response; everything larger
	// is paged with limit/offset.
	pageSize = 250000
	// Hard ceiling on sequential round-trips so a bad property can never
	// loop forever.
	maxPages = 10

	notSetSentinel = "(not set)"

	apiDateFormat     = "20060102"
	requestDateFormat = "2006-01-02"
	eventActionDim    = "customEvent:event_action"
	campaignDim       = "sessionCampaignName"
	channelDim        = "sessionSource"
	landingPageDim    = "landingPage"
	eventCountMetric  = "eventCount"
)

var errPropertyIDRequired = errors.New("ga4 property id is required")

// Row is one aggregated GA4 record. Rows sharing dimension values across
// pages are returned as-is; summing is the caller's concern.
type Row struct {
	Date     time.Time
	Action   string
	Campaign string
	Channel  string
	URL      string
	Count    int64
}

// DimensionCount pairs a dimension value with its total event count.
type DimensionCount struct {
	Value string
	Count int64
}

// Metadata describes one completed funnel-report fetch.
type Metadata struct {
	RowCount       int
	RowLimit       int
	Truncated      bool
	PagesFetched   int
	DateRangeStart string
	DateRangeEnd   string
	Timezone       string
	QueryTime      time.Time
}

type reportRunner interface {
	runReport(ctx context.Context, property string, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error)
}

type serviceRunner struct {
	svc *analyticsdata.Service
}

func (r *serviceRunner) runReport(ctx context.Context, property string, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error) {
	return r.svc.Properties.RunReport(property, req).Context(ctx).Do()
}

// Client talks to the GA4 Data API for one property.
type Client struct {
	runner reportRunner
	cfg    config.GA4Config
	logg   *logger.Logger
	now    func() time.Time
}

// NewClient builds a GA4 Data API client, passing the configured credentials
// through to the Google client untouched.
func NewClient(ctx context.Context, cfg config.GA4Config, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.PropertyID) == "" {
		return nil, errPropertyIDRequired
	}

	svc, err := analyticsdata.NewService(ctx, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("creating analytics data client: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "ga4 client initialized")
	}

	return &Client{
		runner: &serviceRunner{svc: svc},
		cfg:    cfg,
		logg:   logg,
		now:    time.Now,
	}, nil
}

func clientOptions(cfg config.GA4Config) []option.ClientOption {
	opts := []option.ClientOption{
		option.WithScopes("https://www.googleapis.com/auth/analytics.readonly"),
	}
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	// With neither set, application default credentials apply.
	return opts
}

func (c *Client) property() string {
	return "properties/" + strings.TrimSpace(c.cfg.PropertyID)
}

func (c *Client) location() *time.Location {
	loc, err := time.LoadLocation(c.cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RunFunnelReport pulls the full funnel dataset (date, event action, campaign,
// channel, landing page, event count) for the configured lookback window,
// paging until the source is exhausted or a ceiling is hit. Duplicate
// dimension rows across pages are preserved so callers can sum them.
func (c *Client) RunFunnelReport(ctx context.Context) ([]Row, Metadata, error) {
	now := c.now().In(c.location())
	start := now.AddDate(0, 0, -c.cfg.DateRangeDays)

	meta := Metadata{
		RowLimit:       c.cfg.RowLimit,
		DateRangeStart: start.Format(requestDateFormat),
		DateRangeEnd:   now.Format(requestDateFormat),
		Timezone:       c.cfg.Timezone,
		QueryTime:      now,
	}

	var rows []Row
	var offset int64

	for meta.PagesFetched < maxPages {
		req := &analyticsdata.RunReportRequest{
			Dimensions: []*analyticsdata.Dimension{
				{Name: "date"},
				{Name: eventActionDim},
				{Name: campaignDim},
				{Name: channelDim},
				{Name: landingPageDim},
			},
			Metrics: []*analyticsdata.Metric{
				{Name: eventCountMetric},
			},
			DateRanges: []*analyticsdata.DateRange{
				{StartDate: meta.DateRangeStart, EndDate: meta.DateRangeEnd},
			},
			Limit:  pageSize,
			Offset: offset,
		}

		resp, err := c.runner.runReport(ctx, c.property(), req)
		if err != nil {
			return nil, meta, fmt.Errorf("ga4 run report (offset %d): %w", offset, err)
		}
		meta.PagesFetched++

		pageRows := 0
		for _, row := range resp.Rows {
			parsed, ok := parseFunnelRow(row)
			if !ok {
				continue
			}
			rows = append(rows, parsed)
			pageRows++
		}

		// A short page means the source is exhausted.
		if int64(len(resp.Rows)) < pageSize {
			break
		}

		offset += pageSize

		if len(rows) >= c.cfg.RowLimit {
			break
		}
	}

	meta.RowCount = len(rows)
	meta.Truncated = len(rows) >= c.cfg.RowLimit || meta.PagesFetched >= maxPages

	return rows, meta, nil
}

func parseFunnelRow(row *analyticsdata.Row) (Row, bool) {
	if row == nil || len(row.DimensionValues) < 5 || len(row.MetricValues) < 1 {
		return Row{}, false
	}

	date, err := time.Parse(apiDateFormat, row.DimensionValues[0].Value)
	if err != nil {
		return Row{}, false
	}

	count, err := strconv.ParseInt(row.MetricValues[0].Value, 10, 64)
	if err != nil || count < 0 {
		return Row{}, false
	}

	return Row{
		Date:     date,
		Action:   row.DimensionValues[1].Value,
		Campaign: orNotSet(row.DimensionValues[2].Value),
		Channel:  orNotSet(row.DimensionValues[3].Value),
		URL:      orNotSet(row.DimensionValues[4].Value),
		Count:    count,
	}, true
}

func orNotSet(value string) string {
	if value == "" {
		return notSetSentinel
	}
	return value
}

// ListEventActions queries every event_action value the property saw in the
// dimension-listing window, with total counts.
func (c *Client) ListEventActions(ctx context.Context) ([]DimensionCount, error) {
	return c.listDimension(ctx, eventActionDim)
}

// ListChannels queries every sessionSource value the property saw in the
// dimension-listing window, with total counts.
func (c *Client) ListChannels(ctx context.Context) ([]DimensionCount, error) {
	return c.listDimension(ctx, channelDim)
}

func (c *Client) listDimension(ctx context.Context, dimension string) ([]DimensionCount, error) {
	now := c.now().In(c.location())
	start := now.AddDate(0, 0, -c.cfg.DimensionListDays)

	req := &analyticsdata.RunReportRequest{
		Dimensions: []*analyticsdata.Dimension{{Name: dimension}},
		Metrics:    []*analyticsdata.Metric{{Name: eventCountMetric}},
		DateRanges: []*analyticsdata.DateRange{
			{
				StartDate: start.Format(requestDateFormat),
				EndDate:   now.Format(requestDateFormat),
			},
		},
		Limit: c.cfg.DimensionListRowLimit,
	}

	resp, err := c.runner.runReport(ctx, c.property(), req)
	if err != nil {
		return nil, fmt.Errorf("ga4 list %s: %w", dimension, err)
	}

	values := make([]DimensionCount, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		if row == nil || len(row.DimensionValues) < 1 || len(row.MetricValues) < 1 {
			continue
		}
		count, err := strconv.ParseInt(row.MetricValues[0].Value, 10, 64)
		if err != nil {
			continue
		}
		values = append(values, DimensionCount{
			Value: row.DimensionValues[0].Value,
			Count: count,
		})
	}
	return values, nil
}
