package ga4

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/enpal-growth/landing-insights/pkg/config"
	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
)

type stubRunner struct {
	pages    []*analyticsdata.RunReportResponse
	requests []*analyticsdata.RunReportRequest
	err      error
}

func (s *stubRunner) runReport(ctx context.Context, property string, req *analyticsdata.RunReportRequest) (*analyticsdata.RunReportResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.requests = append(s.requests, req)
	idx := len(s.requests) - 1
	if idx >= len(s.pages) {
		return &analyticsdata.RunReportResponse{}, nil
	}
	return s.pages[idx], nil
}

func funnelRow(date, action, campaign, channel, url, count string) *analyticsdata.Row {
	return &analyticsdata.Row{
		DimensionValues: []*analyticsdata.DimensionValue{
			{Value: date}, {Value: action}, {Value: campaign}, {Value: channel}, {Value: url},
		},
		MetricValues: []*analyticsdata.MetricValue{{Value: count}},
	}
}

func testClient(runner reportRunner, rowLimit int) *Client {
	return &Client{
		runner: runner,
		cfg: config.GA4Config{
			PropertyID:            "123",
			DateRangeDays:         90,
			RowLimit:              rowLimit,
			Timezone:              "UTC",
			DimensionListDays:     90,
			DimensionListRowLimit: 10000,
		},
		now: func() time.Time { return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC) },
	}
}

func TestRunFunnelReportSinglePage(t *testing.T) {
	runner := &stubRunner{
		pages: []*analyticsdata.RunReportResponse{
			{
				Rows: []*analyticsdata.Row{
					funnelRow("20260310", "slider-success", "spring", "google", "/landing-old", "12"),
					funnelRow("20260311", "Enpal Source Cookie", "", "", "", "300"),
				},
			},
		},
	}
	client := testClient(runner, 1000000)

	rows, meta, err := client.RunFunnelReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Date != time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected date %v", rows[0].Date)
	}
	if rows[1].Campaign != "(not set)" || rows[1].Channel != "(not set)" || rows[1].URL != "(not set)" {
		t.Fatalf("empty dimensions should fall back to sentinel: %+v", rows[1])
	}
	if meta.PagesFetched != 1 {
		t.Fatalf("expected 1 page, got %d", meta.PagesFetched)
	}
	if meta.Truncated {
		t.Fatal("short page should not be truncated")
	}
	if meta.DateRangeEnd != "2026-03-15" {
		t.Fatalf("unexpected range end %s", meta.DateRangeEnd)
	}
}

func TestRunFunnelReportPagesUntilShortPage(t *testing.T) {
	fullPage := &analyticsdata.RunReportResponse{}
	for i := 0; i < pageSize; i++ {
		fullPage.Rows = append(fullPage.Rows, funnelRow("20260301", fmt.Sprintf("e%d", i), "c", "ch", "/u", "1"))
	}
	shortPage := &analyticsdata.RunReportResponse{
		Rows: []*analyticsdata.Row{funnelRow("20260302", "tail", "c", "ch", "/u", "2")},
	}
	runner := &stubRunner{pages: []*analyticsdata.RunReportResponse{fullPage, shortPage}}
	client := testClient(runner, 10000000)

	rows, meta, err := client.RunFunnelReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != pageSize+1 {
		t.Fatalf("expected %d rows, got %d", pageSize+1, len(rows))
	}
	if meta.PagesFetched != 2 {
		t.Fatalf("expected 2 pages, got %d", meta.PagesFetched)
	}
	if runner.requests[1].Offset != pageSize {
		t.Fatalf("second request should carry offset %d, got %d", pageSize, runner.requests[1].Offset)
	}
	if meta.Truncated {
		t.Fatal("exhausted source should not be truncated")
	}
}

func TestRunFunnelReportRowCeilingSetsTruncated(t *testing.T) {
	fullPage := &analyticsdata.RunReportResponse{}
	for i := 0; i < pageSize; i++ {
		fullPage.Rows = append(fullPage.Rows, funnelRow("20260301", "e", "c", "ch", "/u", "1"))
	}
	runner := &stubRunner{pages: []*analyticsdata.RunReportResponse{fullPage, fullPage}}
	client := testClient(runner, pageSize) // ceiling reached after the first page

	rows, meta, err := client.RunFunnelReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != pageSize {
		t.Fatalf("expected %d rows, got %d", pageSize, len(rows))
	}
	if !meta.Truncated {
		t.Fatal("row ceiling should mark the result truncated")
	}
	if meta.PagesFetched != 1 {
		t.Fatalf("expected fetch to stop after 1 page, got %d", meta.PagesFetched)
	}
}

func TestRunFunnelReportSkipsMalformedRows(t *testing.T) {
	runner := &stubRunner{
		pages: []*analyticsdata.RunReportResponse{
			{
				Rows: []*analyticsdata.Row{
					funnelRow("not-a-date", "a", "c", "ch", "/u", "1"),
					funnelRow("20260301", "a", "c", "ch", "/u", "oops"),
					funnelRow("20260301", "a", "c", "ch", "/u", "5"),
				},
			},
		},
	}
	client := testClient(runner, 1000)

	rows, _, err := client.RunFunnelReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Count != 5 {
		t.Fatalf("expected only the well-formed row, got %+v", rows)
	}
}

func TestListEventActions(t *testing.T) {
	runner := &stubRunner{
		pages: []*analyticsdata.RunReportResponse{
			{
				Rows: []*analyticsdata.Row{
					{
						DimensionValues: []*analyticsdata.DimensionValue{{Value: "slider-success"}},
						MetricValues:    []*analyticsdata.MetricValue{{Value: "42"}},
					},
				},
			},
		},
	}
	client := testClient(runner, 1000)

	actions, err := client.ListEventActions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || actions[0].Value != "slider-success" || actions[0].Count != 42 {
		t.Fatalf("unexpected listing %+v", actions)
	}
	if len(runner.requests[0].Dimensions) != 1 {
		t.Fatalf("dimension listing must query a single dimension, got %d", len(runner.requests[0].Dimensions))
	}
}
