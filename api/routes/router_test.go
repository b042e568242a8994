package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/enpal-growth/landing-insights/api/controllers"
	"github.com/enpal-growth/landing-insights/internal/events"
	"github.com/enpal-growth/landing-insights/internal/ingest"
	"github.com/enpal-growth/landing-insights/internal/kpi"
	"github.com/enpal-growth/landing-insights/internal/narrative"
	"github.com/enpal-growth/landing-insights/internal/report"
	"github.com/enpal-growth/landing-insights/pkg/config"
	"github.com/enpal-growth/landing-insights/pkg/logger"
	"github.com/enpal-growth/landing-insights/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubEventsService struct{}

func (stubEventsService) Events(ctx context.Context) (events.Table, ingest.Metadata, error) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return events.NewTable([]events.Row{
		{Date: day, Action: kpi.AnchorEvent, Campaign: "spring", Channel: "cpc", URL: "/v1", Count: 100},
		{Date: day, Action: kpi.LeadEvent, Campaign: "spring", Channel: "cpc", URL: "/v1", Count: 10},
		{Date: day, Action: kpi.AnchorEvent, Campaign: "spring", Channel: "cpc", URL: "/v2", Count: 100},
		{Date: day, Action: kpi.LeadEvent, Campaign: "spring", Channel: "cpc", URL: "/v2", Count: 20},
	}), ingest.Metadata{Source: "ga4", RowCount: 4}, nil
}

func (s stubEventsService) Refresh(ctx context.Context) (events.Table, ingest.Metadata, error) {
	return s.Events(ctx)
}

func (stubEventsService) EventActions(ctx context.Context) ([]events.DimensionCount, error) {
	return []events.DimensionCount{{Value: kpi.AnchorEvent, Count: 200}}, nil
}

func (stubEventsService) Channels(ctx context.Context) ([]events.DimensionCount, error) {
	return []events.DimensionCount{{Value: "cpc", Count: 230}}, nil
}

type stubNarrativeService struct{}

func (stubNarrativeService) Analyze(ctx context.Context, oldTable, newTable events.Table, startDate, endDate string) (narrative.Result, error) {
	return narrative.Result{Analysis: "ok"}, nil
}

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test", Port: "0"}}
}

func newTestRouter() http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		testConfig(),
		logg,
		(*redis.Client)(nil),
		map[string]controllers.Pinger{"redis": stubPinger{}},
		stubEventsService{},
		stubNarrativeService{},
		report.NewRegistry(time.Hour),
		prometheus.NewRegistry(),
	)
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter()

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestMetricsRouteServesRegistry(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestEventsRouteWrapsEnvelope(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			TotalCount int64 `json:"total_count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.TotalCount != 230 {
		t.Fatalf("expected total 230 got %d", envelope.Data.TotalCount)
	}
}

func TestNarrativeRouteAllowsWithoutRedis(t *testing.T) {
	router := newTestRouter()
	body := `{"old_urls": ["/v1"], "new_urls": ["/v2"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/narrative", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestReportRoutesScopeSessions(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/report/analyses", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with minted session got %d", resp.Code)
	}
	if minted := resp.Header().Get("X-Report-Session"); minted == "" {
		t.Fatal("expected minted session header")
	}

	withSession := httptest.NewRequest(http.MethodGet, "/api/v1/report/analyses", nil)
	session := uuid.NewString()
	withSession.Header.Set("X-Report-Session", session)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, withSession)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with session header got %d", resp.Code)
	}
	if echo := resp.Header().Get("X-Report-Session"); echo != session {
		t.Fatalf("expected session echo %q got %q", session, echo)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
