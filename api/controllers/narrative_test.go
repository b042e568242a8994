package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/enpal-growth/landing-insights/internal/events"
	"github.com/enpal-growth/landing-insights/internal/narrative"
)

type testNarrativeService struct {
	analyzeFn func(ctx context.Context, oldTable, newTable events.Table, startDate, endDate string) (narrative.Result, error)
}

func (s *testNarrativeService) Analyze(ctx context.Context, oldTable, newTable events.Table, startDate, endDate string) (narrative.Result, error) {
	return s.analyzeFn(ctx, oldTable, newTable, startDate, endDate)
}

func TestNarrativeResolvesPeriodFromSnapshot(t *testing.T) {
	var gotStart, gotEnd string
	var gotOldTotal, gotNewTotal int64
	analyst := &testNarrativeService{
		analyzeFn: func(ctx context.Context, oldTable, newTable events.Table, startDate, endDate string) (narrative.Result, error) {
			gotStart, gotEnd = startDate, endDate
			gotOldTotal, gotNewTotal = oldTable.TotalCount(), newTable.TotalCount()
			return narrative.Result{Analysis: "la landing NEW converte meglio"}, nil
		},
	}

	body := `{"old_urls": ["/v1"], "new_urls": ["/v2"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/narrative", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	Narrative(snapshotService(), analyst, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotStart != "2026-03-01" || gotEnd != "2026-03-02" {
		t.Fatalf("unexpected period %s/%s", gotStart, gotEnd)
	}
	if gotOldTotal != 150 || gotNewTotal != 160 {
		t.Fatalf("unexpected cohort totals %d/%d", gotOldTotal, gotNewTotal)
	}
	var envelope struct {
		Data narrative.Result `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Analysis != "la landing NEW converte meglio" {
		t.Fatalf("unexpected analysis %q", envelope.Data.Analysis)
	}
}

func TestNarrativeReportsDegradedResult(t *testing.T) {
	analyst := &testNarrativeService{
		analyzeFn: func(ctx context.Context, oldTable, newTable events.Table, startDate, endDate string) (narrative.Result, error) {
			return narrative.Result{Analysis: narrative.DegradedMessage, Degraded: true}, nil
		},
	}

	body := `{"old_urls": ["/v1"], "new_urls": ["/v2"], "start_date": "2026-03-01", "end_date": "2026-03-02"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/narrative", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	Narrative(snapshotService(), analyst, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data narrative.Result `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data.Degraded {
		t.Fatal("expected degraded result")
	}
}
