package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/enpal-growth/landing-insights/internal/compare"
)

func TestCompareScoresCohorts(t *testing.T) {
	body := `{"old_urls": ["/v1"], "new_urls": ["/v2"], "old_name": "Control", "new_name": "Variant"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	Compare(snapshotService(), testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data compare.Summary `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	summary := envelope.Data
	if summary.Winner != compare.WinnerNew {
		t.Fatalf("expected NEW winner, got %q", summary.Winner)
	}
	if summary.Score.Old != 1 || summary.Score.New != 6 {
		t.Fatalf("unexpected score %+v", summary.Score)
	}
	if summary.OldName != "Control" || summary.NewName != "Variant" {
		t.Fatalf("unexpected names %q/%q", summary.OldName, summary.NewName)
	}
	if summary.Recommendation != "MAINTAIN NEW LANDING" {
		t.Fatalf("unexpected recommendation %q", summary.Recommendation)
	}
	if summary.DateRange != "2026-03-01 - 2026-03-02" {
		t.Fatalf("unexpected date range %q", summary.DateRange)
	}
}

func TestCompareNamesDefaultToURLs(t *testing.T) {
	body := `{"old_urls": ["/v1"], "new_urls": ["/v2"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	Compare(snapshotService(), testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data compare.Summary `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.OldName != "/v1" || envelope.Data.NewName != "/v2" {
		t.Fatalf("unexpected names %q/%q", envelope.Data.OldName, envelope.Data.NewName)
	}
}

func TestCompareRejectsMissingCohort(t *testing.T) {
	body := `{"old_urls": ["/v1"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	Compare(snapshotService(), testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
	if _, ok := envelope.Error.Details["new_urls"]; !ok {
		t.Fatalf("expected new_urls in details, got %v", envelope.Error.Details)
	}
}

func TestCompareRejectsUnknownField(t *testing.T) {
	body := `{"old_urls": ["/v1"], "new_urls": ["/v2"], "bogus": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	Compare(snapshotService(), testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.Code)
	}
}
