package controllers

import (
	"net/http"

	"github.com/enpal-growth/landing-insights/api/middleware"
	"github.com/enpal-growth/landing-insights/api/responses"
	"github.com/enpal-growth/landing-insights/api/validators"
	"github.com/enpal-growth/landing-insights/internal/charts"
	"github.com/enpal-growth/landing-insights/internal/compare"
	"github.com/enpal-growth/landing-insights/internal/report"
	pkgerrors "github.com/enpal-growth/landing-insights/pkg/errors"
	"github.com/enpal-growth/landing-insights/pkg/logger"
)

// ReportAddRequest is a comparison to append to the session's report.
type ReportAddRequest struct {
	AnalysisName string `json:"analysis_name" validate:"required,min=1,max=200"`
	CompareRequest
}

// ReportAdd runs the comparison, renders its KPI chart, and appends both to
// the session report.
func ReportAdd(svc EventsService, registry *report.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := middleware.ReportSessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report session missing from context"))
			return
		}

		var req ReportAddRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		table, _, err := svc.Events(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		old, new, oldName, newName, dateRange := req.cohorts(table)
		summary := compare.BuildSummary(old, new, oldName, newName, dateRange)

		// A failed chart render degrades to a chart-less entry.
		chartPNG, err := charts.KPIComparisonPNG(summary.OldKPIs, summary.NewKPIs)
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "rendering kpi chart", err)
			}
			chartPNG = nil
		}

		filters := map[string]any{
			"start_date": req.StartDate,
			"end_date":   req.EndDate,
			"campaigns":  req.Campaigns,
			"channels":   req.Channels,
			"old_urls":   req.OldURLs,
			"new_urls":   req.NewURLs,
		}

		acc := registry.Session(sessionID)
		id := acc.Add(req.AnalysisName, summary, filters, chartPNG)
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"analysis_id":    id,
			"analysis_count": acc.Len(),
			"summary":        summary,
		})
	}
}

// ReportList returns the session's accumulated analyses.
func ReportList(registry *report.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := middleware.ReportSessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report session missing from context"))
			return
		}

		acc := registry.Session(sessionID)
		responses.WriteSuccess(w, map[string]any{
			"created_at": acc.CreatedAt(),
			"analyses":   acc.Analyses(),
		})
	}
}

// ReportClear empties the session's report.
func ReportClear(registry *report.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := middleware.ReportSessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report session missing from context"))
			return
		}

		registry.Session(sessionID).Clear()
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

// ReportExport renders the session's report as a standalone HTML document.
func ReportExport(registry *report.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := middleware.ReportSessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report session missing from context"))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="landing-analysis-report.html"`)
		if err := registry.Session(sessionID).ExportHTML(w); err != nil && logg != nil {
			logg.Error(r.Context(), "exporting report html", err)
		}
	}
}
