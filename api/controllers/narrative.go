package controllers

import (
	"context"
	"net/http"

	"github.com/enpal-growth/landing-insights/api/responses"
	"github.com/enpal-growth/landing-insights/api/validators"
	"github.com/enpal-growth/landing-insights/internal/events"
	"github.com/enpal-growth/landing-insights/internal/narrative"
	"github.com/enpal-growth/landing-insights/pkg/logger"
)

// NarrativeService produces the model-written cohort comparison.
type NarrativeService interface {
	Analyze(ctx context.Context, oldTable, newTable events.Table, startDate, endDate string) (narrative.Result, error)
}

// Narrative asks the analyst model to compare the two cohorts in prose.
// The cohort selection is identical to Compare.
func Narrative(svc EventsService, analyst NarrativeService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CompareRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		table, _, err := svc.Events(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		old, new, _, _, _ := req.cohorts(table)

		start, end := req.StartDate, req.EndDate
		if start == "" || end == "" {
			if min, max, ok := table.DateBounds(); ok {
				if start == "" {
					start = min.Format(dateFormat)
				}
				if end == "" {
					end = max.Format(dateFormat)
				}
			}
		}

		result, err := analyst.Analyze(r.Context(), old, new, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
