package controllers

import (
	"net/http"

	"github.com/enpal-growth/landing-insights/api/responses"
	"github.com/enpal-growth/landing-insights/api/validators"
	"github.com/enpal-growth/landing-insights/internal/compare"
	"github.com/enpal-growth/landing-insights/internal/events"
	"github.com/enpal-growth/landing-insights/pkg/logger"
)

// CompareRequest selects the two landing cohorts out of the shared snapshot.
// Cohorts are identified by landing page URLs; the optional window and
// campaign/channel sets narrow both sides identically.
type CompareRequest struct {
	OldName   string   `json:"old_name"`
	NewName   string   `json:"new_name"`
	OldURLs   []string `json:"old_urls" validate:"required,min=1"`
	NewURLs   []string `json:"new_urls" validate:"required,min=1"`
	StartDate string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Campaigns []string `json:"campaigns"`
	Channels  []string `json:"channels"`
}

// cohorts splits the snapshot into the request's OLD and NEW tables and
// resolves the period label and display names.
func (req CompareRequest) cohorts(table events.Table) (old, new events.Table, oldName, newName, dateRange string) {
	filter := cohortFilter{Campaigns: req.Campaigns, Channels: req.Channels}
	if req.StartDate != "" {
		filter.Start, _ = parseDate(req.StartDate)
	}
	if req.EndDate != "" {
		filter.End, _ = parseDate(req.EndDate)
	}

	base := filter.apply(table)
	old = base.FilterByURLs(req.OldURLs)
	new = base.FilterByURLs(req.NewURLs)

	oldName, newName = req.OldName, req.NewName
	if oldName == "" {
		oldName = req.OldURLs[0]
	}
	if newName == "" {
		newName = req.NewURLs[0]
	}
	return old, new, oldName, newName, filter.label(base)
}

// Compare scores the two cohorts and returns the executive summary.
func Compare(svc EventsService, logg *logger.Logger) http.HandlerFunc {
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

		old, new, oldName, newName, dateRange := req.cohorts(table)
		responses.WriteSuccess(w, compare.BuildSummary(old, new, oldName, newName, dateRange))
	}
}
