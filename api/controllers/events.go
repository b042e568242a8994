package controllers

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/enpal-growth/landing-insights/api/responses"
	"github.com/enpal-growth/landing-insights/api/validators"
	"github.com/enpal-growth/landing-insights/internal/events"
	"github.com/enpal-growth/landing-insights/internal/funnel"
	"github.com/enpal-growth/landing-insights/internal/ingest"
	"github.com/enpal-growth/landing-insights/internal/kpi"
	pkgerrors "github.com/enpal-growth/landing-insights/pkg/errors"
	"github.com/enpal-growth/landing-insights/pkg/logger"
)

// EventsService is the snapshot surface the read endpoints consume.
type EventsService interface {
	Events(ctx context.Context) (events.Table, ingest.Metadata, error)
	Refresh(ctx context.Context) (events.Table, ingest.Metadata, error)
	EventActions(ctx context.Context) ([]events.DimensionCount, error)
	Channels(ctx context.Context) ([]events.DimensionCount, error)
}

// Events returns the filtered event table with its fetch metadata. An
// optional limit caps the rows in the payload; totals always cover the whole
// cohort.
func Events(svc EventsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseCohortFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		table, meta, err := svc.Events(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filtered := filter.apply(table)
		rows := filtered
		if limit > 0 && len(rows) > limit {
			rows = rows[:limit]
		}
		responses.WriteSuccess(w, map[string]any{
			"rows":        rows,
			"total_count": filtered.TotalCount(),
			"meta":        meta,
		})
	}
}

// EventsRefresh drops the snapshot cache and refetches from the source.
func EventsRefresh(svc EventsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, meta, err := svc.Refresh(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"total_count": table.TotalCount(),
			"meta":        meta,
		})
	}
}

// EventsAggregate returns the ranked per-action aggregation with cascade
// conversion ratios.
func EventsAggregate(svc EventsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseCohortFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		table, _, err := svc.Events(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filtered := filter.apply(table)
		ranked := funnel.AggregateByAction(filtered)
		responses.WriteSuccess(w, map[string]any{
			"events":    ranked,
			"max_shown": funnel.MaxRankedEvents,
		})
	}
}

// Funnel returns the fixed-sequence drop-off walk for the filtered cohort.
func Funnel(svc EventsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseCohortFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		table, _, err := svc.Events(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filtered := filter.apply(table)
		responses.WriteSuccess(w, map[string]any{
			"steps": funnel.DropOff(filtered, funnel.Steps()),
		})
	}
}

// KPIs returns the derived KPI set for the filtered cohort.
func KPIs(svc EventsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseCohortFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		table, _, err := svc.Events(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, kpi.Compute(filter.apply(table)))
	}
}

// ExportCSV streams the filtered event table as a CSV download.
func ExportCSV(svc EventsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseCohortFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		table, _, err := svc.Events(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filtered := filter.apply(table)

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="events.csv"`)

		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"date", "event_action", "campaign", "channel", "url", "count"}); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing csv header"))
			return
		}
		for _, row := range filtered {
			record := []string{
				row.Date.Format(dateFormat),
				row.Action,
				row.Campaign,
				row.Channel,
				row.URL,
				strconv.FormatInt(row.Count, 10),
			}
			if err := cw.Write(record); err != nil {
				if logg != nil {
					logg.Error(r.Context(), "writing csv row", err)
				}
				return
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil && logg != nil {
			logg.Error(r.Context(), fmt.Sprintf("flushing csv of %d rows", len(filtered)), err)
		}
	}
}
