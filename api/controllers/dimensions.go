package controllers

import (
	"net/http"

	"github.com/enpal-growth/landing-insights/api/responses"
	"github.com/enpal-growth/landing-insights/pkg/logger"
)

// Dimensions lists the filter options present in the current snapshot:
// campaigns, channels and landing pages with their event volumes.
func Dimensions(svc EventsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, _, err := svc.Events(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"campaigns": table.Campaigns(),
			"channels":  table.Channels(),
			"urls":      table.URLs(),
		})
	}
}

// DimensionEventActions lists the distinct event actions known to the
// source, beyond what the current snapshot happens to contain.
func DimensionEventActions(svc EventsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dims, err := svc.EventActions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"event_actions": dims})
	}
}

// DimensionChannels lists the distinct traffic channels known to the source.
func DimensionChannels(svc EventsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dims, err := svc.Channels(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"channels": dims})
	}
}
