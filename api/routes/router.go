package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/enpal-growth/landing-insights/api/controllers"
	"github.com/enpal-growth/landing-insights/api/middleware"
	"github.com/enpal-growth/landing-insights/internal/report"
	"github.com/enpal-growth/landing-insights/pkg/config"
	"github.com/enpal-growth/landing-insights/pkg/logger"
	"github.com/enpal-growth/landing-insights/pkg/redis"
)

// narrativePolicy bounds LLM spend per window across all clients.
var narrativePolicy = middleware.RateLimitPolicy{
	Scope:  "narrative",
	Limit:  10,
	Window: time.Minute,
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	healthDeps map[string]controllers.Pinger,
	eventsService controllers.EventsService,
	narrativeService controllers.NarrativeService,
	reportRegistry *report.Registry,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, healthDeps))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/events", controllers.Events(eventsService, logg))
		r.Post("/events/refresh", controllers.EventsRefresh(eventsService, logg))
		r.Get("/events/aggregate", controllers.EventsAggregate(eventsService, logg))
		r.Get("/funnel", controllers.Funnel(eventsService, logg))
		r.Get("/kpis", controllers.KPIs(eventsService, logg))
		r.Get("/export/csv", controllers.ExportCSV(eventsService, logg))

		r.Route("/dimensions", func(r chi.Router) {
			r.Get("/", controllers.Dimensions(eventsService, logg))
			r.Get("/event-actions", controllers.DimensionEventActions(eventsService, logg))
			r.Get("/channels", controllers.DimensionChannels(eventsService, logg))
		})

		r.Post("/compare", controllers.Compare(eventsService, logg))

		r.With(middleware.RateLimit(narrativePolicy, redisClient, logg)).
			Post("/narrative", controllers.Narrative(eventsService, narrativeService, logg))

		r.Route("/report", func(r chi.Router) {
			r.Use(middleware.ReportSession(logg))
			r.Post("/analyses", controllers.ReportAdd(eventsService, reportRegistry, logg))
			r.Get("/analyses", controllers.ReportList(reportRegistry, logg))
			r.Delete("/", controllers.ReportClear(reportRegistry, logg))
			r.Get("/export", controllers.ReportExport(reportRegistry, logg))
		})
	})

	return r
}
