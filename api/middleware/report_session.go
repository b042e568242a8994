package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/enpal-growth/landing-insights/api/responses"
	pkgerrors "github.com/enpal-growth/landing-insights/pkg/errors"
	"github.com/enpal-growth/landing-insights/pkg/logger"
)

const reportSessionHeader = "X-Report-Session"

type reportSessionKey struct{}

// ReportSession scopes report routes to one accumulator. The session UUID
// comes from the X-Report-Session header; a request without one gets a fresh
// session, and the ID is always echoed back so the client can keep it.
func ReportSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id uuid.UUID
			if raw := r.Header.Get(reportSessionHeader); raw == "" {
				id = uuid.New()
			} else {
				var err error
				if id, err = uuid.Parse(raw); err != nil {
					responses.WriteError(r.Context(), logg, w,
						pkgerrors.Wrap(pkgerrors.CodeValidation, err, "X-Report-Session must be a UUID"))
					return
				}
			}

			w.Header().Set(reportSessionHeader, id.String())

			ctx := context.WithValue(r.Context(), reportSessionKey{}, id)
			if logg != nil {
				ctx = logg.WithReportSession(ctx, id.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ReportSessionFromContext returns the session ID attached by ReportSession.
func ReportSessionFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(reportSessionKey{}).(uuid.UUID)
	return id, ok
}
