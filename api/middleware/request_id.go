package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/enpal-growth/landing-insights/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID propagates the caller's request ID, minting one when the header
// is absent or not a UUID, and stamps it on the response and log context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(reqID); err != nil {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
