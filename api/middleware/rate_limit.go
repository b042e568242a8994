package middleware

import (
	"net/http"
	"time"

	"github.com/enpal-growth/landing-insights/api/responses"
	pkgerrors "github.com/enpal-growth/landing-insights/pkg/errors"
	"github.com/enpal-growth/landing-insights/pkg/logger"
	"github.com/enpal-growth/landing-insights/pkg/redis"
)

// RateLimitPolicy is a fixed-window limit applied per scope.
type RateLimitPolicy struct {
	Scope  string
	Limit  int64
	Window time.Duration
}

// RateLimit rejects requests beyond the policy's window limit. Redis
// failures fail open so a cache outage never takes the endpoint down.
func RateLimit(policy RateLimitPolicy, rc *redis.Client, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rc == nil {
				next.ServeHTTP(w, r)
				return
			}

			allowed, _, err := rc.FixedWindowAllow(r.Context(), policy.Scope, policy.Limit, policy.Window)
			if err != nil {
				if logg != nil {
					ctx := logg.WithField(r.Context(), "error", err.Error())
					logg.Warn(ctx, "rate limit check failed, allowing request")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests, retry later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
