package middleware

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	apperrors "github.com/utafrali/productspec/pkg/errors"
	"github.com/utafrali/productspec/pkg/httputil"
)

// RateLimit returns middleware enforcing one token bucket shared by every
// request it wraps. Safe methods (GET, HEAD, OPTIONS) are not counted.
// A non-positive rps disables the limit.
func RateLimit(rps float64, burst int, logger *slog.Logger) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow() {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				httputil.WriteError(w, r, apperrors.RateLimited(), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
