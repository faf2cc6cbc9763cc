package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"github.com/iho/ledgerlens/internal/adapter/http/dto"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

// limitedAreas bounds the label values of rate limit metrics.
var limitedAreas = map[string]bool{
	"auth": true, "financial": true, "inventory": true, "sales": true,
	"purchase": true, "overview": true, "export": true, "communication": true,
	"health": true, "ready": true, "metrics": true,
}

// RateLimit limits each client IP to perMinute requests. Rejections are
// counted per API area. m may be nil.
func RateLimit(perMinute int, m *metrics.Metrics) func(http.Handler) http.Handler {
	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if m != nil {
				m.RateLimitHits.WithLabelValues(area(r.URL.Path)).Inc()
			}
			writeFailure(w, http.StatusTooManyRequests, dto.KindRateLimited, "rate limit exceeded")
		}),
	)
}

// area maps a request path to its top-level API area, or "other".
func area(path string) string {
	rest := strings.TrimPrefix(strings.TrimPrefix(path, "/"), "api/v1/")
	name, _, _ := strings.Cut(rest, "/")
	if limitedAreas[name] {
		return name
	}
	return "other"
}
