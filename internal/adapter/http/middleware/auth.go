package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/iho/ledgerlens/internal/adapter/http/dto"
	"github.com/iho/ledgerlens/internal/infrastructure/auth"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

type principalKey struct{}

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the authenticated client from ctx.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(auth.Principal)
	return p, ok
}

// Auth requires a valid bearer token. m may be nil.
func Auth(jwtManager *auth.JWTManager, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				recordAuth(m, "missing_token")
				writeFailure(w, http.StatusUnauthorized, dto.KindUnauthorized, "missing or malformed authorization header")
				return
			}

			claims, err := jwtManager.Verify(token)
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, auth.ErrExpiredToken) {
					reason = "expired_token"
				}
				recordAuth(m, reason)
				writeFailure(w, http.StatusUnauthorized, dto.KindUnauthorized, err.Error())
				return
			}

			recordAuth(m, "")
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), claims.Principal())))
		})
	}
}

// RequireRole rejects callers whose role does not grant min. Without Auth in
// front of it every request is rejected.
func RequireRole(min auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeFailure(w, http.StatusUnauthorized, dto.KindUnauthorized, "unauthorized")
				return
			}
			if !p.Role.Allows(min) {
				writeFailure(w, http.StatusForbidden, dto.KindForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func recordAuth(m *metrics.Metrics, failure string) {
	if m == nil {
		return
	}
	if failure == "" {
		m.AuthAttempts.WithLabelValues("success").Inc()
		return
	}
	m.AuthAttempts.WithLabelValues("failure").Inc()
	m.AuthFailures.WithLabelValues(failure).Inc()
}
