package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/iho/ledgerlens/internal/adapter/http/dto"
	"github.com/iho/ledgerlens/internal/infrastructure/auth"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

// AuthHandler exchanges API keys for bearer tokens.
type AuthHandler struct {
	keys       *auth.KeyRing
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
}

// NewAuthHandler creates a new auth handler. m may be nil.
func NewAuthHandler(keys *auth.KeyRing, jwtManager *auth.JWTManager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{keys: keys, jwtManager: jwtManager, metrics: m}
}

// Token issues a token for the principal owning the API key.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	principal, err := h.keys.Authenticate(req.APIKey)
	if err != nil {
		if h.metrics != nil {
			h.metrics.AuthAttempts.WithLabelValues("failure").Inc()
			h.metrics.AuthFailures.WithLabelValues("invalid_credentials").Inc()
		}
		writeError(w, http.StatusUnauthorized, dto.KindUnauthorized, "invalid credentials")
		return
	}

	token, err := h.jwtManager.Generate(principal)
	if err != nil {
		log.Error().Err(err).Str("client", principal.Name).Msg("failed to sign token")
		writeError(w, http.StatusInternalServerError, dto.KindInternal, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, dto.Success(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.jwtManager.ExpiresIn().Seconds()),
		Role:        string(principal.Role),
	}, ""))
}
