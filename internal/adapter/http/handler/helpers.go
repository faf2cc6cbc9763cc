package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iho/ledgerlens/internal/adapter/http/dto"
	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/infrastructure/metrics"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error envelope of the given kind.
func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, dto.Failure(kind, message))
}

// writeOutcome classifies err and writes the matching envelope.
func writeOutcome(w http.ResponseWriter, err error) {
	env := dto.FromError(err)
	writeJSON(w, statusFor(env), env)
}

// statusFor maps an envelope to its HTTP status. No data is a successful
// query and is served with 200.
func statusFor(env dto.Envelope) int {
	if env.Status != dto.StatusError {
		return http.StatusOK
	}
	switch env.ErrorKind {
	case dto.KindInvalidInput:
		return http.StatusBadRequest
	case dto.KindNotFound:
		return http.StatusNotFound
	case dto.KindDataUnavailable:
		return http.StatusServiceUnavailable
	case dto.KindDeliveryFailed:
		return http.StatusBadGateway
	case dto.KindUnauthorized:
		return http.StatusUnauthorized
	case dto.KindForbidden:
		return http.StatusForbidden
	case dto.KindConflict:
		return http.StatusConflict
	case dto.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// reply writes data wrapped in a success envelope, or the outcome of err.
func reply[T, R any](w http.ResponseWriter, currency string, report T, err error, convert func(T) R) {
	if err != nil {
		writeOutcome(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.Success(convert(report), currency))
}

// query returns a trimmed query parameter.
func query(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// intQuery parses an integer query parameter. A missing value yields zero
// so the use case applies its default.
func intQuery(r *http.Request, key string) (int, error) {
	val := query(r, key)
	if val == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, domain.Invalid(key, "must be an integer")
	}
	return i, nil
}

// boolQuery parses a boolean query parameter; missing means false.
func boolQuery(r *http.Request, key string) (bool, error) {
	val := query(r, key)
	if val == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, domain.Invalid(key, "must be true or false")
	}
	return b, nil
}

// reports counts served reports per domain. A nil Metrics records nothing.
type reports struct {
	m    *metrics.Metrics
	area string
}

func (r reports) observe(op string, start time.Time, err error) {
	if r.m == nil {
		return
	}
	outcome := dto.StatusSuccess
	if err != nil {
		outcome = dto.FromError(err).Status
	}
	r.m.Reports.WithLabelValues(r.area, op, outcome).Inc()
	r.m.ReportDuration.WithLabelValues(r.area, op).Observe(time.Since(start).Seconds())
}
