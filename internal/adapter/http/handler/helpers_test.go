package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/ledgerlens/internal/adapter/http/dto"
	"github.com/iho/ledgerlens/internal/domain"
)

func TestIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transactions?limit=50", nil)
	if got, err := intQuery(req, "limit"); err != nil || got != 50 {
		t.Fatalf("expected limit=50, got %d (%v)", got, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/transactions?limit=ten", nil)
	_, err := intQuery(req, "limit")
	var invalid *domain.InvalidInputError
	if !errors.As(err, &invalid) || invalid.Field != "limit" {
		t.Fatalf("expected invalid input on limit, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/transactions", nil)
	if got, err := intQuery(req, "limit"); err != nil || got != 0 {
		t.Fatalf("expected zero when missing, got %d (%v)", got, err)
	}
}

func TestBoolQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ledgers?include_zero=true", nil)
	if got, err := boolQuery(req, "include_zero"); err != nil || !got {
		t.Fatalf("expected true, got %v (%v)", got, err)
	}
	req = httptest.NewRequest(http.MethodGet, "/ledgers?include_zero=maybe", nil)
	if _, err := boolQuery(req, "include_zero"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestWriteOutcomeStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		envelope string
		kind     string
	}{
		{"invalid input", domain.Invalid("start_date", "bad"), http.StatusBadRequest, dto.StatusError, dto.KindInvalidInput},
		{"not found", &domain.NotFoundError{Kind: domain.EntityAccount, Fragment: "zz"}, http.StatusNotFound, dto.StatusError, dto.KindNotFound},
		{"no data", domain.NoData(nil, "nothing"), http.StatusOK, dto.StatusNoData, ""},
		{"unavailable", domain.Unavailable("cash flow", errors.New("conn refused")), http.StatusServiceUnavailable, dto.StatusError, dto.KindDataUnavailable},
		{"delivery", fmt.Errorf("%w: gmail, smtp", domain.ErrNoDeliveryMethod), http.StatusBadGateway, dto.StatusError, dto.KindDeliveryFailed},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.StatusError, dto.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeOutcome(rr, tt.err)

			if rr.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rr.Code)
			}
			var env dto.Envelope
			if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
				t.Fatalf("failed to decode envelope: %v", err)
			}
			if env.Status != tt.envelope || env.ErrorKind != tt.kind {
				t.Fatalf("expected %s/%s, got %s/%s", tt.envelope, tt.kind, env.Status, env.ErrorKind)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var decoded map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if decoded["status"] != "ok" {
		t.Fatalf("unexpected payload: %v", decoded)
	}
}
