package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerlens/internal/adapter/http/dto"
	"github.com/iho/ledgerlens/internal/domain"
	"github.com/iho/ledgerlens/internal/usecase"
)

// maxBodyBytes caps communication request bodies.
const maxBodyBytes = 1 << 20

// CommunicationService defines the behavior needed by CommunicationHandler.
type CommunicationService interface {
	SendEmail(ctx context.Context, input usecase.SendEmailInput) (*domain.DeliveryReceipt, error)
	ScheduleEvent(ctx context.Context, input usecase.ScheduleEventInput) (*domain.ScheduledEvent, error)
}

// CommunicationHandler sends email and schedules calendar events.
type CommunicationHandler struct {
	commsUC CommunicationService
}

// NewCommunicationHandler creates a new CommunicationHandler.
func NewCommunicationHandler(commsUC CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{commsUC: commsUC}
}

// Routes mounts the communication endpoints.
func (h *CommunicationHandler) Routes(r chi.Router) {
	r.Post("/email", h.SendEmail)
	r.Post("/events", h.ScheduleEvent)
}

// SendEmail delivers an email through the first delivery method that works.
func (h *CommunicationHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.SendEmailRequest
	if !decode(w, r, &req) {
		return
	}

	receipt, err := h.commsUC.SendEmail(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeOutcome(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.Success(dto.DeliveryFromDomain(receipt), ""))
}

// ScheduleEvent creates a calendar event.
func (h *CommunicationHandler) ScheduleEvent(w http.ResponseWriter, r *http.Request) {
	var req dto.ScheduleEventRequest
	if !decode(w, r, &req) {
		return
	}

	event, err := h.commsUC.ScheduleEvent(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeOutcome(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.Success(dto.EventFromDomain(event), ""))
}

// decode reads a JSON body into req and validates it. On failure the
// invalid input envelope has been written.
func decode(w http.ResponseWriter, r *http.Request, req any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, dto.KindInvalidInput, "invalid request body: "+err.Error())
		return false
	}
	if err := dto.Validate(req); err != nil {
		writeOutcome(w, err)
		return false
	}
	return true
}
