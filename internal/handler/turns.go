// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/cruise-concierge/internal/booking"
	"github.com/capitalize-ai/cruise-concierge/internal/middleware"
	"github.com/capitalize-ai/cruise-concierge/internal/model"
	"github.com/capitalize-ai/cruise-concierge/internal/nlu"
	"github.com/capitalize-ai/cruise-concierge/internal/service"
	"github.com/capitalize-ai/cruise-concierge/pkg/logger"
)

// TurnHandler handles conversation turn endpoints.
type TurnHandler struct {
	service *service.TurnService
	logger  *logger.Logger
}

// NewTurnHandler creates a new turn handler.
func NewTurnHandler(svc *service.TurnService, log *logger.Logger) *TurnHandler {
	return &TurnHandler{
		service: svc,
		logger:  log,
	}
}

// Turn handles POST /api/v1/turns
func (h *TurnHandler) Turn(w http.ResponseWriter, r *http.Request) {
	var req model.TurnRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID != "" {
		if err := middleware.ValidateSessionID(req.SessionID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	resp, err := h.service.Handle(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Utterance handles POST /api/v1/sessions/{sessionID}/utterances
func (h *TurnHandler) Utterance(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.UtteranceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateUtterance(req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.HandleUtterance(r.Context(), sessionID, req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TurnHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, booking.ErrUnknownIntent):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, nlu.ErrUnresolved):
		writeError(w, http.StatusUnprocessableEntity, "could not understand the request")
	case errors.Is(err, service.ErrResolverDisabled):
		writeError(w, http.StatusNotImplemented, err.Error())
	default:
		h.logger.Error("failed to handle turn",
			zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to handle turn")
	}
}
