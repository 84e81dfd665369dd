package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/cruise-concierge/internal/middleware"
	"github.com/capitalize-ai/cruise-concierge/internal/service"
	"github.com/capitalize-ai/cruise-concierge/internal/session"
	"github.com/capitalize-ai/cruise-concierge/pkg/logger"
)

// SessionHandler handles session inspection endpoints.
type SessionHandler struct {
	service *service.TurnService
	logger  *logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(svc *service.TurnService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: svc,
		logger:  log,
	}
}

// Get handles GET /api/v1/sessions/{sessionID}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	sess, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		h.fail(w, err, "failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Delete handles DELETE /api/v1/sessions/{sessionID}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.service.End(r.Context(), sessionID); err != nil {
		h.fail(w, err, "failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Events handles GET /api/v1/sessions/{sessionID}/events
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	events, err := h.service.Events(r.Context(), sessionID, limit)
	if err != nil {
		h.fail(w, err, "failed to read session events")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"events":     events,
	})
}

func (h *SessionHandler) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := middleware.ValidateSessionID(sessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return sessionID, true
}

func (h *SessionHandler) fail(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrEventsDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message)
	}
}
