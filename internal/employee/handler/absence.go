package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/newwork/people-service/internal/employee/service"
	"github.com/newwork/people-service/pkg/httputil"
	"github.com/newwork/people-service/pkg/logger"
	"github.com/newwork/people-service/pkg/principal"
)

// AbsenceHandler handles absence request endpoints
type AbsenceHandler struct {
	service *service.AbsenceService
	logger  *logger.Logger
}

// NewAbsenceHandler creates a new absence handler
func NewAbsenceHandler(svc *service.AbsenceService, log *logger.Logger) *AbsenceHandler {
	return &AbsenceHandler{
		service: svc,
		logger:  log,
	}
}

// Create submits a new absence request for the caller
func (h *AbsenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := principal.MustFromContext(r.Context())

	var req service.SubmitAbsenceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	absence, err := h.service.Submit(r.Context(), p.UserID, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, absence)
}

// Mine lists the caller's own absence requests
func (h *AbsenceHandler) Mine(w http.ResponseWriter, r *http.Request) {
	p := principal.MustFromContext(r.Context())

	absences, err := h.service.ListMine(r.Context(), p.UserID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, absences)
}

// Pending lists requests waiting on the caller as snapshot manager
func (h *AbsenceHandler) Pending(w http.ResponseWriter, r *http.Request) {
	p := principal.MustFromContext(r.Context())

	absences, err := h.service.ListPending(r.Context(), p.UserID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, absences)
}

// decideRequest is the status-change body
type decideRequest struct {
	Action string  `json:"action" validate:"required"`
	Note   *string `json:"note" validate:"omitempty,max=500"`
}

// UpdateStatus approves or rejects a pending request
func (h *AbsenceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p := principal.MustFromContext(r.Context())
	absenceID := chi.URLParam(r, "id")

	var req decideRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	absence, err := h.service.Decide(r.Context(), p.UserID, absenceID, req.Action, req.Note)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, absence)
}
