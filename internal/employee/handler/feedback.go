package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/newwork/people-service/internal/employee/service"
	"github.com/newwork/people-service/pkg/httputil"
	"github.com/newwork/people-service/pkg/logger"
	"github.com/newwork/people-service/pkg/principal"
)

// FeedbackHandler handles feedback endpoints
type FeedbackHandler struct {
	service *service.FeedbackService
	logger  *logger.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(svc *service.FeedbackService, log *logger.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: svc,
		logger:  log,
	}
}

// Create records feedback from the caller about another employee
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := principal.MustFromContext(r.Context())

	var req service.CreateFeedbackRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	fb, err := h.service.Create(r.Context(), p.UserID, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, fb)
}

// ListForUser returns the feedback about a user visible to the caller
func (h *FeedbackHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	p := principal.MustFromContext(r.Context())
	targetID := chi.URLParam(r, "userId")

	feedback, err := h.service.ListForUser(r.Context(), p.UserID, targetID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, feedback)
}

// Authored returns the caller's written feedback
func (h *FeedbackHandler) Authored(w http.ResponseWriter, r *http.Request) {
	p := principal.MustFromContext(r.Context())

	feedback, err := h.service.ListAuthored(r.Context(), p.UserID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, feedback)
}

// Received returns the caller's received feedback
func (h *FeedbackHandler) Received(w http.ResponseWriter, r *http.Request) {
	p := principal.MustFromContext(r.Context())

	feedback, err := h.service.ListReceived(r.Context(), p.UserID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, feedback)
}

// polishRequest carries a feedback draft to be rewritten
type polishRequest struct {
	OriginalText string `json:"originalText" validate:"required"`
}

// polishResponse returns the rewritten draft alongside the original
type polishResponse struct {
	OriginalText string `json:"originalText"`
	PolishedText string `json:"polishedText"`
}

// Polish rewrites a feedback draft through the text polisher. Nothing
// is stored; the caller submits the result through Create.
func (h *FeedbackHandler) Polish(w http.ResponseWriter, r *http.Request) {
	var req polishRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	polished, err := h.service.Polish(r.Context(), req.OriginalText)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, polishResponse{
		OriginalText: req.OriginalText,
		PolishedText: polished,
	})
}
