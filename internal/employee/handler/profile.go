package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/newwork/people-service/internal/employee/service"
	"github.com/newwork/people-service/pkg/httputil"
	"github.com/newwork/people-service/pkg/logger"
	"github.com/newwork/people-service/pkg/principal"
)

// ProfileHandler handles profile endpoints
type ProfileHandler struct {
	service *service.ProfileService
	logger  *logger.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(svc *service.ProfileService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: svc,
		logger:  log,
	}
}

// Get returns the caller's projection of a profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := principal.MustFromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	view, err := h.service.GetProfile(r.Context(), p.UserID, userID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, view)
}

// Patch applies a sparse profile update. Unknown keys are rejected at
// decode time; known-but-forbidden keys are rejected by the service.
func (h *ProfileHandler) Patch(w http.ResponseWriter, r *http.Request) {
	p := principal.MustFromContext(r.Context())
	userID := chi.URLParam(r, "userId")

	var patch service.ProfilePatch
	if err := httputil.DecodeJSONStrict(r, &patch); err != nil {
		httputil.Error(w, err)
		return
	}

	view, err := h.service.UpdateProfile(r.Context(), p.UserID, userID, &patch)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, view)
}
