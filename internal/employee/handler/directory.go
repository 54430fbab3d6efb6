package handler

import (
	"net/http"

	"github.com/newwork/people-service/internal/employee/service"
	"github.com/newwork/people-service/pkg/httputil"
	"github.com/newwork/people-service/pkg/logger"
	"github.com/newwork/people-service/pkg/principal"
)

// DirectoryHandler handles the coworker roster endpoint
type DirectoryHandler struct {
	service *service.DirectoryService
	logger  *logger.Logger
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(svc *service.DirectoryService, log *logger.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		service: svc,
		logger:  log,
	}
}

// List returns the directory for the caller
func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	p := principal.MustFromContext(r.Context())

	filter := service.DirectoryFilter{
		Search:            r.URL.Query().Get("search"),
		Department:        r.URL.Query().Get("department"),
		DirectReportsOnly: r.URL.Query().Get("directReportsOnly") == "true",
	}

	entries, err := h.service.Directory(r.Context(), p.UserID, filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}
