package records

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/adityaanikam/AI-agent-project/pkg/handlers"
	"github.com/adityaanikam/AI-agent-project/pkg/pagination"
	"github.com/adityaanikam/AI-agent-project/pkg/routes"
)

// Handler provides HTTP endpoints for record status and history.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "records"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for record endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/status/{id}", Handler: h.Status, Doc: statusDoc},
			{Method: "GET", Pattern: "/history", Handler: h.History, Doc: historyDoc},
		},
	}
}

// Status returns the full record for the id path parameter.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	rec, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// History returns record summaries, newest first unless sort is given.
// Accepts page, page_size or limit, sort, status, and format query parameters.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.History(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
