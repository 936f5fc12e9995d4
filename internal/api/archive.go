package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"

	"github.com/google/uuid"

	"github.com/adityaanikam/AI-agent-project/internal/records"
	"github.com/adityaanikam/AI-agent-project/pkg/handlers"
	"github.com/adityaanikam/AI-agent-project/pkg/openapi"
	"github.com/adityaanikam/AI-agent-project/pkg/routes"
	"github.com/adityaanikam/AI-agent-project/pkg/storage"
)

// ErrNotArchived indicates the record's upload was not kept in storage.
var ErrNotArchived = errors.New("record has no archived upload")

var downloadDoc = &openapi.Operation{
	Summary:    "Download the original upload of a record",
	Tags:       []string{"Records"},
	Parameters: []*openapi.Parameter{openapi.PathParam("id", "Record ID")},
	Responses: map[int]*openapi.Response{
		200: {
			Description: "Uploaded file",
			Content: map[string]*openapi.MediaType{
				"application/octet-stream": {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
			},
		},
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		503: openapi.ResponseRef("ServiceUnavailable"),
	},
}

type archiveHandler struct {
	records records.System
	store   storage.System
	logger  *slog.Logger
}

func newArchiveHandler(recs records.System, store storage.System, logger *slog.Logger) *archiveHandler {
	return &archiveHandler{
		records: recs,
		store:   store,
		logger:  logger.With("handler", "archive"),
	}
}

func (h *archiveHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/archive",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: h.download, Doc: downloadDoc},
		},
	}
}

// download streams the original upload for a record.
func (h *archiveHandler) download(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		handlers.RespondError(w, h.logger, http.StatusServiceUnavailable, storage.ErrDisabled)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, records.ErrInvalidID)
		return
	}

	rec, err := h.records.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, records.MapHTTPStatus(err), err)
		return
	}

	key, _ := rec.InputMetadata["archive_key"].(string)
	if key == "" {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotArchived)
		return
	}

	blob, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer blob.Body.Close()

	w.Header().Set("Content-Type", blob.ContentType)
	if blob.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.ContentLength, 10))
	}
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, blob.Body)
}
