package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/adityaanikam/AI-agent-project/internal/records"
	"github.com/adityaanikam/AI-agent-project/pkg/handlers"
	"github.com/adityaanikam/AI-agent-project/pkg/routes"
	"github.com/adityaanikam/AI-agent-project/pkg/storage"
)

// Submitter starts runs for submissions.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (*records.Record, error)
}

// Archive stores raw uploads.
type Archive interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
}

// Accepted is the response body for an accepted submission.
type Accepted struct {
	Status    string    `json:"status"`
	ProcessID uuid.UUID `json:"process_id"`
	Message   string    `json:"message"`
}

// Handler accepts file submissions over HTTP.
type Handler struct {
	submitter     Submitter
	archive       Archive
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler. archive may be nil, in which case uploads
// are not archived.
func NewHandler(
	submitter Submitter,
	archive Archive,
	logger *slog.Logger,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		submitter:     submitter,
		archive:       archive,
		logger:        logger.With("handler", "pipeline"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group for submissions.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/process", Handler: h.Process, Doc: processDoc},
		},
	}
}

// Process reads a multipart file and optional format override, archives the
// upload, and starts its run. It responds 202 before the run completes.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingFile)
		return
	}

	override, err := ParseOverride(r.FormValue("format"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingFile)
		return
	}

	sub := NewSubmission(data, header.Filename, detectContentType(header.Header.Get("Content-Type"), data), override)

	if h.archive != nil {
		key := archiveKey(uuid.New(), header.Filename)
		if err := h.archive.Upload(r.Context(), key, bytes.NewReader(data), sub.ContentType); err != nil {
			handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), fmt.Errorf("archive upload: %w", err))
			return
		}
		sub.ArchiveKey = key
	}

	rec, err := h.submitter.Submit(r.Context(), sub)
	if err != nil {
		if sub.ArchiveKey != "" {
			if delErr := h.archive.Delete(r.Context(), sub.ArchiveKey); delErr != nil {
				h.logger.Warn("compensating archive delete failed", "key", sub.ArchiveKey, "error", delErr)
			}
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, Accepted{
		Status:    "processing",
		ProcessID: rec.ID,
		Message:   "File processing started",
	})
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func archiveKey(id uuid.UUID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == ".." || name == "/" || name == "" {
		name = "upload"
	}
	return fmt.Sprintf("uploads/%s/%s", id, name)
}
