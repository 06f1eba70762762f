package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/digilib-tools/arkingest/internal/core"
	"github.com/digilib-tools/arkingest/internal/logging"
)

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCreateImport accepts a multipart manifest upload, validates it,
// and returns the resulting import in the rejected or previewed state.
func (s *Server) handleCreateImport(w http.ResponseWriter, r *http.Request) {
	fileName, data, err := s.readManifest(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	status, err := s.service.StartImport(r.Context(), fileName, data)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("import created",
		"import_id", status.ID,
		"state", status.State,
		"errors", len(status.Validation.Errors),
		"warnings", len(status.Validation.Warnings),
	)
	writeJSON(w, http.StatusCreated, status)
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ListImports())
}

func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.GetImport(chi.URLParam(r, "importID"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleStartImport is the operator confirmation step: previewed imports
// move to importing and rows start flowing to the store.
func (s *Server) handleStartImport(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.ConfirmImport(r.Context(), chi.URLParam(r, "importID"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Info("import confirmed", "import_id", status.ID)
	writeJSON(w, http.StatusAccepted, status)
}

func (s *Server) handleCancelImport(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "importID")
	if err := s.service.CancelImport(importID); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": importID, "status": "cancelling"})
}

// handleRetract runs the cleanup engine against an uploaded manifest.
func (s *Server) handleRetract(w http.ResponseWriter, r *http.Request) {
	fileName, data, err := s.readManifest(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	result := s.service.Retract(r.Context(), data)

	logging.FromContext(r.Context()).Info("retraction processed",
		"manifest", fileName,
		"rows", result.RowsProcessed,
		"deleted", result.WorksDeleted,
		"failed_rows", len(result.FailedRows),
	)
	writeJSON(w, http.StatusOK, result)
}

// readManifest pulls the manifest file out of a multipart form, enforcing
// the configured size cap.
func (s *Server) readManifest(r *http.Request) (string, []byte, error) {
	maxSize := s.cfg.Import.MaxManifestSize
	r.Body = http.MaxBytesReader(nil, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return "", nil, fmt.Errorf("parse upload form: %w", err)
	}

	file, header, err := r.FormFile("manifest")
	if err != nil {
		return "", nil, fmt.Errorf("no manifest file provided: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("read manifest: %w", err)
	}
	return header.Filename, data, nil
}

// respondError logs the technical error with request context and returns
// a JSON body with the message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err,
	)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrImportNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrNotPreviewed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
