package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"redactify/internal/gateway/repository/artifact"
	"redactify/internal/gateway/repository/documentrepo"
	"redactify/internal/redact"
)

// maxUploadBytes caps document uploads at 64 MiB.
const maxUploadBytes = 64 << 20

// HandleUploadDocument stores the raw PDF body and its metadata row.
// POST /v1/projects/{project_id}/documents?name=...
func (h *Handler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(r.PathValue("project_id"))
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "project_id is required")
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty document body")
		return
	}
	if len(data) > maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "document too large")
		return
	}

	id := uuid.NewString()
	key := id + ".pdf"
	if err := h.artifacts.Put(r.Context(), projectID, key, data); err != nil {
		writeError(w, http.StatusInternalServerError, "store document: "+err.Error())
		return
	}
	doc, err := h.docs.Create(r.Context(), documentrepo.Document{
		ID:        id,
		ProjectID: projectID,
		Name:      strings.TrimSpace(r.URL.Query().Get("name")),
		ObjectKey: key,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create document: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// HandleListDocuments lists a project's documents.
// GET /v1/projects/{project_id}/documents
func (h *Handler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.ListByProject(r.Context(), r.PathValue("project_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if docs == nil {
		docs = []documentrepo.Document{}
	}
	writeJSON(w, http.StatusOK, docs)
}

// HandleGetDocument returns one document's metadata.
// GET /v1/documents/{document_id}
func (h *Handler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Get(r.Context(), r.PathValue("document_id"))
	if errors.Is(err, documentrepo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// HandleDeleteDocument removes a document, its binary, and its selections.
// DELETE /v1/documents/{document_id}
func (h *Handler) HandleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := h.docs.Get(ctx, r.PathValue("document_id"))
	if errors.Is(err, documentrepo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// cascade: selections first, then the binary, then the row
	if _, err := h.selections.Purge(ctx, doc.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.artifacts.Delete(ctx, doc.ProjectID, doc.ObjectKey); err != nil && !errors.Is(err, artifact.ErrNotFound) {
		h.log.Warn().Err(err).Str("document_id", doc.ID).Msg("delete document binary failed")
	}
	if err := h.docs.Delete(ctx, doc.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRedactDocument runs the committed selections through the redaction
// engine and returns the redacted PDF. The redacted copy is also stored next
// to the original.
// POST /v1/documents/{document_id}/redact
func (h *Handler) HandleRedactDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := h.docs.Get(ctx, r.PathValue("document_id"))
	if errors.Is(err, documentrepo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	data, err := h.artifacts.Get(ctx, doc.ProjectID, doc.ObjectKey)
	if errors.Is(err, artifact.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document binary not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	committed, err := h.selections.ListCommitted(ctx, doc.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out, err := h.redactor.Redact(ctx, data, committed)
	if err != nil {
		var re *redact.RedactionError
		if errors.As(err, &re) {
			writeError(w, http.StatusUnprocessableEntity, re.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	redactedKey := strings.TrimSuffix(doc.ObjectKey, ".pdf") + ".redacted.pdf"
	if err := h.artifacts.Put(ctx, doc.ProjectID, redactedKey, out); err != nil {
		h.log.Warn().Err(err).Str("document_id", doc.ID).Msg("store redacted copy failed")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
