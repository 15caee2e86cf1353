package handler

import (
	"context"
	"net/http"
	"strings"

	"redactify/internal/geometry"
	"redactify/internal/selection"
)

type createSelectionRequest struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PageNumber *int    `json:"page_number"`
}

// HandleCreateSelection stages a manually drawn rectangle.
// POST /v1/documents/{document_id}/selections
func (h *Handler) HandleCreateSelection(w http.ResponseWriter, r *http.Request) {
	var req createSelectionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	sel, err := h.selections.Create(r.Context(), r.PathValue("document_id"), geometry.Rect{
		X: req.X, Y: req.Y, Width: req.Width, Height: req.Height,
		PageNumber: req.PageNumber,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sel)
}

// HandleListSelections lists every selection of a document.
// GET /v1/documents/{document_id}/selections
func (h *Handler) HandleListSelections(w http.ResponseWriter, r *http.Request) {
	rows, err := h.selections.List(r.Context(), r.PathValue("document_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == nil {
		rows = []selection.Selection{}
	}
	writeJSON(w, http.StatusOK, rows)
}

type targetRequest struct {
	IDs []string `json:"ids"`
	All bool     `json:"all"`
}

func (t targetRequest) target() selection.Target {
	if t.All {
		return selection.TargetAll()
	}
	return selection.TargetIDs(t.IDs...)
}

// HandleCommitSelections promotes staged selections to committed.
// POST /v1/documents/{document_id}/selections/commit
func (h *Handler) HandleCommitSelections(w http.ResponseWriter, r *http.Request) {
	h.lifecycleOp(w, r, h.selections.Commit)
}

// HandleUncommitSelections downgrades committed selections for re-review.
// POST /v1/documents/{document_id}/selections/uncommit
func (h *Handler) HandleUncommitSelections(w http.ResponseWriter, r *http.Request) {
	h.lifecycleOp(w, r, h.selections.Uncommit)
}

func (h *Handler) lifecycleOp(w http.ResponseWriter, r *http.Request, op func(context.Context, string, selection.Target) ([]selection.Selection, error)) {
	documentID := strings.TrimSpace(r.PathValue("document_id"))
	var req targetRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	rows, err := op(r.Context(), documentID, req.target())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rows == nil {
		rows = []selection.Selection{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleClearSelections deletes staged selections; committed rows survive.
// POST /v1/documents/{document_id}/selections/clear
func (h *Handler) HandleClearSelections(w http.ResponseWriter, r *http.Request) {
	documentID := strings.TrimSpace(r.PathValue("document_id"))
	var req targetRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	n, err := h.selections.Clear(r.Context(), documentID, req.target())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}
