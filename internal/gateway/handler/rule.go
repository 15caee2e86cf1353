package handler

import (
	"errors"
	"net/http"
	"strings"

	"redactify/internal/gateway/repository/directiverulerepo"
)

type createRuleRequest struct {
	Text     string `json:"text"`
	Approved bool   `json:"approved"`
	Position int    `json:"position"`
}

// HandleCreateRule adds a directive rule to a document.
// POST /v1/documents/{document_id}/rules
func (h *Handler) HandleCreateRule(w http.ResponseWriter, r *http.Request) {
	var req createRuleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	rule, err := h.rules.Create(r.Context(), directiverulerepo.Rule{
		DocumentID: r.PathValue("document_id"),
		Text:       req.Text,
		Approved:   req.Approved,
		Position:   req.Position,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

// HandleListRules lists a document's directive rules.
// GET /v1/documents/{document_id}/rules
func (h *Handler) HandleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.rules.ListByDocument(r.Context(), r.PathValue("document_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rules == nil {
		rules = []directiverulerepo.Rule{}
	}
	writeJSON(w, http.StatusOK, rules)
}

type approveRuleRequest struct {
	Approved bool `json:"approved"`
}

// HandleApproveRule toggles a rule's approval.
// PUT /v1/rules/{rule_id}/approve
func (h *Handler) HandleApproveRule(w http.ResponseWriter, r *http.Request) {
	var req approveRuleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	rule, err := h.rules.SetApproved(r.Context(), r.PathValue("rule_id"), req.Approved)
	if errors.Is(err, directiverulerepo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "rule not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// HandleDeleteRule removes a directive rule.
// DELETE /v1/rules/{rule_id}
func (h *Handler) HandleDeleteRule(w http.ResponseWriter, r *http.Request) {
	if err := h.rules.Delete(r.Context(), r.PathValue("rule_id")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
