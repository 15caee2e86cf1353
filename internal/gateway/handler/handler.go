// Package handler exposes the redaction core over HTTP: document upload,
// selection lifecycle, redaction, and the staging streams.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"redactify/internal/gateway/repository/artifact"
	"redactify/internal/gateway/repository/directiverulerepo"
	"redactify/internal/gateway/repository/documentrepo"
	"redactify/internal/llmclient"
	"redactify/internal/redact"
	"redactify/internal/selection"
	"redactify/internal/staging"
)

// Handler carries every service the HTTP surface needs.
type Handler struct {
	docs       documentrepo.Store
	rules      directiverulerepo.Store
	artifacts  artifact.Store
	selections *selection.Service
	stager     *staging.Orchestrator
	redactor   *redact.Engine
	llm        llmclient.Client
	log        zerolog.Logger
}

type Deps struct {
	Documents  documentrepo.Store
	Rules      directiverulerepo.Store
	Artifacts  artifact.Store
	Selections *selection.Service
	Stager     *staging.Orchestrator
	Redactor   *redact.Engine
	LLM        llmclient.Client
	Logger     zerolog.Logger
}

func New(deps Deps) *Handler {
	return &Handler{
		docs:       deps.Documents,
		rules:      deps.Rules,
		artifacts:  deps.Artifacts,
		selections: deps.Selections,
		stager:     deps.Stager,
		redactor:   deps.Redactor,
		llm:        deps.LLM,
		log:        deps.Logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
