package server

import (
	"net/http"

	"github.com/rs/zerolog"

	"redactify/internal/gateway/handler"
	"redactify/internal/gateway/middleware"
)

func NewMux(h *handler.Handler, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Documents
	mux.HandleFunc("POST /v1/projects/{project_id}/documents", h.HandleUploadDocument)
	mux.HandleFunc("GET /v1/projects/{project_id}/documents", h.HandleListDocuments)
	mux.HandleFunc("GET /v1/documents/{document_id}", h.HandleGetDocument)
	mux.HandleFunc("DELETE /v1/documents/{document_id}", h.HandleDeleteDocument)
	mux.HandleFunc("POST /v1/documents/{document_id}/redact", h.HandleRedactDocument)

	// Selection lifecycle
	mux.HandleFunc("POST /v1/documents/{document_id}/selections", h.HandleCreateSelection)
	mux.HandleFunc("GET /v1/documents/{document_id}/selections", h.HandleListSelections)
	mux.HandleFunc("POST /v1/documents/{document_id}/selections/commit", h.HandleCommitSelections)
	mux.HandleFunc("POST /v1/documents/{document_id}/selections/uncommit", h.HandleUncommitSelections)
	mux.HandleFunc("POST /v1/documents/{document_id}/selections/clear", h.HandleClearSelections)

	// Directive rules
	mux.HandleFunc("POST /v1/documents/{document_id}/rules", h.HandleCreateRule)
	mux.HandleFunc("GET /v1/documents/{document_id}/rules", h.HandleListRules)
	mux.HandleFunc("PUT /v1/rules/{rule_id}/approve", h.HandleApproveRule)
	mux.HandleFunc("DELETE /v1/rules/{rule_id}", h.HandleDeleteRule)

	// Staging
	mux.HandleFunc("POST /v1/documents/{document_id}/staging", h.HandleStageDocument)
	mux.HandleFunc("GET /v1/documents/{document_id}/staging/stream", h.HandleStageDocumentStream)
	mux.HandleFunc("POST /v1/documents/{document_id}/staging/stream", h.HandleStageDocumentStream)
	mux.HandleFunc("GET /v1/projects/{project_id}/staging/ws", h.HandleStageProjectStream)

	// LLM backend
	mux.HandleFunc("GET /v1/llm/health", h.HandleLLMHealth)
	mux.HandleFunc("GET /v1/llm/models", h.HandleLLMModels)

	return middleware.CORS(middleware.Logging(log, mux))
}
