package handler

import (
	"errors"
	"net/http"
	"strings"

	"redactify/internal/gateway/repository/documentrepo"
	"redactify/internal/staging"
	"redactify/internal/util/jsonutil"
)

type stageRequest struct {
	// Context is the document text handed to the model.
	Context string `json:"context"`
}

// stagingRequestFor loads the approved rules and builds the orchestrator
// request for one document.
func (h *Handler) stagingRequestFor(r *http.Request, docContext string) (staging.Request, int, error) {
	documentID := strings.TrimSpace(r.PathValue("document_id"))
	if _, err := h.docs.Get(r.Context(), documentID); err != nil {
		if errors.Is(err, documentrepo.ErrNotFound) {
			return staging.Request{}, http.StatusNotFound, errors.New("document not found")
		}
		return staging.Request{}, http.StatusInternalServerError, err
	}
	rules, err := h.rules.ListApproved(r.Context(), documentID)
	if err != nil {
		return staging.Request{}, http.StatusInternalServerError, err
	}
	texts := make([]string, 0, len(rules))
	for _, rule := range rules {
		texts = append(texts, rule.Text)
	}
	return staging.Request{
		DocumentID: documentID,
		Context:    docContext,
		Rules:      texts,
	}, 0, nil
}

// HandleStageDocument runs the batch staging pipeline.
// POST /v1/documents/{document_id}/staging
func (h *Handler) HandleStageDocument(w http.ResponseWriter, r *http.Request) {
	var body stageRequest
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	req, status, err := h.stagingRequestFor(r, body.Context)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	res, err := h.stager.Stage(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"selections": res.Selections,
		"telemetry":  res.Telemetry,
	})
}

// HandleStageDocumentStream runs the streaming pipeline over SSE. The
// document context comes from the JSON body (POST) or the context query
// parameter (GET, for EventSource clients).
func (h *Handler) HandleStageDocumentStream(w http.ResponseWriter, r *http.Request) {
	docContext := r.URL.Query().Get("context")
	if r.Method == http.MethodPost {
		var body stageRequest
		if err := readJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
			return
		}
		docContext = body.Context
	}
	req, status, err := h.stagingRequestFor(r, docContext)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.stager.StageStream(r.Context(), req, func(ev staging.Event) {
		if r.Context().Err() != nil {
			return
		}
		writeSSE(w, ev)
		flusher.Flush()
	})
}

func writeSSE(w http.ResponseWriter, ev staging.Event) {
	payload, err := jsonutil.MarshalNoEscape(ev)
	if err != nil {
		return
	}
	_, _ = w.Write([]byte("event: " + string(ev.Type) + "\n"))
	_, _ = w.Write([]byte("data: " + string(payload) + "\n\n"))
}
