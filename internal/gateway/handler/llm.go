package handler

import "net/http"

// HandleLLMHealth reports whether the text-generation backend is reachable.
// GET /v1/llm/health
func (h *Handler) HandleLLMHealth(w http.ResponseWriter, r *http.Request) {
	healthy := h.llm.Health(r.Context())
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"backend": h.llm.Name(),
		"healthy": healthy,
	})
}

// HandleLLMModels lists the models the backend offers.
// GET /v1/llm/models
func (h *Handler) HandleLLMModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.llm.ListModels(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if models == nil {
		models = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"models": models})
}
