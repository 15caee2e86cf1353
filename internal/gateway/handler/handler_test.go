package handler_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"redactify/internal/gateway/handler"
	"redactify/internal/gateway/repository/artifact"
	"redactify/internal/gateway/repository/directiverulerepo"
	"redactify/internal/gateway/repository/documentrepo"
	"redactify/internal/gateway/repository/selectionrepo"
	"redactify/internal/gateway/server"
	"redactify/internal/llmclient"
	"redactify/internal/redact"
	"redactify/internal/selection"
	"redactify/internal/staging"
)

type fixture struct {
	srv  *httptest.Server
	docs documentrepo.Store
	llm  *llmclient.FakeClient
}

func newFixture(t *testing.T, response string) *fixture {
	t.Helper()
	selStore := selectionrepo.NewMemoryStore()
	cli := llmclient.NewFakeClient(response)
	stager, err := staging.NewOrchestrator(selStore, cli, staging.Config{Model: "fake", MinConfidence: 0.4})
	require.NoError(t, err)

	docs := documentrepo.NewMemoryStore()
	h := handler.New(handler.Deps{
		Documents:  docs,
		Rules:      directiverulerepo.NewMemoryStore(),
		Artifacts:  artifact.NewMemoryStore(),
		Selections: selection.NewService(selStore),
		Stager:     stager,
		Redactor:   redact.NewEngine(redact.NewPDFKitOpener(), redact.DefaultWatermark()),
		LLM:        cli,
		Logger:     zerolog.Nop(),
	})
	srv := httptest.NewServer(server.NewMux(h, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, docs: docs, llm: cli}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func uploadDocument(t *testing.T, f *fixture) documentrepo.Document {
	t.Helper()
	resp, err := http.Post(f.srv.URL+"/v1/projects/proj-1/documents?name=report.pdf",
		"application/pdf", strings.NewReader("%PDF-1.7 test"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var doc documentrepo.Document
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	return doc
}

func TestSelectionLifecycleOverHTTP(t *testing.T) {
	f := newFixture(t, `{"selections":[]}`)
	doc := uploadDocument(t, f)
	base := "/v1/documents/" + doc.ID + "/selections"

	resp := f.do(t, http.MethodPost, base, map[string]any{
		"x": 0.1, "y": 0.2, "width": 0.3, "height": 0.1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[selection.Selection](t, resp)
	require.Equal(t, selection.StateStagedCreation, created.State)
	require.Nil(t, created.Confidence)

	resp = f.do(t, http.MethodPost, base+"/commit", map[string]any{"all": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	committed := decode[[]selection.Selection](t, resp)
	require.Len(t, committed, 1)
	require.Equal(t, selection.StateCommitted, committed[0].State)

	// clear must not touch the committed row
	resp = f.do(t, http.MethodPost, base+"/clear", map[string]any{"all": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cleared := decode[map[string]int](t, resp)
	require.Equal(t, 0, cleared["deleted"])

	resp = f.do(t, http.MethodPost, base+"/uncommit", map[string]any{"all": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	staged := decode[[]selection.Selection](t, resp)
	require.Len(t, staged, 1)
	require.Equal(t, selection.StateStagedEdition, staged[0].State)
}

func TestStagingBatchOverHTTP(t *testing.T) {
	f := newFixture(t, `{"selections":[{"x":0.1,"y":0.1,"width":0.2,"height":0.2,"confidence":0.9}]}`)
	doc := uploadDocument(t, f)

	// rule must be approved before staging does anything
	resp := f.do(t, http.MethodPost, "/v1/documents/"+doc.ID+"/rules", map[string]any{
		"text": "redact names", "approved": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/v1/documents/"+doc.ID+"/staging", map[string]any{
		"context": "document body",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Selections []selection.Selection `json:"selections"`
		Telemetry  staging.Telemetry     `json:"telemetry"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Equal(t, 1, out.Telemetry.Staged)
	require.Len(t, out.Selections, 1)
	require.Equal(t, doc.ID, out.Selections[0].DocumentID)
}

func TestStagingStreamOverSSE(t *testing.T) {
	f := newFixture(t, `{"selections":[{"x":0.1,"y":0.1,"width":0.2,"height":0.2,"confidence":0.9}]}`)
	doc := uploadDocument(t, f)

	resp := f.do(t, http.MethodPost, "/v1/documents/"+doc.ID+"/rules", map[string]any{
		"text": "redact names", "approved": true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/v1/documents/"+doc.ID+"/staging/stream", map[string]any{
		"context": "document body",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var eventNames []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event: ") {
			eventNames = append(eventNames, strings.TrimPrefix(line, "event: "))
		}
	}
	require.NotEmpty(t, eventNames)
	require.Equal(t, "completed", eventNames[len(eventNames)-1])
	require.Contains(t, eventNames, "summary")
	require.Contains(t, eventNames, "staging_progress")
}

func TestStagingUnknownDocument(t *testing.T) {
	f := newFixture(t, `{"selections":[]}`)
	resp := f.do(t, http.MethodPost, "/v1/documents/nope/staging", map[string]any{"context": "x"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLLMHealthOverHTTP(t *testing.T) {
	f := newFixture(t, `{"selections":[]}`)

	resp := f.do(t, http.MethodGet, "/v1/llm/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	f.llm.Healthy = false
	resp = f.do(t, http.MethodGet, "/v1/llm/health", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/v1/llm/models", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	models := decode[map[string][]string](t, resp)
	require.Equal(t, []string{"fake"}, models["models"])
}

func TestRedactUnparsableDocumentReturns422(t *testing.T) {
	f := newFixture(t, `{"selections":[]}`)
	doc := uploadDocument(t, f) // body is not a real PDF

	resp := f.do(t, http.MethodPost, "/v1/documents/"+doc.ID+"/redact", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	require.True(t, strings.HasPrefix(body["error"], "redact: "), fmt.Sprintf("error = %q", body["error"]))
}
