package llmclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// OllamaClient calls a local Ollama server over its native HTTP API.
// See: https://github.com/ollama/ollama/blob/main/docs/api.md
type OllamaClient struct {
	http    *http.Client
	baseURL string
}

// NewOllamaClient creates a client for baseURL. If baseURL is empty, it falls
// back to the OLLAMA_BASE_URL env var and then to the default local address.
func NewOllamaClient(baseURL string) *OllamaClient {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv("OLLAMA_BASE_URL"))
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaClient{
		// Generation against local models is slow; streaming reads keep the
		// connection alive, so the timeout only bounds the whole call.
		http:    &http.Client{Timeout: 300 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (o *OllamaClient) Name() string { return "Ollama" }
func (o *OllamaClient) Close() error { return nil }

type ollamaGenerateReq struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResp struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

type ollamaTagsResp struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Generate performs a single non-streaming completion.
func (o *OllamaClient) Generate(ctx context.Context, model, prompt string, opts Options) (string, error) {
	resp, err := o.post(ctx, ollamaGenerateReq{
		Model:   model,
		Prompt:  prompt,
		Stream:  false,
		Options: optionMap(opts),
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out ollamaGenerateResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama: %s", out.Error)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", ErrEmptyResponse
	}
	return out.Response, nil
}

// GenerateStream performs a streaming completion. Ollama streams NDJSON, one
// object per chunk; onChunk receives each fragment in arrival order.
func (o *OllamaClient) GenerateStream(ctx context.Context, model, prompt string, opts Options, onChunk func(chunk string)) (string, error) {
	resp, err := o.post(ctx, ollamaGenerateReq{
		Model:   model,
		Prompt:  prompt,
		Stream:  true,
		Options: optionMap(opts),
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk ollamaGenerateResp
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", fmt.Errorf("ollama: decode stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return "", fmt.Errorf("ollama: %s", chunk.Error)
		}
		if chunk.Response != "" {
			full.WriteString(chunk.Response)
			if onChunk != nil {
				onChunk(chunk.Response)
			}
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("ollama: read stream: %w", err)
	}
	if strings.TrimSpace(full.String()) == "" {
		return "", ErrEmptyResponse
	}
	return full.String(), nil
}

// Health reports whether the server answers on its root endpoint.
func (o *OllamaClient) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/", nil)
	if err != nil {
		return false
	}
	resp, err := o.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// ListModels returns the names of locally available models.
func (o *OllamaClient) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama: unexpected status %s", resp.Status)
	}
	var out ollamaTagsResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (o *OllamaClient) post(ctx context.Context, body ollamaGenerateReq) (*http.Response, error) {
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		const max = 2048
		if len(raw) > max {
			raw = raw[:max]
		}
		err := fmt.Errorf("ollama: unexpected status %s: %s", resp.Status, string(raw))
		if resp.StatusCode == http.StatusNotFound {
			// Unknown model; retrying will not help.
			return nil, NewPermanentError(err)
		}
		return nil, err
	}
	return resp, nil
}

func optionMap(opts Options) map[string]any {
	m := map[string]any{}
	if opts.Temperature > 0 {
		m["temperature"] = opts.Temperature
	}
	if opts.NumPredict > 0 {
		m["num_predict"] = opts.NumPredict
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
