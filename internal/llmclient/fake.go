package llmclient

import (
	"context"
	"strings"
)

// FakeClient returns scripted responses for offline use and tests.
type FakeClient struct {
	// Response is returned by Generate and streamed by GenerateStream.
	Response string
	// Chunks, when set, overrides how GenerateStream splits the response.
	Chunks []string
	// Err, when set, fails every generation call.
	Err error
	// Healthy is reported by Health.
	Healthy bool
	// Models is reported by ListModels.
	Models []string

	// Prompts records every prompt passed to a generation call.
	Prompts []string
}

func NewFakeClient(response string) *FakeClient {
	return &FakeClient{Response: response, Healthy: true, Models: []string{"fake"}}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Generate(ctx context.Context, model, prompt string, _ Options) (string, error) {
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.Response, nil
}

func (f *FakeClient) GenerateStream(ctx context.Context, model, prompt string, opts Options, onChunk func(chunk string)) (string, error) {
	f.Prompts = append(f.Prompts, prompt)
	if f.Err != nil {
		return "", f.Err
	}
	chunks := f.Chunks
	if chunks == nil {
		chunks = splitChunks(f.Response, 16)
	}
	var full strings.Builder
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		full.WriteString(c)
		if onChunk != nil {
			onChunk(c)
		}
	}
	return full.String(), nil
}

func (f *FakeClient) Health(_ context.Context) bool { return f.Healthy }

func (f *FakeClient) ListModels(_ context.Context) ([]string, error) {
	return append([]string(nil), f.Models...), nil
}

func splitChunks(s string, size int) []string {
	if s == "" {
		return nil
	}
	var out []string
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	return append(out, s)
}
