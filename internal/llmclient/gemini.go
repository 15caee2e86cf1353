package llmclient

import (
	"context"
	"fmt"
	"iter"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. The API
// has no cheap health probe and no useful model listing for our purposes, so
// those answer from local state.
type GeminiClient struct {
	cli    *genai.Client
	models []string
}

// NewGeminiClient creates a Gemini-backed client. The API key is read from
// the environment by the genai client itself.
func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		cli: cli,
		models: []string{
			"gemini-2.0-flash",
			"gemini-2.5-flash",
			"gemini-2.5-pro",
		},
	}, nil
}

func (g *GeminiClient) Name() string { return "Gemini" }
func (g *GeminiClient) Close() error { return nil }

func promptContents(prompt string) []*genai.Content {
	return []*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}}
}

func (g *GeminiClient) Generate(ctx context.Context, model, prompt string, opts Options) (string, error) {
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	resp, err := g.cli.Models.GenerateContent(ctx, model, promptContents(prompt), cfg)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateStream streams the response chunk by chunk; onChunk receives each
// text fragment in arrival order.
func (g *GeminiClient) GenerateStream(ctx context.Context, model, prompt string, opts Options, onChunk func(chunk string)) (string, error) {
	cfg := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	return collectStream(g.cli.Models.GenerateContentStream(ctx, model, promptContents(prompt), cfg), onChunk)
}

// collectStream drains a genai response sequence into the full text,
// forwarding each non-empty fragment to onChunk.
func collectStream(seq iter.Seq2[*genai.GenerateContentResponse, error], onChunk func(chunk string)) (string, error) {
	var full strings.Builder
	for resp, err := range seq {
		if err != nil {
			return "", err
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	if full.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return full.String(), nil
}

func (g *GeminiClient) Health(_ context.Context) bool { return g != nil && g.cli != nil }

func (g *GeminiClient) ListModels(_ context.Context) ([]string, error) {
	if g == nil {
		return nil, fmt.Errorf("gemini client is nil")
	}
	out := make([]string, len(g.models))
	copy(out, g.models)
	return out, nil
}
