// Package llmclient wraps the text-generation collaborator used to propose
// redaction regions. Backends stay thin; cross-cutting behavior belongs to
// the callers.
package llmclient

import (
	"context"
	"errors"
)

// ErrEmptyResponse indicates the model returned no text at all. It is
// distinct from a well-formed response that parses to zero candidates.
var ErrEmptyResponse = errors.New("empty response from model")

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// Options tunes a single generation call.
type Options struct {
	Temperature float64
	// NumPredict caps the generated token count; zero means backend default.
	NumPredict int
}

// Client is the text-generation collaborator. Generate blocks for the whole
// response; GenerateStream invokes onChunk for every text fragment as it
// arrives and returns the full concatenated text.
type Client interface {
	Name() string
	Generate(ctx context.Context, model, prompt string, opts Options) (string, error)
	GenerateStream(ctx context.Context, model, prompt string, opts Options, onChunk func(chunk string)) (string, error)
	Health(ctx context.Context) bool
	ListModels(ctx context.Context) ([]string, error)
	Close() error
}
