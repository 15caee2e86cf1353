// Package staging turns model-proposed redaction regions into staged
// selections, with an observable progress stream for interactive callers.
package staging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"redactify/internal/geometry"
	"redactify/internal/llmclient"
	"redactify/internal/selection"
)

// DefaultMinConfidence gates merged candidates out of staging when the model
// is unsure. Confidence absent counts as 0.0, so manual-shaped proposals
// without a confidence never pass.
const DefaultMinConfidence = 0.4

// Request is one staging invocation for a single document.
type Request struct {
	DocumentID string
	// Context is the document text handed to the model.
	Context string
	// Rules are the approved directive texts, already ordered.
	Rules []string
}

// Result is what a staging run produced.
type Result struct {
	Selections []selection.Selection
	Telemetry  Telemetry
}

// Orchestrator runs the propose-parse-merge-filter-persist pipeline.
type Orchestrator struct {
	store  selection.Store
	client llmclient.Client

	model         string
	minConfidence float64
	log           zerolog.Logger
}

// Config tunes an Orchestrator. Zero values fall back to defaults.
type Config struct {
	Model         string
	MinConfidence float64
	Logger        zerolog.Logger
}

func NewOrchestrator(store selection.Store, client llmclient.Client, cfg Config) (*Orchestrator, error) {
	if store == nil {
		return nil, fmt.Errorf("selection store is required")
	}
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	min := cfg.MinConfidence
	if min <= 0 {
		min = DefaultMinConfidence
	}
	return &Orchestrator{
		store:         store,
		client:        client,
		model:         cfg.Model,
		minConfidence: min,
		log:           cfg.Logger,
	}, nil
}

// MinConfidence reports the active confidence gate.
func (o *Orchestrator) MinConfidence() float64 { return o.minConfidence }

var generateOptions = llmclient.Options{Temperature: 0.1, NumPredict: 2048}

// Stage runs the batch pipeline: one non-streaming model call, then
// parse, merge, filter and persist. A document without approved rules
// short-circuits to a zero result without calling the model.
func (o *Orchestrator) Stage(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.DocumentID) == "" {
		return Result{}, fmt.Errorf("document_id is required")
	}
	tel := Telemetry{MinConfidence: o.minConfidence}
	if len(req.Rules) == 0 {
		return Result{Telemetry: tel}, nil
	}

	prompt := composePrompt(req.Context, req.Rules)
	text, err := o.client.Generate(ctx, o.model, prompt, generateOptions)
	if err != nil {
		// A blank response is a zero-candidate outcome, same as text that
		// parses to nothing; only transport and timeout failures propagate.
		if !errors.Is(err, llmclient.ErrEmptyResponse) {
			return Result{}, fmt.Errorf("generate: %w", err)
		}
		text = ""
	}

	merged := geometry.Merge(parseCandidates(text))
	kept := o.filter(merged, &tel)

	sels, err := o.persist(ctx, req.DocumentID, kept, &tel, nil)
	if err != nil {
		return Result{}, err
	}
	o.log.Debug().
		Str("document_id", req.DocumentID).
		Int("returned", tel.Returned).
		Int("staged", tel.Staged).
		Msg("staging batch finished")
	return Result{Selections: sels, Telemetry: tel}, nil
}

// filter applies the confidence gate and fills the returned/filtered_out
// counters.
func (o *Orchestrator) filter(merged []geometry.Rect, tel *Telemetry) []geometry.Rect {
	tel.Returned = len(merged)
	kept := merged[:0:0]
	for _, r := range merged {
		conf := 0.0
		if r.Confidence != nil {
			conf = *r.Confidence
		}
		if conf < o.minConfidence {
			tel.FilteredOut++
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// persist stages every kept candidate with the target document id forced
// onto it. onCreated, when non-nil, observes each persisted row in order.
func (o *Orchestrator) persist(ctx context.Context, documentID string, kept []geometry.Rect, tel *Telemetry, onCreated func(created, total int)) ([]selection.Selection, error) {
	var sels []selection.Selection
	for _, r := range kept {
		sel, err := o.store.Create(ctx, selection.FromRect(documentID, r))
		if err != nil {
			return nil, fmt.Errorf("stage selection: %w", err)
		}
		sels = append(sels, sel)
		tel.Staged++
		if onCreated != nil {
			onCreated(tel.Staged, len(kept))
		}
	}
	return sels, nil
}
