package staging

import (
	"context"
	"errors"
	"strings"

	"redactify/internal/geometry"
	"redactify/internal/llmclient"
)

// Percent anchors for the fixed stages. generating interpolates between
// request_sent and parsing, staging between filtering and done; both curves
// are monotonic by construction.
const (
	pctStart       = 0
	pctCompose     = 3
	pctRequestSent = 8
	pctGenFloor    = 10
	pctGenCeil     = 60
	pctParsing     = 62
	pctMerging     = 68
	pctFiltering   = 75
	pctStageFloor  = 78
	pctStageCeil   = 96
	pctDone        = 100
)

// generatingPercent maps a running character count into the generating
// sub-range. The divisor is tuned for typical response sizes; the exact
// curve only has to be monotonic.
func generatingPercent(chars int) int {
	p := pctGenFloor + chars/100
	if p > pctGenCeil {
		p = pctGenCeil
	}
	return p
}

func stagingPercent(created, total int) int {
	if total <= 0 {
		return pctStageFloor
	}
	return pctStageFloor + created*(pctStageCeil-pctStageFloor)/total
}

// StageStream runs the same pipeline as Stage but emits progress events.
// Failures are reported as a terminal error event and never returned to the
// caller; events arrive strictly in stage order and exactly one terminal
// event (completed or error) ends every stream.
func (o *Orchestrator) StageStream(ctx context.Context, req Request, emit Emitter) Result {
	res, ok := o.stageStream(ctx, req, emit)
	if ok {
		emit(Event{Type: EventCompleted, Percent: intp(pctDone)})
	}
	return res
}

// stageStream reports false after emitting an error event, true when the
// caller should emit the completed terminal.
func (o *Orchestrator) stageStream(ctx context.Context, req Request, emit Emitter) (Result, bool) {
	if strings.TrimSpace(req.DocumentID) == "" {
		emit(errorEvent("document_id is required"))
		return Result{}, false
	}
	emit(statusEvent(StageStart, pctStart))

	tel := Telemetry{MinConfidence: o.minConfidence}
	if len(req.Rules) == 0 {
		emit(statusEvent(StageDone, pctDone))
		emit(summaryEvent(tel, nil))
		return Result{Telemetry: tel}, true
	}

	emit(statusEvent(StageComposePrompt, pctCompose))
	prompt := composePrompt(req.Context, req.Rules)

	emit(Event{Type: EventModel, Model: o.model})
	emit(statusEvent(StageRequestSent, pctRequestSent))

	chars := 0
	text, err := o.client.GenerateStream(ctx, o.model, prompt, generateOptions, func(chunk string) {
		chars += len(chunk)
		ev := statusEvent(StageGenerating, generatingPercent(chars))
		ev.Type = EventTokens
		ev.Chars = intp(chars)
		emit(ev)
	})
	if err != nil {
		// Blank output means zero candidates, not a failed run.
		if !errors.Is(err, llmclient.ErrEmptyResponse) {
			o.log.Warn().Err(err).Str("document_id", req.DocumentID).Msg("staging generation failed")
			emit(errorEvent("generate: " + err.Error()))
			return Result{}, false
		}
		text = ""
	}

	emit(statusEvent(StageParsing, pctParsing))
	candidates := parseCandidates(text)

	emit(statusEvent(StageMerging, pctMerging))
	merged := geometry.Merge(candidates)

	emit(statusEvent(StageFiltering, pctFiltering))
	kept := o.filter(merged, &tel)

	sels, err := o.persist(ctx, req.DocumentID, kept, &tel, func(created, total int) {
		ev := statusEvent(StageStaging, stagingPercent(created, total))
		ev.Type = EventStagingProgress
		ev.Created = intp(created)
		ev.Total = intp(total)
		emit(ev)
	})
	if err != nil {
		emit(errorEvent(err.Error()))
		return Result{}, false
	}

	emit(statusEvent(StageDone, pctDone))
	emit(summaryEvent(tel, sels))
	return Result{Selections: sels, Telemetry: tel}, true
}
