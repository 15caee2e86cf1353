package staging

import "redactify/internal/selection"

// EventType names the wire vocabulary of a staging stream. Consumers key on
// it, so values here never change spelling.
type EventType string

const (
	EventStatus            EventType = "status"
	EventModel             EventType = "model"
	EventTokens            EventType = "tokens"
	EventStagingProgress   EventType = "staging_progress"
	EventSummary           EventType = "summary"
	EventProjectInit       EventType = "project_init"
	EventProjectDocStart   EventType = "project_doc_start"
	EventProjectDocSummary EventType = "project_doc_summary"
	EventProjectProgress   EventType = "project_progress"
	EventCompleted         EventType = "completed"
	EventError             EventType = "error"
)

// Stage names a step of the single-document pipeline.
type Stage string

const (
	StageStart         Stage = "start"
	StageComposePrompt Stage = "compose_prompt"
	StageRequestSent   Stage = "request_sent"
	StageGenerating    Stage = "generating"
	StageParsing       Stage = "parsing"
	StageMerging       Stage = "merging"
	StageFiltering     Stage = "filtering"
	StageStaging       Stage = "staging"
	StageDone          Stage = "done"
)

var stageOrder = []Stage{
	StageStart, StageComposePrompt, StageRequestSent, StageGenerating,
	StageParsing, StageMerging, StageFiltering, StageStaging, StageDone,
}

// Index is 1-based; unknown stages report 0.
func (s Stage) Index() int {
	for i, st := range stageOrder {
		if st == s {
			return i + 1
		}
	}
	return 0
}

// StageTotal is the number of named pipeline stages.
var StageTotal = len(stageOrder)

// Telemetry is the count summary of one staging run.
type Telemetry struct {
	MinConfidence float64 `json:"min_confidence"`
	Returned      int     `json:"returned"`
	FilteredOut   int     `json:"filtered_out"`
	Staged        int     `json:"staged"`
}

// Event is one message of a staging stream. Fields are populated per type;
// unset ones are dropped from the encoding.
type Event struct {
	Type EventType `json:"type"`

	Stage      Stage `json:"stage,omitempty"`
	StageIndex int   `json:"stage_index,omitempty"`
	StageTotal int   `json:"stage_total,omitempty"`
	Percent    *int  `json:"percent,omitempty"`
	Chars      *int  `json:"chars,omitempty"`
	Created    *int  `json:"created,omitempty"`
	Total      *int  `json:"total,omitempty"`

	Model   string `json:"model,omitempty"`
	Message string `json:"message,omitempty"`

	// summary events carry the telemetry flat.
	MinConfidence *float64 `json:"min_confidence,omitempty"`
	Returned      *int     `json:"returned,omitempty"`
	FilteredOut   *int     `json:"filtered_out,omitempty"`
	Staged        *int     `json:"staged,omitempty"`

	Selections []selection.Selection `json:"selections,omitempty"`

	// project stream fields
	TotalDocuments *int       `json:"total_documents,omitempty"`
	Index          *int       `json:"index,omitempty"`
	DocumentID     string     `json:"document_id,omitempty"`
	Processed      *int       `json:"processed,omitempty"`
	Telemetry      *Telemetry `json:"telemetry,omitempty"`
}

// Emitter receives stream events. Each call is a suspension point: the
// pipeline does no further work until the emitter returns.
type Emitter func(Event)

func statusEvent(stage Stage, percent int) Event {
	return Event{
		Type:       EventStatus,
		Stage:      stage,
		StageIndex: stage.Index(),
		StageTotal: StageTotal,
		Percent:    intp(percent),
	}
}

func summaryEvent(tel Telemetry, sels []selection.Selection) Event {
	return Event{
		Type:          EventSummary,
		MinConfidence: floatp(tel.MinConfidence),
		Returned:      intp(tel.Returned),
		FilteredOut:   intp(tel.FilteredOut),
		Staged:        intp(tel.Staged),
		Selections:    sels,
	}
}

func errorEvent(msg string) Event {
	return Event{Type: EventError, Message: msg}
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
