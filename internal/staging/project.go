package staging

import (
	"context"
	"strings"
)

// ProjectDocument is one document of a project-wide staging run, with its
// text already extracted.
type ProjectDocument struct {
	ID      string
	Name    string
	Context string
}

// DocumentLister resolves the documents of a project in processing order.
type DocumentLister func(ctx context.Context, projectID string) ([]ProjectDocument, error)

// RuleLister resolves the approved directive texts of one document, ordered.
type RuleLister func(ctx context.Context, documentID string) ([]string, error)

// StageProject applies the single-document streaming pipeline to every
// document of a project, strictly in sequence. A failure on one document is
// reported as an error event and the loop moves on; exactly one completed
// event terminates the stream.
func (o *Orchestrator) StageProject(ctx context.Context, projectID string, listDocs DocumentLister, listRules RuleLister, emit Emitter) {
	if strings.TrimSpace(projectID) == "" {
		emit(errorEvent("project_id is required"))
		return
	}
	docs, err := listDocs(ctx, projectID)
	if err != nil {
		emit(errorEvent("list documents: " + err.Error()))
		return
	}

	total := len(docs)
	emit(Event{Type: EventProjectInit, TotalDocuments: intp(total)})

	for i, doc := range docs {
		emit(Event{Type: EventProjectDocStart, Index: intp(i), DocumentID: doc.ID})

		tel := o.stageProjectDoc(ctx, doc, listRules, emit)
		emit(Event{Type: EventProjectDocSummary, DocumentID: doc.ID, Telemetry: &tel})
		emit(Event{Type: EventProjectProgress, Processed: intp(i + 1), Total: intp(total)})
	}

	emit(Event{Type: EventCompleted, Percent: intp(pctDone)})
}

// stageProjectDoc runs one document's pipeline with the per-document
// terminal events suppressed: the project loop owns summary and completion.
func (o *Orchestrator) stageProjectDoc(ctx context.Context, doc ProjectDocument, listRules RuleLister, emit Emitter) Telemetry {
	rules, err := listRules(ctx, doc.ID)
	if err != nil {
		emit(errorEvent("list rules for " + doc.ID + ": " + err.Error()))
		return Telemetry{MinConfidence: o.minConfidence}
	}

	res, ok := o.stageStream(ctx, Request{
		DocumentID: doc.ID,
		Context:    doc.Context,
		Rules:      rules,
	}, func(ev Event) {
		switch ev.Type {
		case EventSummary:
			// folded into project_doc_summary by the caller
		default:
			ev.DocumentID = doc.ID
			emit(ev)
		}
	})
	if !ok {
		return Telemetry{MinConfidence: o.minConfidence}
	}
	return res.Telemetry
}
