package staging

import (
	"context"
	"fmt"
	"testing"

	"redactify/internal/llmclient"
)

func TestStageProjectSequential(t *testing.T) {
	o, _ := newTestOrchestrator(t, llmclient.NewFakeClient(
		`{"selections":[{"x":0.1,"y":0.1,"width":0.2,"height":0.2,"confidence":0.9}]}`))

	docs := []ProjectDocument{
		{ID: "doc-a", Context: "alpha"},
		{ID: "doc-b", Context: "beta"},
	}
	rules := map[string][]string{
		"doc-a": {"redact names"},
		// doc-b has no approved rules and must be skipped but still counted
	}

	var events []Event
	o.StageProject(context.Background(), "proj-1",
		func(context.Context, string) ([]ProjectDocument, error) { return docs, nil },
		func(_ context.Context, id string) ([]string, error) { return rules[id], nil },
		collect(&events))

	if events[0].Type != EventProjectInit || *events[0].TotalDocuments != 2 {
		t.Fatalf("first event = %+v, want project_init with 2 documents", events[0])
	}

	var starts, summaries []string
	var processed []int
	completed := 0
	for _, ev := range events {
		switch ev.Type {
		case EventProjectDocStart:
			starts = append(starts, ev.DocumentID)
		case EventProjectDocSummary:
			summaries = append(summaries, ev.DocumentID)
			if ev.Telemetry == nil {
				t.Fatalf("project_doc_summary without telemetry: %+v", ev)
			}
		case EventProjectProgress:
			processed = append(processed, *ev.Processed)
		case EventCompleted:
			completed++
		case EventSummary:
			t.Fatalf("inner summary leaked into project stream: %+v", ev)
		}
	}
	if len(starts) != 2 || starts[0] != "doc-a" || starts[1] != "doc-b" {
		t.Fatalf("doc starts = %v", starts)
	}
	if len(summaries) != 2 {
		t.Fatalf("doc summaries = %v, want one per document", summaries)
	}
	if len(processed) != 2 || processed[0] != 1 || processed[1] != 2 {
		t.Fatalf("project_progress processed = %v, want [1 2]", processed)
	}
	if completed != 1 || events[len(events)-1].Type != EventCompleted {
		t.Fatalf("completed events = %d, want exactly one, last", completed)
	}
}

func TestStageProjectSkippedDocReportsZeroTelemetry(t *testing.T) {
	cli := llmclient.NewFakeClient(`{"selections":[]}`)
	o, _ := newTestOrchestrator(t, cli)

	var events []Event
	o.StageProject(context.Background(), "proj-1",
		func(context.Context, string) ([]ProjectDocument, error) {
			return []ProjectDocument{{ID: "doc-a", Context: "alpha"}}, nil
		},
		func(context.Context, string) ([]string, error) { return nil, nil },
		collect(&events))

	if len(cli.Prompts) != 0 {
		t.Fatal("model invoked for a rule-less document")
	}
	for _, ev := range events {
		if ev.Type == EventProjectDocSummary {
			if ev.Telemetry.Staged != 0 || ev.Telemetry.Returned != 0 {
				t.Fatalf("telemetry = %+v, want zero", ev.Telemetry)
			}
			return
		}
	}
	t.Fatal("no project_doc_summary emitted")
}

func TestStageProjectDocFailureDoesNotAbortLoop(t *testing.T) {
	cli := llmclient.NewFakeClient("")
	cli.Err = fmt.Errorf("model down")
	o, _ := newTestOrchestrator(t, cli)

	docs := []ProjectDocument{{ID: "doc-a"}, {ID: "doc-b"}}
	var events []Event
	o.StageProject(context.Background(), "proj-1",
		func(context.Context, string) ([]ProjectDocument, error) { return docs, nil },
		func(context.Context, string) ([]string, error) { return []string{"r"}, nil },
		collect(&events))

	var errs, summaries, completed int
	for _, ev := range events {
		switch ev.Type {
		case EventError:
			errs++
		case EventProjectDocSummary:
			summaries++
		case EventCompleted:
			completed++
		}
	}
	if errs != 2 {
		t.Fatalf("error events = %d, want one per failing document", errs)
	}
	if summaries != 2 {
		t.Fatalf("doc summaries = %d, want both documents reported", summaries)
	}
	if completed != 1 {
		t.Fatalf("completed events = %d, want 1", completed)
	}
}
