package staging

import (
	"context"
	"fmt"
	"testing"

	"redactify/internal/llmclient"
)

func collect(events *[]Event) Emitter {
	return func(ev Event) { *events = append(*events, ev) }
}

func stagesOf(events []Event) []Stage {
	var out []Stage
	for _, ev := range events {
		if ev.Type == EventStatus {
			out = append(out, ev.Stage)
		}
	}
	return out
}

func TestStageStreamEmitsStagesInOrder(t *testing.T) {
	response := `{"selections":[
		{"x":0.1,"y":0.1,"width":0.2,"height":0.2,"confidence":0.9},
		{"x":0.6,"y":0.6,"width":0.2,"height":0.2,"confidence":0.8}
	]}`
	o, _ := newTestOrchestrator(t, llmclient.NewFakeClient(response))

	var events []Event
	res := o.StageStream(context.Background(), Request{
		DocumentID: "doc-1", Context: "body", Rules: []string{"r"},
	}, collect(&events))

	if res.Telemetry.Staged != 2 {
		t.Fatalf("StageStream() staged = %d, want 2", res.Telemetry.Staged)
	}

	want := []Stage{StageStart, StageComposePrompt, StageRequestSent, StageParsing, StageMerging, StageFiltering, StageDone}
	got := stagesOf(events)
	if len(got) != len(want) {
		t.Fatalf("status stages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("status stages = %v, want %v", got, want)
		}
	}

	var tokens, progress, summaries, completed int
	for _, ev := range events {
		switch ev.Type {
		case EventTokens:
			tokens++
			if ev.Chars == nil || *ev.Chars <= 0 {
				t.Fatalf("tokens event without chars: %+v", ev)
			}
		case EventStagingProgress:
			progress++
			if ev.Created == nil || ev.Total == nil || *ev.Total != 2 {
				t.Fatalf("staging_progress event malformed: %+v", ev)
			}
		case EventSummary:
			summaries++
		case EventCompleted:
			completed++
		case EventError:
			t.Fatalf("unexpected error event: %+v", ev)
		}
	}
	if tokens == 0 {
		t.Fatal("no tokens events during generation")
	}
	if progress != 2 {
		t.Fatalf("staging_progress events = %d, want 2", progress)
	}
	if summaries != 1 || completed != 1 {
		t.Fatalf("summary = %d, completed = %d, want exactly one each", summaries, completed)
	}
	if events[len(events)-1].Type != EventCompleted {
		t.Fatalf("last event = %s, want completed", events[len(events)-1].Type)
	}
}

func TestStageStreamPercentIsMonotonic(t *testing.T) {
	o, _ := newTestOrchestrator(t, llmclient.NewFakeClient(
		`{"selections":[{"x":0.1,"y":0.1,"width":0.2,"height":0.2,"confidence":0.9}]}`))

	var events []Event
	o.StageStream(context.Background(), Request{
		DocumentID: "doc-1", Context: "body", Rules: []string{"r"},
	}, collect(&events))

	last := -1
	for _, ev := range events {
		if ev.Percent == nil {
			continue
		}
		if *ev.Percent < last {
			t.Fatalf("percent regressed from %d to %d at %s", last, *ev.Percent, ev.Type)
		}
		last = *ev.Percent
	}
	if last != 100 {
		t.Fatalf("final percent = %d, want 100", last)
	}
}

func TestStageStreamErrorIsTerminal(t *testing.T) {
	cli := llmclient.NewFakeClient("")
	cli.Err = fmt.Errorf("upstream unavailable")
	o, _ := newTestOrchestrator(t, cli)

	var events []Event
	o.StageStream(context.Background(), Request{
		DocumentID: "doc-1", Context: "body", Rules: []string{"r"},
	}, collect(&events))

	if len(events) == 0 {
		t.Fatal("no events emitted")
	}
	lastEv := events[len(events)-1]
	if lastEv.Type != EventError {
		t.Fatalf("last event = %s, want error", lastEv.Type)
	}
	for _, ev := range events {
		if ev.Type == EventCompleted {
			t.Fatal("completed emitted alongside error")
		}
	}
}

func TestStageStreamEmptyResponseCompletes(t *testing.T) {
	cli := llmclient.NewFakeClient("")
	cli.Err = llmclient.ErrEmptyResponse
	o, _ := newTestOrchestrator(t, cli)

	var events []Event
	res := o.StageStream(context.Background(), Request{
		DocumentID: "doc-1", Context: "body", Rules: []string{"r"},
	}, collect(&events))

	if res.Telemetry.Staged != 0 || res.Telemetry.Returned != 0 {
		t.Fatalf("telemetry = %+v, want zero candidates", res.Telemetry)
	}
	for _, ev := range events {
		if ev.Type == EventError {
			t.Fatalf("error event for a blank response: %+v", ev)
		}
	}
	if events[len(events)-1].Type != EventCompleted {
		t.Fatalf("last event = %s, want completed", events[len(events)-1].Type)
	}
}

func TestStageStreamWithoutRulesShortCircuits(t *testing.T) {
	cli := llmclient.NewFakeClient(`{"selections":[]}`)
	o, _ := newTestOrchestrator(t, cli)

	var events []Event
	res := o.StageStream(context.Background(), Request{DocumentID: "doc-1", Context: "body"}, collect(&events))

	if len(cli.Prompts) != 0 {
		t.Fatal("model invoked for a document without rules")
	}
	if res.Telemetry.Staged != 0 {
		t.Fatalf("staged = %d, want 0", res.Telemetry.Staged)
	}
	if events[len(events)-1].Type != EventCompleted {
		t.Fatalf("last event = %s, want completed", events[len(events)-1].Type)
	}
}
