package staging

import "testing"

func TestParseCandidatesShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"envelope", `{"selections":[{"x":0.1,"y":0.1,"width":0.2,"height":0.2}]}`, 1},
		{"bare array", `[{"x":0.1,"y":0.1,"width":0.2,"height":0.2}]`, 1},
		{"fenced", "```json\n{\"selections\":[{\"x\":0.1,\"y\":0.1,\"width\":0.2,\"height\":0.2}]}\n```", 1},
		{"short field names", `[{"x":0.1,"y":0.1,"w":0.2,"h":0.2}]`, 1},
		{"not json", `not json`, 0},
		{"wrong shape", `{"foo":"bar"}`, 0},
		{"empty envelope", `{"selections":[]}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseCandidates(tt.raw); len(got) != tt.want {
				t.Fatalf("parseCandidates(%q) = %d candidates, want %d", tt.raw, len(got), tt.want)
			}
		})
	}
}

func TestParseCandidatesDropsIncomplete(t *testing.T) {
	raw := `[
		{"x":0.1,"y":0.1,"width":0.2,"height":0.2,"confidence":0.7},
		{"x":0.1,"y":0.1,"width":0.2},
		{"y":0.1,"width":0.2,"height":0.2},
		"just a string"
	]`
	got := parseCandidates(raw)
	if len(got) != 1 {
		t.Fatalf("parseCandidates() = %d candidates, want only the complete one", len(got))
	}
	if got[0].Confidence == nil || *got[0].Confidence != 0.7 {
		t.Fatalf("parseCandidates() confidence = %v, want 0.7", got[0].Confidence)
	}
}

func TestParseCandidatesNormalizes(t *testing.T) {
	got := parseCandidates(`[{"x":-0.5,"y":0.9,"width":2.0,"height":0.5,"page_number":3}]`)
	if len(got) != 1 {
		t.Fatalf("parseCandidates() = %d candidates, want 1", len(got))
	}
	r := got[0]
	if r.X != 0 || r.Width != 1 {
		t.Fatalf("parseCandidates() did not clamp: %+v", r)
	}
	if r.PageNumber == nil || *r.PageNumber != 3 {
		t.Fatalf("parseCandidates() page = %v, want 3", r.PageNumber)
	}
}
