package staging

import (
	"encoding/json"

	"redactify/internal/geometry"
	"redactify/internal/util/jsonutil"
)

// rawCandidate is the lenient decode target for one model proposal. Short
// field names are accepted because models abbreviate despite instructions.
type rawCandidate struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	W      *float64 `json:"w"`
	Height *float64 `json:"height"`
	H      *float64 `json:"h"`

	PageNumber *int     `json:"page_number"`
	Confidence *float64 `json:"confidence"`
}

type selectionEnvelope struct {
	Selections []json.RawMessage `json:"selections"`
}

// parseCandidates decodes the raw model text into normalized rectangles.
// Malformed text or a wrong top-level shape yields an empty list, never an
// error; candidates missing any of x/y/width/height are dropped one by one.
func parseCandidates(raw string) []geometry.Rect {
	items := candidateMessages(raw)
	out := make([]geometry.Rect, 0, len(items))
	for _, item := range items {
		var c rawCandidate
		if err := json.Unmarshal(item, &c); err != nil {
			continue
		}
		w := firstFloat(c.Width, c.W)
		h := firstFloat(c.Height, c.H)
		if c.X == nil || c.Y == nil || w == nil || h == nil {
			continue
		}
		r := geometry.Rect{X: *c.X, Y: *c.Y, Width: *w, Height: *h}.Normalized()
		r.PageNumber = c.PageNumber
		r.Confidence = c.Confidence
		out = append(out, r)
	}
	return out
}

func candidateMessages(raw string) []json.RawMessage {
	var env selectionEnvelope
	if err := jsonutil.UnmarshalFlex([]byte(raw), &env); err == nil && env.Selections != nil {
		return env.Selections
	}
	var arr []json.RawMessage
	if err := jsonutil.UnmarshalFlex([]byte(raw), &arr); err == nil {
		return arr
	}
	return nil
}

func firstFloat(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
