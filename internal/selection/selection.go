// Package selection holds the redaction selection entity and the state
// machine that gates what the redaction engine is allowed to consume.
package selection

import (
	"time"

	"redactify/internal/geometry"
)

// Scope says whether a selection belongs to a single document or is shared
// across the whole project.
type Scope string

const (
	ScopeDocument Scope = "document"
	ScopeProject  Scope = "project"
)

// State is the approval state of a selection. Only committed selections may
// ever reach the redaction engine; everything else is still under review.
type State string

const (
	StateStagedCreation State = "staged_creation"
	StateStagedEdition  State = "staged_edition"
	StateStagedDeletion State = "staged_deletion"
	StateCommitted      State = "committed"
)

// StagedStates lists every state a commit operation promotes from.
func StagedStates() []State {
	return []State{StateStagedCreation, StateStagedEdition, StateStagedDeletion}
}

// Valid reports whether s is one of the four known states.
func (s State) Valid() bool {
	switch s {
	case StateStagedCreation, StateStagedEdition, StateStagedDeletion, StateCommitted:
		return true
	}
	return false
}

// Staged reports whether s is any of the staged states.
func (s State) Staged() bool {
	return s.Valid() && s != StateCommitted
}

// Selection is a rectangular region of a document marked for removal.
// Coordinates are page-relative [0,1]; PageNumber nil means every page.
type Selection struct {
	ID         string   `json:"id"`
	DocumentID string   `json:"document_id"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	PageNumber *int     `json:"page_number,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Scope      Scope    `json:"scope"`
	State      State    `json:"state"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AIGenerated reports whether the selection was proposed by a model. Manual
// selections never carry a confidence, model proposals always do.
func (s Selection) AIGenerated() bool { return s.Confidence != nil }

// Rect returns the geometric value of the selection.
func (s Selection) Rect() geometry.Rect {
	return geometry.Rect{
		X:          s.X,
		Y:          s.Y,
		Width:      s.Width,
		Height:     s.Height,
		PageNumber: s.PageNumber,
		Confidence: s.Confidence,
	}
}

// FromRect builds a freshly staged selection for a document out of a
// normalized rectangle. The scope defaults to document.
func FromRect(documentID string, r geometry.Rect) Selection {
	return Selection{
		DocumentID: documentID,
		X:          r.X,
		Y:          r.Y,
		Width:      r.Width,
		Height:     r.Height,
		PageNumber: r.PageNumber,
		Confidence: r.Confidence,
		Scope:      ScopeDocument,
		State:      StateStagedCreation,
	}
}
