package selection

import (
	"context"
	"fmt"
	"strings"

	"redactify/internal/geometry"
)

// Service implements the selection lifecycle. All operations are scoped to a
// single document and tolerate empty targets: when nothing matches they
// return empty results instead of an error.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Commit promotes the targeted staged selections to committed. Rows already
// committed are left untouched, so re-running a commit is harmless. It
// returns the committed rows among the target after the transition.
func (s *Service) Commit(ctx context.Context, documentID string, target Target) ([]Selection, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, fmt.Errorf("document id is required")
	}
	if target.Empty() {
		return []Selection{}, nil
	}
	if _, err := s.store.UpdateState(ctx, documentID, target, StagedStates(), StateCommitted); err != nil {
		return nil, fmt.Errorf("commit selections: %w", err)
	}
	return s.listInState(ctx, documentID, target, StateCommitted)
}

// Uncommit moves the targeted committed selections back to staged_edition for
// re-review and returns the rows now staged.
func (s *Service) Uncommit(ctx context.Context, documentID string, target Target) ([]Selection, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, fmt.Errorf("document id is required")
	}
	if target.Empty() {
		return []Selection{}, nil
	}
	if _, err := s.store.UpdateState(ctx, documentID, target, []State{StateCommitted}, StateStagedEdition); err != nil {
		return nil, fmt.Errorf("uncommit selections: %w", err)
	}
	return s.listInState(ctx, documentID, target, StateStagedEdition)
}

// Clear permanently deletes the targeted selections that are not committed.
// Committed rows are immune; they have to be uncommitted first. Returns the
// number of rows deleted.
func (s *Service) Clear(ctx context.Context, documentID string, target Target) (int, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return 0, fmt.Errorf("document id is required")
	}
	if target.Empty() {
		return 0, nil
	}
	n, err := s.store.Delete(ctx, documentID, target, []State{StateCommitted})
	if err != nil {
		return 0, fmt.Errorf("clear selections: %w", err)
	}
	return n, nil
}

// Purge removes every selection of the document, committed rows included.
// Only the document deletion cascade calls this.
func (s *Service) Purge(ctx context.Context, documentID string) (int, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return 0, fmt.Errorf("document id is required")
	}
	n, err := s.store.Delete(ctx, documentID, TargetAll(), nil)
	if err != nil {
		return 0, fmt.Errorf("purge selections: %w", err)
	}
	return n, nil
}

// Create stages a manually drawn rectangle. Manual selections never carry a
// confidence; the rectangle is normalized before it is persisted.
func (s *Service) Create(ctx context.Context, documentID string, r geometry.Rect) (Selection, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return Selection{}, fmt.Errorf("document id is required")
	}
	r.Confidence = nil
	sel, err := s.store.Create(ctx, FromRect(documentID, r.Normalized()))
	if err != nil {
		return Selection{}, fmt.Errorf("create selection: %w", err)
	}
	return sel, nil
}

// List returns every selection of the document.
func (s *Service) List(ctx context.Context, documentID string) ([]Selection, error) {
	return s.store.ListByDocument(ctx, strings.TrimSpace(documentID))
}

// ListCommitted returns the selections eligible for redaction.
func (s *Service) ListCommitted(ctx context.Context, documentID string) ([]Selection, error) {
	return s.listInState(ctx, documentID, TargetAll(), StateCommitted)
}

func (s *Service) listInState(ctx context.Context, documentID string, target Target, state State) ([]Selection, error) {
	rows, err := s.store.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	var ids map[string]struct{}
	if !target.All {
		ids = make(map[string]struct{}, len(target.IDs))
		for _, id := range target.IDs {
			ids[id] = struct{}{}
		}
	}
	out := make([]Selection, 0, len(rows))
	for _, row := range rows {
		if row.State != state {
			continue
		}
		if ids != nil {
			if _, ok := ids[row.ID]; !ok {
				continue
			}
		}
		out = append(out, row)
	}
	return out, nil
}
