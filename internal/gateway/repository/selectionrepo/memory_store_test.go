package selectionrepo

import (
	"context"
	"errors"
	"testing"

	"redactify/internal/selection"
)

func seed(t *testing.T, s *MemoryStore, documentID string, state selection.State) selection.Selection {
	t.Helper()
	sel, err := s.Create(context.Background(), selection.Selection{
		DocumentID: documentID,
		X:          0.1, Y: 0.1, Width: 0.2, Height: 0.2,
		State: state,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return sel
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, selection.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListOrderIsInsertion(t *testing.T) {
	s := NewMemoryStore()
	a := seed(t, s, "doc", selection.StateStagedCreation)
	b := seed(t, s, "doc", selection.StateStagedEdition)
	seed(t, s, "other", selection.StateStagedCreation)

	got, err := s.ListByDocument(context.Background(), "doc")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("ListByDocument() = %v, want [%s %s]", got, a.ID, b.ID)
	}
}

func TestMemoryStoreUpdateStateOnlyFromStates(t *testing.T) {
	s := NewMemoryStore()
	staged := seed(t, s, "doc", selection.StateStagedCreation)
	seed(t, s, "doc", selection.StateCommitted)

	changed, err := s.UpdateState(context.Background(), "doc", selection.TargetAll(),
		selection.StagedStates(), selection.StateCommitted)
	if err != nil {
		t.Fatalf("UpdateState() error = %v", err)
	}
	if len(changed) != 1 || changed[0].ID != staged.ID {
		t.Fatalf("UpdateState() changed %v, want just %s", changed, staged.ID)
	}
	if changed[0].State != selection.StateCommitted {
		t.Fatalf("UpdateState() state = %s", changed[0].State)
	}
}

func TestMemoryStoreDeleteProtectsStates(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "doc", selection.StateStagedCreation)
	kept := seed(t, s, "doc", selection.StateCommitted)

	n, err := s.Delete(context.Background(), "doc", selection.TargetAll(),
		[]selection.State{selection.StateCommitted})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("Delete() = %d, want 1", n)
	}
	if _, err := s.Get(context.Background(), kept.ID); err != nil {
		t.Fatalf("Delete() removed a protected row: %v", err)
	}
}

func TestMemoryStoreEmptyTargetIsNoop(t *testing.T) {
	s := NewMemoryStore()
	seed(t, s, "doc", selection.StateStagedCreation)

	changed, err := s.UpdateState(context.Background(), "doc", selection.TargetIDs(),
		selection.StagedStates(), selection.StateCommitted)
	if err != nil || len(changed) != 0 {
		t.Fatalf("UpdateState() = %v, %v, want noop", changed, err)
	}
	n, err := s.Delete(context.Background(), "doc", selection.TargetIDs(), nil)
	if err != nil || n != 0 {
		t.Fatalf("Delete() = %d, %v, want noop", n, err)
	}
}
