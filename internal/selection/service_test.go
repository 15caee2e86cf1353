package selection

import (
	"context"
	"fmt"
	"testing"
)

// fakeStore is a minimal in-memory Store for service tests.
type fakeStore struct {
	seq  int
	rows map[string]Selection
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]Selection)}
}

func (f *fakeStore) add(documentID string, state State) Selection {
	f.seq++
	sel := Selection{
		ID:         fmt.Sprintf("sel-%d", f.seq),
		DocumentID: documentID,
		Width:      0.1,
		Height:     0.1,
		Scope:      ScopeDocument,
		State:      state,
	}
	f.rows[sel.ID] = sel
	return sel
}

func (f *fakeStore) Get(_ context.Context, id string) (Selection, error) {
	sel, ok := f.rows[id]
	if !ok {
		return Selection{}, ErrNotFound
	}
	return sel, nil
}

func (f *fakeStore) Create(_ context.Context, sel Selection) (Selection, error) {
	f.seq++
	sel.ID = fmt.Sprintf("sel-%d", f.seq)
	f.rows[sel.ID] = sel
	return sel, nil
}

func (f *fakeStore) ListByDocument(_ context.Context, documentID string) ([]Selection, error) {
	var out []Selection
	for i := 1; i <= f.seq; i++ {
		if sel, ok := f.rows[fmt.Sprintf("sel-%d", i)]; ok && sel.DocumentID == documentID {
			out = append(out, sel)
		}
	}
	return out, nil
}

func (f *fakeStore) matches(sel Selection, documentID string, target Target) bool {
	if sel.DocumentID != documentID {
		return false
	}
	if target.All {
		return true
	}
	for _, id := range target.IDs {
		if id == sel.ID {
			return true
		}
	}
	return false
}

func (f *fakeStore) UpdateState(_ context.Context, documentID string, target Target, from []State, to State) ([]Selection, error) {
	var changed []Selection
	for id, sel := range f.rows {
		if !f.matches(sel, documentID, target) {
			continue
		}
		for _, st := range from {
			if sel.State == st {
				sel.State = to
				f.rows[id] = sel
				changed = append(changed, sel)
				break
			}
		}
	}
	return changed, nil
}

func (f *fakeStore) Delete(_ context.Context, documentID string, target Target, protected []State) (int, error) {
	n := 0
	for id, sel := range f.rows {
		if !f.matches(sel, documentID, target) {
			continue
		}
		immune := false
		for _, st := range protected {
			if sel.State == st {
				immune = true
				break
			}
		}
		if immune {
			continue
		}
		delete(f.rows, id)
		n++
	}
	return n, nil
}

func TestCommitAllPromotesEveryStagedRow(t *testing.T) {
	store := newFakeStore()
	store.add("doc-1", StateStagedCreation)
	store.add("doc-1", StateStagedEdition)
	store.add("doc-1", StateStagedDeletion)
	store.add("doc-1", StateCommitted)
	store.add("doc-2", StateStagedCreation) // other document, untouched

	svc := NewService(store)
	got, err := svc.Commit(context.Background(), "doc-1", TargetAll())
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("Commit() returned %d rows, want 4", len(got))
	}
	for _, sel := range got {
		if sel.State != StateCommitted {
			t.Fatalf("Commit() left row %s in state %s", sel.ID, sel.State)
		}
	}
	if other, _ := store.Get(context.Background(), "sel-5"); other.State != StateStagedCreation {
		t.Fatalf("Commit() touched another document's row: %s", other.State)
	}
}

func TestCommitIsIdempotent(t *testing.T) {
	store := newFakeStore()
	store.add("doc-1", StateStagedCreation)

	svc := NewService(store)
	first, err := svc.Commit(context.Background(), "doc-1", TargetAll())
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	second, err := svc.Commit(context.Background(), "doc-1", TargetAll())
	if err != nil {
		t.Fatalf("Commit() second error = %v", err)
	}
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("Commit() rows = %d then %d, want 1 and 1", len(first), len(second))
	}
	if first[0].ID != second[0].ID || second[0].State != StateCommitted {
		t.Fatalf("Commit() not idempotent: %+v vs %+v", first[0], second[0])
	}
}

func TestCommitByIDLeavesOthersStaged(t *testing.T) {
	store := newFakeStore()
	a := store.add("doc-1", StateStagedCreation)
	b := store.add("doc-1", StateStagedCreation)

	svc := NewService(store)
	got, err := svc.Commit(context.Background(), "doc-1", TargetIDs(a.ID))
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("Commit() = %+v, want only %s", got, a.ID)
	}
	if row, _ := store.Get(context.Background(), b.ID); row.State != StateStagedCreation {
		t.Fatalf("Commit() touched untargeted row, state = %s", row.State)
	}
}

func TestUncommitMovesToStagedEdition(t *testing.T) {
	store := newFakeStore()
	store.add("doc-1", StateCommitted)

	svc := NewService(store)
	got, err := svc.Uncommit(context.Background(), "doc-1", TargetAll())
	if err != nil {
		t.Fatalf("Uncommit() error = %v", err)
	}
	if len(got) != 1 || got[0].State != StateStagedEdition {
		t.Fatalf("Uncommit() = %+v, want one staged_edition row", got)
	}
}

func TestClearNeverDeletesCommitted(t *testing.T) {
	store := newFakeStore()
	committed := store.add("doc-1", StateCommitted)
	store.add("doc-1", StateStagedCreation)
	store.add("doc-1", StateStagedDeletion)

	svc := NewService(store)
	n, err := svc.Clear(context.Background(), "doc-1", TargetAll())
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("Clear() deleted %d rows, want 2", n)
	}
	if _, err := store.Get(context.Background(), committed.ID); err != nil {
		t.Fatalf("Clear() removed a committed row: %v", err)
	}
}

func TestClearCommittedByIDIsNoop(t *testing.T) {
	store := newFakeStore()
	committed := store.add("doc-1", StateCommitted)

	svc := NewService(store)
	n, err := svc.Clear(context.Background(), "doc-1", TargetIDs(committed.ID))
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n != 0 {
		t.Fatalf("Clear() deleted %d rows, want 0", n)
	}
}

func TestBulkOpsNoopOnEmptyTarget(t *testing.T) {
	store := newFakeStore()
	store.add("doc-1", StateStagedCreation)
	svc := NewService(store)

	rows, err := svc.Commit(context.Background(), "doc-1", Target{})
	if err != nil || len(rows) != 0 {
		t.Fatalf("Commit(empty) = %v rows, err %v; want 0 rows, nil", rows, err)
	}
	rows, err = svc.Uncommit(context.Background(), "doc-1", Target{})
	if err != nil || len(rows) != 0 {
		t.Fatalf("Uncommit(empty) = %v rows, err %v; want 0 rows, nil", rows, err)
	}
	n, err := svc.Clear(context.Background(), "doc-1", Target{})
	if err != nil || n != 0 {
		t.Fatalf("Clear(empty) = %d, err %v; want 0, nil", n, err)
	}
}

func TestAIGeneratedPredicate(t *testing.T) {
	conf := 0.8
	if (Selection{Confidence: &conf}).AIGenerated() != true {
		t.Fatal("selection with confidence should be AI generated")
	}
	if (Selection{}).AIGenerated() != false {
		t.Fatal("selection without confidence should be manual")
	}
}
