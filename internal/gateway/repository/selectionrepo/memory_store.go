package selectionrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"redactify/internal/selection"
)

// MemoryStore keeps selections in process memory. Used when no database
// URL is configured and in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]selection.Selection
	seq  map[string]int64
	ord  map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[string]selection.Selection),
		seq:  make(map[string]int64),
		ord:  make(map[string]int64),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (selection.Selection, error) {
	if s == nil {
		return selection.Selection{}, fmt.Errorf("store is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sel, ok := s.rows[strings.TrimSpace(id)]
	if !ok {
		return selection.Selection{}, selection.ErrNotFound
	}
	return sel, nil
}

func (s *MemoryStore) Create(_ context.Context, sel selection.Selection) (selection.Selection, error) {
	if s == nil {
		return selection.Selection{}, fmt.Errorf("store is nil")
	}
	if strings.TrimSpace(sel.DocumentID) == "" {
		return selection.Selection{}, fmt.Errorf("document_id is required")
	}
	if sel.ID == "" {
		sel.ID = uuid.NewString()
	}
	if sel.Scope == "" {
		sel.Scope = selection.ScopeDocument
	}
	if sel.State == "" {
		sel.State = selection.StateStagedCreation
	}
	now := time.Now().UTC()
	sel.CreatedAt = now
	sel.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[sel.DocumentID]++
	s.ord[sel.ID] = s.seq[sel.DocumentID]
	s.rows[sel.ID] = sel
	return sel, nil
}

func (s *MemoryStore) ListByDocument(_ context.Context, documentID string) ([]selection.Selection, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	documentID = strings.TrimSpace(documentID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []selection.Selection
	for _, sel := range s.rows {
		if sel.DocumentID == documentID {
			out = append(out, sel)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return s.ord[out[i].ID] < s.ord[out[j].ID]
	})
	return out, nil
}

func (s *MemoryStore) UpdateState(_ context.Context, documentID string, target selection.Target, from []selection.State, to selection.State) ([]selection.Selection, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if target.Empty() || len(from) == 0 {
		return nil, nil
	}
	documentID = strings.TrimSpace(documentID)
	fromSet := stateSet(from)

	s.mu.Lock()
	defer s.mu.Unlock()
	var changed []selection.Selection
	for id, sel := range s.rows {
		if sel.DocumentID != documentID || !s.targeted(target, id) || !fromSet[sel.State] {
			continue
		}
		sel.State = to
		sel.UpdatedAt = time.Now().UTC()
		s.rows[id] = sel
		changed = append(changed, sel)
	}
	sort.Slice(changed, func(i, j int) bool {
		return s.ord[changed[i].ID] < s.ord[changed[j].ID]
	})
	return changed, nil
}

func (s *MemoryStore) Delete(_ context.Context, documentID string, target selection.Target, protected []selection.State) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("store is nil")
	}
	if target.Empty() {
		return 0, nil
	}
	documentID = strings.TrimSpace(documentID)
	protectedSet := stateSet(protected)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sel := range s.rows {
		if sel.DocumentID != documentID || !s.targeted(target, id) || protectedSet[sel.State] {
			continue
		}
		delete(s.rows, id)
		delete(s.ord, id)
		n++
	}
	return n, nil
}

// targeted assumes the caller holds the lock.
func (s *MemoryStore) targeted(t selection.Target, id string) bool {
	if t.All {
		return true
	}
	for _, want := range t.IDs {
		if want == id {
			return true
		}
	}
	return false
}

func stateSet(states []selection.State) map[selection.State]bool {
	set := make(map[selection.State]bool, len(states))
	for _, st := range states {
		set[st] = true
	}
	return set
}
