package directiverulerepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]Rule
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]Rule)}
}

func (s *MemoryStore) Create(_ context.Context, rule Rule) (Rule, error) {
	if s == nil {
		return Rule{}, fmt.Errorf("store is nil")
	}
	if strings.TrimSpace(rule.DocumentID) == "" {
		return Rule{}, fmt.Errorf("document_id is required")
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	rule.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[rule.ID] = rule
	return rule, nil
}

func (s *MemoryStore) ListByDocument(_ context.Context, documentID string) ([]Rule, error) {
	return s.list(documentID, false)
}

func (s *MemoryStore) ListApproved(_ context.Context, documentID string) ([]Rule, error) {
	return s.list(documentID, true)
}

func (s *MemoryStore) list(documentID string, approvedOnly bool) ([]Rule, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	documentID = strings.TrimSpace(documentID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Rule
	for _, r := range s.rows {
		if r.DocumentID != documentID {
			continue
		}
		if approvedOnly && !r.Approved {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) SetApproved(_ context.Context, id string, approved bool) (Rule, error) {
	if s == nil {
		return Rule{}, fmt.Errorf("store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[strings.TrimSpace(id)]
	if !ok {
		return Rule{}, ErrNotFound
	}
	r.Approved = approved
	s.rows[r.ID] = r
	return r, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, strings.TrimSpace(id))
	return nil
}
