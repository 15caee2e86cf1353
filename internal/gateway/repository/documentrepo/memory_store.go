package documentrepo

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
	rows map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]Document)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Document, error) {
	if s == nil {
		return Document{}, fmt.Errorf("store is nil")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.rows[strings.TrimSpace(id)]
	if !ok {
		return Document{}, ErrNotFound
	}
	return d, nil
}

func (s *MemoryStore) Create(_ context.Context, doc Document) (Document, error) {
	if s == nil {
		return Document{}, fmt.Errorf("store is nil")
	}
	if strings.TrimSpace(doc.ProjectID) == "" {
		return Document{}, fmt.Errorf("project_id is required")
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[doc.ID] = doc
	return doc, nil
}

func (s *MemoryStore) ListByProject(_ context.Context, projectID string) ([]Document, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	projectID = strings.TrimSpace(projectID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Document
	for _, d := range s.rows {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
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
