package artifact

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore wraps another Store with an LRU of recently fetched binaries.
// Redaction reads the same source PDF repeatedly while a user iterates on
// selections, so hot documents stay in memory.
type CachedStore struct {
	inner Store
	cache *lru.Cache[string, []byte]
}

func NewCachedStore(inner Store, size int) (*CachedStore, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner store is required")
	}
	if size <= 0 {
		size = 64
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}
	return &CachedStore{inner: inner, cache: cache}, nil
}

func (s *CachedStore) Put(ctx context.Context, projectID, key string, content []byte) error {
	if err := s.inner.Put(ctx, projectID, key, content); err != nil {
		return err
	}
	s.cache.Remove(objectKey(projectID, key))
	return nil
}

func (s *CachedStore) Get(ctx context.Context, projectID, key string) ([]byte, error) {
	ck := objectKey(projectID, key)
	if content, ok := s.cache.Get(ck); ok {
		cp := make([]byte, len(content))
		copy(cp, content)
		return cp, nil
	}
	content, err := s.inner.Get(ctx, projectID, key)
	if err != nil {
		return nil, err
	}
	s.cache.Add(ck, content)
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp, nil
}

func (s *CachedStore) GetURL(ctx context.Context, projectID, key string) (string, error) {
	return s.inner.GetURL(ctx, projectID, key)
}

func (s *CachedStore) List(ctx context.Context, projectID string) ([]string, error) {
	return s.inner.List(ctx, projectID)
}

func (s *CachedStore) Delete(ctx context.Context, projectID, key string) error {
	s.cache.Remove(objectKey(projectID, key))
	return s.inner.Delete(ctx, projectID, key)
}
