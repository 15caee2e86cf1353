// Package artifact stores document binaries, keyed by project and object
// key. The metadata row in documentrepo points here via ObjectKey.
package artifact

import (
	"context"
	"errors"
)

// Store defines operations for persisting document binaries.
type Store interface {
	Put(ctx context.Context, projectID, key string, content []byte) error
	Get(ctx context.Context, projectID, key string) ([]byte, error)
	GetURL(ctx context.Context, projectID, key string) (string, error)
	List(ctx context.Context, projectID string) ([]string, error)
	Delete(ctx context.Context, projectID, key string) error
}

var ErrNotFound = errors.New("artifact not found")
