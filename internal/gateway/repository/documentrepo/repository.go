// Package documentrepo persists document metadata. The PDF bytes themselves
// live in the artifact store under ObjectKey.
package documentrepo

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("document not found")

type Document struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	ObjectKey string    `json:"object_key"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Get(ctx context.Context, id string) (Document, error)
	Create(ctx context.Context, doc Document) (Document, error)
	ListByProject(ctx context.Context, projectID string) ([]Document, error)
	Delete(ctx context.Context, id string) error
}
