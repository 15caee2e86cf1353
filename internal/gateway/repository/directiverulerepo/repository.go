// Package directiverulerepo persists the per-document redaction directives
// that get folded into the staging prompt. Only approved rules ever reach
// the model; Position fixes the order they appear in the prompt.
package directiverulerepo

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("directive rule not found")

type Rule struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Text       string    `json:"text"`
	Approved   bool      `json:"approved"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

type Store interface {
	Create(ctx context.Context, rule Rule) (Rule, error)
	ListByDocument(ctx context.Context, documentID string) ([]Rule, error)
	// ListApproved returns approved rules ordered by Position.
	ListApproved(ctx context.Context, documentID string) ([]Rule, error)
	SetApproved(ctx context.Context, id string, approved bool) (Rule, error)
	Delete(ctx context.Context, id string) error
}
