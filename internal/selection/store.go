package selection

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when no selection has the given id.
var ErrNotFound = errors.New("selection not found")

// Target names the rows a bulk operation acts on: either an explicit id set
// or every row of the document.
type Target struct {
	IDs []string
	All bool
}

// TargetAll targets every selection of the document.
func TargetAll() Target { return Target{All: true} }

// TargetIDs targets an explicit id set.
func TargetIDs(ids ...string) Target { return Target{IDs: ids} }

// Empty reports whether the target can never match a row.
func (t Target) Empty() bool { return !t.All && len(t.IDs) == 0 }

// Store is the persistence collaborator for selections. Bulk operations must
// be atomic with respect to a single document's selection set; both the
// postgres store (single statement / transaction) and the memory store
// (single lock section) provide that.
type Store interface {
	Get(ctx context.Context, id string) (Selection, error)
	Create(ctx context.Context, sel Selection) (Selection, error)
	ListByDocument(ctx context.Context, documentID string) ([]Selection, error)

	// UpdateState moves every targeted row currently in one of the from
	// states to the to state and returns the rows that changed.
	UpdateState(ctx context.Context, documentID string, target Target, from []State, to State) ([]Selection, error)

	// Delete removes targeted rows whose state is not in the protected set
	// and returns how many were removed.
	Delete(ctx context.Context, documentID string, target Target, protected []State) (int, error)
}
