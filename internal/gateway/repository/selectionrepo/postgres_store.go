package selectionrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"redactify/internal/selection"
)

type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgres opens a connection for dsn and pings it.
func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewPostgresStore(db), nil
}

func (s *PostgresStore) ensureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS selections (
  selection_id TEXT PRIMARY KEY,
  document_id TEXT NOT NULL,
  x DOUBLE PRECISION NOT NULL DEFAULT 0,
  y DOUBLE PRECISION NOT NULL DEFAULT 0,
  width DOUBLE PRECISION NOT NULL DEFAULT 0,
  height DOUBLE PRECISION NOT NULL DEFAULT 0,
  page_number INTEGER,
  confidence DOUBLE PRECISION,
  scope TEXT NOT NULL DEFAULT 'document',
  state TEXT NOT NULL,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_selections_document_id ON selections (document_id);
CREATE INDEX IF NOT EXISTS idx_selections_document_state ON selections (document_id, state);
`)
	})
	return s.schemaErr
}

const selectionColumns = `selection_id, document_id, x, y, width, height, page_number, confidence, scope, state, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSelection(row rowScanner) (selection.Selection, error) {
	var sel selection.Selection
	var page sql.NullInt64
	var conf sql.NullFloat64
	err := row.Scan(
		&sel.ID, &sel.DocumentID,
		&sel.X, &sel.Y, &sel.Width, &sel.Height,
		&page, &conf,
		&sel.Scope, &sel.State,
		&sel.CreatedAt, &sel.UpdatedAt,
	)
	if err != nil {
		return selection.Selection{}, err
	}
	if page.Valid {
		p := int(page.Int64)
		sel.PageNumber = &p
	}
	if conf.Valid {
		c := conf.Float64
		sel.Confidence = &c
	}
	return sel, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (selection.Selection, error) {
	if err := s.ensureSchema(); err != nil {
		return selection.Selection{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectionColumns+` FROM selections WHERE selection_id = $1`, strings.TrimSpace(id))
	sel, err := scanSelection(row)
	if err == sql.ErrNoRows {
		return selection.Selection{}, selection.ErrNotFound
	}
	return sel, err
}

func (s *PostgresStore) Create(ctx context.Context, sel selection.Selection) (selection.Selection, error) {
	if err := s.ensureSchema(); err != nil {
		return selection.Selection{}, err
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
	row := s.db.QueryRowContext(ctx, `
INSERT INTO selections (selection_id, document_id, x, y, width, height, page_number, confidence, scope, state)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING `+selectionColumns,
		sel.ID, sel.DocumentID, sel.X, sel.Y, sel.Width, sel.Height,
		nullableInt(sel.PageNumber), nullableFloat(sel.Confidence),
		string(sel.Scope), string(sel.State))
	return scanSelection(row)
}

func (s *PostgresStore) ListByDocument(ctx context.Context, documentID string) ([]selection.Selection, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectionColumns+` FROM selections WHERE document_id = $1 ORDER BY created_at, selection_id`,
		strings.TrimSpace(documentID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []selection.Selection
	for rows.Next() {
		sel, err := scanSelection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, rows.Err()
}

// UpdateState runs as a single UPDATE, which gives the per-document
// atomicity the lifecycle contract requires.
func (s *PostgresStore) UpdateState(ctx context.Context, documentID string, target selection.Target, from []selection.State, to selection.State) ([]selection.Selection, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	if target.Empty() || len(from) == 0 {
		return nil, nil
	}

	args := []any{string(to), strings.TrimSpace(documentID)}
	var b strings.Builder
	b.WriteString(`UPDATE selections SET state = $1, updated_at = NOW() WHERE document_id = $2 AND state IN (`)
	for i, st := range from {
		if i > 0 {
			b.WriteString(",")
		}
		args = append(args, string(st))
		fmt.Fprintf(&b, "$%d", len(args))
	}
	b.WriteString(")")
	if !target.All {
		b.WriteString(" AND selection_id IN (")
		for i, id := range target.IDs {
			if i > 0 {
				b.WriteString(",")
			}
			args = append(args, id)
			fmt.Fprintf(&b, "$%d", len(args))
		}
		b.WriteString(")")
	}
	b.WriteString(" RETURNING " + selectionColumns)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []selection.Selection
	for rows.Next() {
		sel, err := scanSelection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, rows.Err()
}

// Delete runs as a single DELETE for the same atomicity reason.
func (s *PostgresStore) Delete(ctx context.Context, documentID string, target selection.Target, protected []selection.State) (int, error) {
	if err := s.ensureSchema(); err != nil {
		return 0, err
	}
	if target.Empty() {
		return 0, nil
	}

	args := []any{strings.TrimSpace(documentID)}
	var b strings.Builder
	b.WriteString(`DELETE FROM selections WHERE document_id = $1`)
	if len(protected) > 0 {
		b.WriteString(" AND state NOT IN (")
		for i, st := range protected {
			if i > 0 {
				b.WriteString(",")
			}
			args = append(args, string(st))
			fmt.Fprintf(&b, "$%d", len(args))
		}
		b.WriteString(")")
	}
	if !target.All {
		b.WriteString(" AND selection_id IN (")
		for i, id := range target.IDs {
			if i > 0 {
				b.WriteString(",")
			}
			args = append(args, id)
			fmt.Fprintf(&b, "$%d", len(args))
		}
		b.WriteString(")")
	}

	res, err := s.db.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// DeleteByDocument removes every selection of a document, used when the
// owning document is deleted.
func (s *PostgresStore) DeleteByDocument(ctx context.Context, documentID string) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM selections WHERE document_id = $1`, strings.TrimSpace(documentID))
	return err
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
