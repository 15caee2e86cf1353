package documentrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

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
CREATE TABLE IF NOT EXISTS documents (
  document_id TEXT PRIMARY KEY,
  project_id TEXT NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  object_key TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_documents_project_id ON documents (project_id);
`)
	})
	return s.schemaErr
}

const documentColumns = `document_id, project_id, name, object_key, created_at`

func scanDocument(row interface{ Scan(...any) error }) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.ProjectID, &d.Name, &d.ObjectKey, &d.CreatedAt)
	return d, err
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Document, error) {
	if err := s.ensureSchema(); err != nil {
		return Document{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE document_id = $1`, strings.TrimSpace(id))
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return Document{}, ErrNotFound
	}
	return d, err
}

func (s *PostgresStore) Create(ctx context.Context, doc Document) (Document, error) {
	if err := s.ensureSchema(); err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(doc.ProjectID) == "" {
		return Document{}, fmt.Errorf("project_id is required")
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	row := s.db.QueryRowContext(ctx, `
INSERT INTO documents (document_id, project_id, name, object_key)
VALUES ($1,$2,$3,$4)
RETURNING `+documentColumns,
		doc.ID, doc.ProjectID, doc.Name, doc.ObjectKey)
	return scanDocument(row)
}

func (s *PostgresStore) ListByProject(ctx context.Context, projectID string) ([]Document, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE project_id = $1 ORDER BY created_at, document_id`,
		strings.TrimSpace(projectID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE document_id = $1`, strings.TrimSpace(id))
	return err
}
