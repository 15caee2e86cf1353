package directiverulerepo

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
CREATE TABLE IF NOT EXISTS directive_rules (
  rule_id TEXT PRIMARY KEY,
  document_id TEXT NOT NULL,
  rule_text TEXT NOT NULL DEFAULT '',
  approved BOOLEAN NOT NULL DEFAULT FALSE,
  position INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_directive_rules_document_id ON directive_rules (document_id);
`)
	})
	return s.schemaErr
}

const ruleColumns = `rule_id, document_id, rule_text, approved, position, created_at`

func scanRule(row interface{ Scan(...any) error }) (Rule, error) {
	var r Rule
	err := row.Scan(&r.ID, &r.DocumentID, &r.Text, &r.Approved, &r.Position, &r.CreatedAt)
	return r, err
}

func (s *PostgresStore) Create(ctx context.Context, rule Rule) (Rule, error) {
	if err := s.ensureSchema(); err != nil {
		return Rule{}, err
	}
	if strings.TrimSpace(rule.DocumentID) == "" {
		return Rule{}, fmt.Errorf("document_id is required")
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	row := s.db.QueryRowContext(ctx, `
INSERT INTO directive_rules (rule_id, document_id, rule_text, approved, position)
VALUES ($1,$2,$3,$4,$5)
RETURNING `+ruleColumns,
		rule.ID, rule.DocumentID, rule.Text, rule.Approved, rule.Position)
	return scanRule(row)
}

func (s *PostgresStore) ListByDocument(ctx context.Context, documentID string) ([]Rule, error) {
	return s.list(ctx, documentID, false)
}

func (s *PostgresStore) ListApproved(ctx context.Context, documentID string) ([]Rule, error) {
	return s.list(ctx, documentID, true)
}

func (s *PostgresStore) list(ctx context.Context, documentID string, approvedOnly bool) ([]Rule, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	q := `SELECT ` + ruleColumns + ` FROM directive_rules WHERE document_id = $1`
	if approvedOnly {
		q += ` AND approved`
	}
	q += ` ORDER BY position, created_at, rule_id`

	rows, err := s.db.QueryContext(ctx, q, strings.TrimSpace(documentID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SetApproved(ctx context.Context, id string, approved bool) (Rule, error) {
	if err := s.ensureSchema(); err != nil {
		return Rule{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`UPDATE directive_rules SET approved = $1 WHERE rule_id = $2 RETURNING `+ruleColumns,
		approved, strings.TrimSpace(id))
	r, err := scanRule(row)
	if err == sql.ErrNoRows {
		return Rule{}, ErrNotFound
	}
	return r, err
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM directive_rules WHERE rule_id = $1`, strings.TrimSpace(id))
	return err
}
