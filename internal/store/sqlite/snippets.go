// Package sqlite persists business-context snippets in an embedded SQLite
// database. The ranking layer only reads from it; writes exist for seeding
// and the dashboard's context editor.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/marablemarcel/Living-Lytics-sub001/internal/domain"
)

const createSnippetsTable = `
CREATE TABLE IF NOT EXISTS context_snippets (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	text TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SnippetStore is a SQLite-backed domain.SnippetSource.
type SnippetStore struct {
	db *sql.DB
}

// New opens (and migrates) the snippet database at path. Use ":memory:" for
// an ephemeral store.
func New(path string) (*SnippetStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snippet db: %w", err)
	}

	if _, err := db.Exec(createSnippetsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate snippet db: %w", err)
	}

	return &SnippetStore{db: db}, nil
}

// ListSnippets returns every stored snippet, oldest first.
func (s *SnippetStore) ListSnippets(ctx context.Context) ([]domain.ContextSnippet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, text, created_at FROM context_snippets ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list snippets: %w", err)
	}
	defer rows.Close()

	var snippets []domain.ContextSnippet
	for rows.Next() {
		var snippet domain.ContextSnippet
		var createdAt time.Time
		if scanErr := rows.Scan(&snippet.ID, &snippet.Type, &snippet.Text, &createdAt); scanErr != nil {
			return nil, fmt.Errorf("scan snippet: %w", scanErr)
		}
		snippet.CreatedAt = createdAt
		snippets = append(snippets, snippet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snippets: %w", err)
	}

	return snippets, nil
}

// SaveSnippet inserts or replaces a snippet. A missing ID gets a fresh UUID.
func (s *SnippetStore) SaveSnippet(ctx context.Context, snippet domain.ContextSnippet) (domain.ContextSnippet, error) {
	if snippet.Text == "" {
		return domain.ContextSnippet{}, &domain.ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if snippet.ID == "" {
		snippet.ID = uuid.New().String()
	}
	if snippet.CreatedAt.IsZero() {
		snippet.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO context_snippets (id, type, text, created_at) VALUES (?, ?, ?, ?)`,
		snippet.ID, string(snippet.Type), snippet.Text, snippet.CreatedAt)
	if err != nil {
		return domain.ContextSnippet{}, fmt.Errorf("save snippet: %w", err)
	}

	return snippet, nil
}

// DeleteSnippet removes a snippet by ID.
func (s *SnippetStore) DeleteSnippet(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM context_snippets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete snippet: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SnippetStore) Close() error {
	return s.db.Close()
}
