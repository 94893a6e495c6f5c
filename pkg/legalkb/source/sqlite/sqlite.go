package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/legalkb/pkg/legalkb/article"
	"github.com/cognicore/legalkb/pkg/legalkb/internalerr"
	"github.com/cognicore/legalkb/pkg/legalkb/source"
)

// Store is a SQLite-backed record source. Each code is stored as a row in
// codes plus its raw article records, in source order, in articles.
type Store struct {
	db *sql.DB
}

var _ source.Source = (*Store)(nil)

// Open opens a SQLite database with WAL mode enabled and creates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS codes (
	code_id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	law_number TEXT NOT NULL DEFAULT '',
	total_articles INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS articles (
	code_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	record TEXT NOT NULL,
	PRIMARY KEY(code_id, position),
	FOREIGN KEY(code_id) REFERENCES codes(code_id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// PutDocument replaces everything stored for a code with doc.
func (s *Store) PutDocument(ctx context.Context, codeID string, doc *source.Document) error {
	if codeID == "" {
		return fmt.Errorf("put document: blank code id: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// foreign_keys is per connection, so the cascade is not relied on here.
	if _, err := tx.ExecContext(ctx, `DELETE FROM articles WHERE code_id = ?`, codeID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM codes WHERE code_id = ?`, codeID); err != nil {
		return err
	}

	const insertCode = `
INSERT INTO codes (code_id, name, law_number, total_articles)
VALUES (?, ?, ?, ?);
`
	if _, err := tx.ExecContext(ctx, insertCode, codeID, doc.Name, doc.LawNumber, doc.TotalArticles); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO articles (code_id, position, record) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range doc.Records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record %d of %s: %w", i, codeID, err)
		}
		if _, err := stmt.ExecContext(ctx, codeID, i, string(raw)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Fetch implements source.Source.
func (s *Store) Fetch(ctx context.Context, codeID string) (*source.Document, error) {
	var doc source.Document
	err := s.db.QueryRowContext(ctx,
		`SELECT name, law_number, total_articles FROM codes WHERE code_id = ?`, codeID,
	).Scan(&doc.Name, &doc.LawNumber, &doc.TotalArticles)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite source has no %s: %w", codeID, internalerr.ErrSourceUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("query code %s: %w", codeID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM articles WHERE code_id = ? ORDER BY position`, codeID)
	if err != nil {
		return nil, fmt.Errorf("query articles of %s: %w", codeID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		doc.Records = append(doc.Records, decodeRecord(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Codes lists the stored code ids, sorted.
func (s *Store) Codes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code_id FROM codes ORDER BY code_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// decodeRecord keeps unreadable rows as empty records so the loader can
// count them as discarded.
func decodeRecord(raw string) article.Record {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var rec article.Record
	if err := dec.Decode(&rec); err != nil || rec == nil {
		return article.Record{}
	}
	return rec
}
