// Package store archives ranked tag reports in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/NivBraz/tagextractor/internal/models"
)

// ErrReportNotFound is returned by LoadReport for an unknown id.
var ErrReportNotFound = errors.New("report not found")

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	document TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS report_tags (
	report_id INTEGER NOT NULL,
	rank INTEGER NOT NULL,
	word TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY (report_id, rank),
	FOREIGN KEY(report_id) REFERENCES reports(id) ON DELETE CASCADE
);
`

type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at path. Use ":memory:" for a throwaway
// database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening archive: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating archive schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport stores entries in their given order and returns the report id.
func (s *Store) SaveReport(ctx context.Context, document string, entries []models.WordCount) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO reports (document, created_at) VALUES (?, ?)`,
		document, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("error inserting report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("error reading report id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO report_tags (report_id, rank, word, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("error preparing tag insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, id, i, e.Word, e.Count); err != nil {
			return 0, fmt.Errorf("error inserting tag %q: %w", e.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing report: %w", err)
	}
	return id, nil
}

// LoadReport returns the document name and entries of a saved report, in
// the order they were saved.
func (s *Store) LoadReport(ctx context.Context, id int64) (string, []models.WordCount, error) {
	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM reports WHERE id = ?`, id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, ErrReportNotFound
	}
	if err != nil {
		return "", nil, fmt.Errorf("error loading report: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT word, count FROM report_tags WHERE report_id = ? ORDER BY rank`, id)
	if err != nil {
		return "", nil, fmt.Errorf("error loading tags: %w", err)
	}
	defer rows.Close()

	entries := make([]models.WordCount, 0)
	for rows.Next() {
		var e models.WordCount
		if err := rows.Scan(&e.Word, &e.Count); err != nil {
			return "", nil, fmt.Errorf("error scanning tag: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return "", nil, fmt.Errorf("error iterating tags: %w", err)
	}

	return document, entries, nil
}
