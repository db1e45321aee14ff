// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/davetashner/dupscan/internal/model"
)

// SQLiteBackend stores blocks in a temporary SQLite database. All inserts go
// through one transaction that is committed by Seal. The file is removed on
// Close.
type SQLiteBackend struct {
	mu   sync.Mutex
	path string
	db   *sql.DB
	tx   *sql.Tx

	putBlock    *sql.Stmt
	putConstant *sql.Stmt
}

var schema = []string{
	`PRAGMA journal_mode = OFF`,
	`PRAGMA synchronous = OFF`,
	`CREATE TABLE blocks (
		hash        INTEGER NOT NULL,
		file        TEXT    NOT NULL,
		language    TEXT    NOT NULL,
		start_line  INTEGER NOT NULL,
		end_line    INTEGER NOT NULL,
		win         INTEGER NOT NULL,
		token_count INTEGER NOT NULL,
		snippet     TEXT    NOT NULL
	)`,
	`CREATE TABLE constants (
		name       TEXT    NOT NULL,
		normalized TEXT    NOT NULL,
		file       TEXT    NOT NULL,
		line       INTEGER NOT NULL,
		literal    TEXT    NOT NULL,
		language   TEXT    NOT NULL
	)`,
}

// OpenSQLite creates a fresh database file under dir (os.TempDir() when
// empty).
func OpenSQLite(dir string) (*SQLiteBackend, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "dupscan-"+uuid.NewString()+".db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}
	db.SetMaxOpenConns(1)
	defer func() {
		if db != nil {
			_ = db.Close()
			_ = os.Remove(path)
		}
	}()

	for _, q := range schema {
		if _, err := db.Exec(q); err != nil {
			return nil, &StorageError{Op: "create schema", Err: err}
		}
	}
	tx, err := db.Begin()
	if err != nil {
		return nil, &StorageError{Op: "begin", Err: err}
	}
	putBlock, err := tx.Prepare(`INSERT INTO blocks (hash, file, language, start_line, end_line, win, token_count, snippet) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return nil, &StorageError{Op: "prepare", Err: err}
	}
	putConstant, err := tx.Prepare(`INSERT INTO constants (name, normalized, file, line, literal, language) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return nil, &StorageError{Op: "prepare", Err: err}
	}

	s := &SQLiteBackend{path: path, db: db, tx: tx, putBlock: putBlock, putConstant: putConstant}
	db = nil // disarm cleanup
	return s, nil
}

// Path returns the database file location.
func (s *SQLiteBackend) Path() string { return s.path }

// PutBlock implements Backend.
func (s *SQLiteBackend) PutBlock(b model.CodeBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return &StorageError{Op: "insert block", Err: errors.New("transaction closed")}
	}
	// SQLite integers are signed; the fingerprint round-trips through int64.
	_, err := s.putBlock.Exec(int64(b.Hash), b.FilePath, string(b.Language), b.StartLine, b.EndLine, b.Window, b.TokenCount, b.Snippet)
	if err != nil {
		return &StorageError{Op: "insert block", Err: err}
	}
	return nil
}

// PutConstant implements Backend.
func (s *SQLiteBackend) PutConstant(d model.ConstantDeclaration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return &StorageError{Op: "insert constant", Err: errors.New("transaction closed")}
	}
	_, err := s.putConstant.Exec(d.Name, d.NormalizedName, d.FilePath, d.Line, d.Literal, string(d.Language))
	if err != nil {
		return &StorageError{Op: "insert constant", Err: err}
	}
	return nil
}

// Seal commits the collection transaction and builds the hash index.
func (s *SQLiteBackend) Seal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx == nil {
		return nil
	}
	_ = s.putBlock.Close()
	_ = s.putConstant.Close()
	err := s.tx.Commit()
	s.tx = nil
	if err != nil {
		return &StorageError{Op: "commit", Err: err}
	}
	if _, err := s.db.Exec(`CREATE INDEX blocks_hash ON blocks (hash)`); err != nil {
		return &StorageError{Op: "create index", Err: err}
	}
	return nil
}

// DuplicateBlocks implements Backend.
func (s *SQLiteBackend) DuplicateBlocks(min int) (map[uint64][]model.CodeBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`
		SELECT hash, file, language, start_line, end_line, win, token_count, snippet
		FROM blocks
		WHERE hash IN (SELECT hash FROM blocks GROUP BY hash HAVING COUNT(*) >= ?)
		ORDER BY hash, file, start_line`, min)
	if err != nil {
		return nil, &StorageError{Op: "query blocks", Err: err}
	}
	defer rows.Close() //nolint:errcheck

	out := make(map[uint64][]model.CodeBlock)
	for rows.Next() {
		var (
			h    int64
			lang string
			b    model.CodeBlock
		)
		if err := rows.Scan(&h, &b.FilePath, &lang, &b.StartLine, &b.EndLine, &b.Window, &b.TokenCount, &b.Snippet); err != nil {
			return nil, &StorageError{Op: "scan block", Err: err}
		}
		b.Hash = uint64(h)
		b.Language = model.Language(lang)
		out[b.Hash] = append(out[b.Hash], b)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query blocks", Err: err}
	}
	return out, nil
}

// Constants implements Backend.
func (s *SQLiteBackend) Constants() ([]model.ConstantDeclaration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.Query(`SELECT name, normalized, file, line, literal, language FROM constants ORDER BY file, line`)
	if err != nil {
		return nil, &StorageError{Op: "query constants", Err: err}
	}
	defer rows.Close() //nolint:errcheck

	var out []model.ConstantDeclaration
	for rows.Next() {
		var (
			d    model.ConstantDeclaration
			lang string
		)
		if err := rows.Scan(&d.Name, &d.NormalizedName, &d.FilePath, &d.Line, &d.Literal, &lang); err != nil {
			return nil, &StorageError{Op: "scan constant", Err: err}
		}
		d.Language = model.Language(lang)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "query constants", Err: err}
	}
	return out, nil
}

// Close implements Backend. The database file is deleted.
func (s *SQLiteBackend) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx != nil {
		_ = s.putBlock.Close()
		_ = s.putConstant.Close()
		_ = s.tx.Rollback()
		s.tx = nil
	}
	err := s.db.Close()
	if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	if err != nil {
		return &StorageError{Op: "close", Err: err}
	}
	return nil
}
