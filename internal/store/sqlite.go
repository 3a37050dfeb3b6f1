package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at INTEGER NOT NULL DEFAULT 0,
	updated_at INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_created ON documents (collection, created_at);
`

// SQLiteStore keeps schemaless JSON documents in a local SQLite file, one row
// per document. It implements Store.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenSQLite opens (and if needed creates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// The TUI issues commands from multiple goroutines; a single connection
	// avoids SQLITE_BUSY on concurrent writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	return &SQLiteStore{db: db, path: path, now: time.Now}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (Doc, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, body, created_at, updated_at FROM documents WHERE collection = ? AND id = ?`,
		collection, id)
	return scanDoc(row)
}

func (s *SQLiteStore) List(ctx context.Context, collection string) ([]Doc, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body, created_at, updated_at FROM documents WHERE collection = ?`,
		collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Doc
	for rows.Next() {
		doc, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	ts := s.now().UnixMilli()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		collection, id, string(body), ts, ts)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

func (s *SQLiteStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	doc, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	for k, v := range fields {
		if v == nil {
			delete(doc.Data, k)
			continue
		}
		doc.Data[k] = v
	}
	body, err := json.Marshal(doc.Data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE documents SET body = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		string(body), s.now().UnixMilli(), collection, id)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// QueryByField scans the collection and filters in Go. Bodies are schemaless
// JSON, so a typed SQL predicate would have to guess at value encodings.
func (s *SQLiteStore) QueryByField(ctx context.Context, collection, field string, value any) ([]Doc, error) {
	docs, err := s.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	var out []Doc
	for _, d := range docs {
		if v, ok := d.Data[field]; ok && fmt.Sprint(v) == fmt.Sprint(value) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *SQLiteStore) Batch(ctx context.Context, ops []BatchOp) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	ts := s.now().UnixMilli()
	for _, op := range ops {
		body, err := json.Marshal(op.Data)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (collection, id, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			op.Collection, uuid.NewString(), string(body), ts, ts)
		if err != nil {
			return fmt.Errorf("batch insert into %s: %w", op.Collection, err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoc(row rowScanner) (Doc, error) {
	var (
		doc  Doc
		body string
	)
	err := row.Scan(&doc.ID, &body, &doc.CreatedAt, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return Doc{}, ErrNotFound
	}
	if err != nil {
		return Doc{}, fmt.Errorf("scan document: %w", err)
	}
	if err := json.Unmarshal([]byte(body), &doc.Data); err != nil {
		return Doc{}, fmt.Errorf("decode document %s: %w", doc.ID, err)
	}
	if doc.Data == nil {
		doc.Data = map[string]any{}
	}
	return doc, nil
}
