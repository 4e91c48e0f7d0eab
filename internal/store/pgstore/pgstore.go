// Package pgstore is the Postgres storage adapter. Documents live in a
// single JSONB table keyed by (collection, id), which keeps the document
// contract intact while using a relational backend.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"communishare-be/internal/store"

	jsoniter "github.com/json-iterator/go"
	_ "github.com/lib/pq"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Store struct {
	db *sql.DB
}

func Open(cfg Config) (*Store, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", store.ErrUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%w: ping: %v", store.ErrUnavailable, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			data JSONB NOT NULL,
			PRIMARY KEY (collection, id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_data ON documents USING GIN (data);`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate documents table: %w", err)
		}
	}
	return nil
}

func (s *Store) GetCollection(ctx context.Context, collection string) ([]store.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE collection = $1`, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", store.ErrUnavailable, collection, err)
	}
	defer rows.Close()
	return scanDocuments(rows, collection)
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (store.Document, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s/%s: %v", store.ErrUnavailable, collection, id, err)
	}
	return unmarshalDocument(raw)
}

func (s *Store) SetDocument(ctx context.Context, collection, id string, doc store.Document) error {
	raw, err := marshalDocument(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data
	`, collection, id, raw)
	if err != nil {
		return fmt.Errorf("%w: set %s/%s: %v", store.ErrUnavailable, collection, id, err)
	}
	return nil
}

func (s *Store) UpdateDocument(ctx context.Context, collection, id string, fields store.Document) error {
	raw, err := marshalDocument(fields)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents SET data = data || $3::jsonb
		WHERE collection = $1 AND id = $2
	`, collection, id, raw)
	if err != nil {
		return fmt.Errorf("%w: update %s/%s: %v", store.ErrUnavailable, collection, id, err)
	}
	return checkAffected(res)
}

func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", store.ErrUnavailable, collection, id, err)
	}
	return checkAffected(res)
}

func (s *Store) Query(ctx context.Context, collection, field, value string) ([]store.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND data->>$2 = $3`,
		collection, field, value)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s.%s: %v", store.ErrUnavailable, collection, field, err)
	}
	defer rows.Close()
	return scanDocuments(rows, collection)
}

// IncrementField adds delta inside a single UPDATE so concurrent joins and
// removals never lose counts; GREATEST keeps the counter from going negative.
func (s *Store) IncrementField(ctx context.Context, collection, id, field string, delta int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE documents
		SET data = jsonb_set(data, ARRAY[$3],
			to_jsonb(GREATEST(0, COALESCE((data->>$3)::int, 0) + $4)))
		WHERE collection = $1 AND id = $2
	`, collection, id, field, delta)
	if err != nil {
		return fmt.Errorf("%w: increment %s/%s.%s: %v", store.ErrUnavailable, collection, id, field, err)
	}
	return checkAffected(res)
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", store.ErrUnavailable, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanDocuments(rows *sql.Rows, collection string) ([]store.Document, error) {
	var docs []store.Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", store.ErrUnavailable, collection, err)
		}
		doc, err := unmarshalDocument(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows %s: %v", store.ErrUnavailable, collection, err)
	}
	return docs, nil
}

func marshalDocument(doc store.Document) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return raw, nil
}

func unmarshalDocument(raw []byte) (store.Document, error) {
	var doc store.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}
