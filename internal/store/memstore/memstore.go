// Package memstore is the in-memory storage adapter with an optional JSON
// snapshot file, used for local development and tests in place of a remote
// document database.
package memstore

import (
	"context"
	"fmt"
	"os"
	"sync"

	"communishare-be/internal/store"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]store.Document
	path        string
}

// Open creates a store. If path is non-empty, an existing snapshot is loaded
// from it and the state is written back on Close.
func Open(path string) (*Store, error) {
	s := &Store{
		collections: make(map[string]map[string]store.Document),
		path:        path,
	}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.collections); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) GetCollection(ctx context.Context, collection string) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]store.Document, 0, len(s.collections[collection]))
	for _, doc := range s.collections[collection] {
		docs = append(docs, clone(doc))
	}
	return docs, nil
}

func (s *Store) GetDocument(ctx context.Context, collection, id string) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return clone(doc), nil
}

func (s *Store) SetDocument(ctx context.Context, collection, id string, doc store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]store.Document)
	}
	s.collections[collection][id] = clone(doc)
	return nil
}

func (s *Store) UpdateDocument(ctx context.Context, collection, id string, fields store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return store.ErrNotFound
	}
	for k, v := range clone(fields) {
		doc[k] = v
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return store.ErrNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

func (s *Store) Query(ctx context.Context, collection, field, value string) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []store.Document
	for _, doc := range s.collections[collection] {
		if str, ok := doc[field].(string); ok && str == value {
			docs = append(docs, clone(doc))
		}
	}
	return docs, nil
}

func (s *Store) IncrementField(ctx context.Context, collection, id, field string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return store.ErrNotFound
	}

	current := 0
	switch n := doc[field].(type) {
	case float64:
		current = int(n)
	case int:
		current = n
	}

	next := current + delta
	if next < 0 {
		next = 0
	}
	doc[field] = float64(next)
	return nil
}

// Flush writes the snapshot file, if one is configured.
func (s *Store) Flush() error {
	if s.path == "" {
		return nil
	}

	s.mu.RLock()
	raw, err := json.MarshalIndent(s.collections, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.Flush()
}

// clone deep-copies a document so callers never share mutable state with the
// store.
func clone(doc store.Document) store.Document {
	raw, err := json.Marshal(doc)
	if err != nil {
		return store.Document{}
	}
	var out store.Document
	if err := json.Unmarshal(raw, &out); err != nil {
		return store.Document{}
	}
	return out
}
