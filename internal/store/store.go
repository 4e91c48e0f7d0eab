package store

import (
	"context"
	"errors"
)

// Collection names. Member and message documents live in flat collections
// keyed by composite ids, the document-database rendition of the
// groups/{id}/members and groups/{id}/messages subcollections.
const (
	CollectionUsers      = "users"
	CollectionCategories = "categories"
	CollectionGroups     = "groups"
	CollectionMembers    = "group_members"
	CollectionMessages   = "messages"
	CollectionPayments   = "payments"
)

var (
	// ErrNotFound is returned when a document does not exist. Callers that
	// model absence as a valid state (the subscription evaluator) must map
	// it themselves.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable wraps transient backend failures. The core performs no
	// automatic retry; retry policy belongs to the store client.
	ErrUnavailable = errors.New("store unavailable")
)

// Document is a schemaless record. Model structs round-trip through the
// codec in codec.go.
type Document map[string]interface{}

// Store is the backing store contract. It is satisfied by the in-memory
// adapter (memstore), the MongoDB adapter (mongostore) and the Postgres
// JSONB adapter (pgstore); the driver is selected by configuration.
type Store interface {
	GetCollection(ctx context.Context, collection string) ([]Document, error)
	GetDocument(ctx context.Context, collection, id string) (Document, error)
	// SetDocument creates or overwrites a document.
	SetDocument(ctx context.Context, collection, id string, doc Document) error
	// UpdateDocument merges fields into an existing document.
	UpdateDocument(ctx context.Context, collection, id string, fields Document) error
	DeleteDocument(ctx context.Context, collection, id string) error
	Query(ctx context.Context, collection, field, value string) ([]Document, error)
	// IncrementField atomically adds delta to a numeric field, clamped at 0.
	IncrementField(ctx context.Context, collection, id, field string, delta int) error
	Close(ctx context.Context) error
}

// MemberDocID builds the composite key that enforces one membership record
// per (group, user) pair.
func MemberDocID(groupID, userID string) string {
	return groupID + "/" + userID
}
