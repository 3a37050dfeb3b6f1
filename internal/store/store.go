package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a document does not exist in its collection.
var ErrNotFound = errors.New("document not found")

// Doc is a schemaless document. Fields present in Data are exactly the fields
// that were written; absent fields stay absent.
type Doc struct {
	ID        string
	Data      map[string]any
	CreatedAt int64 // unix millis, 0 when the document has no creation time
	UpdatedAt int64
}

// BatchOp is a single set operation inside a batch write.
type BatchOp struct {
	Collection string
	Data       map[string]any
}

// Store is the narrow facade over the backing document database. All
// persistence, ordering guarantees and consistency are owned by the
// implementation; callers only see documents in and documents out.
type Store interface {
	// Get fetches a document by id. Returns ErrNotFound if absent.
	Get(ctx context.Context, collection, id string) (Doc, error)

	// List returns every document in a collection, in no particular order.
	List(ctx context.Context, collection string) ([]Doc, error)

	// Add inserts a new document with a generated id and a server-side
	// creation timestamp, returning the new id.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)

	// Update merges fields into an existing document. A nil value removes
	// the field. Creation time is never touched.
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete removes a document by id.
	Delete(ctx context.Context, collection, id string) error

	// QueryByField returns documents whose field equals value.
	QueryByField(ctx context.Context, collection, field string, value any) ([]Doc, error)

	// Batch applies a set of inserts atomically.
	Batch(ctx context.Context, ops []BatchOp) error

	Close() error
}
