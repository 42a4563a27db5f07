// Package docstore is the boundary to the schemaless document database the
// service persists into. Documents are JSON-like maps grouped into named
// collections; the only multi-document primitive is a bounded, atomic,
// blind-write batch (no compare-and-swap, no read validation).
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
)

// MaxBatchOperations is the store's hard cap on staged operations per batch
// commit. Commits beyond this fail with ErrBatchLimitExceeded rather than
// truncating.
const MaxBatchOperations = 500

// Document is the schemaless field map of a single document.
type Document map[string]any

// Snapshot is a document read result: its ID within the collection plus the
// decoded field map.
type Snapshot struct {
	ID   string
	Data Document
}

// DataTo unmarshals the snapshot's fields into dest via JSON round-trip.
func (s *Snapshot) DataTo(dest any) error {
	raw, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("docstore: encode snapshot %q: %w", s.ID, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("docstore: decode snapshot %q: %w", s.ID, err)
	}
	return nil
}

// DocumentFrom converts any JSON-serializable value into a Document.
func DocumentFrom(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("docstore: decode document: %w", err)
	}
	return doc, nil
}

// Store is the document store client surface the service depends on.
// Query supports a single-field equality predicate; broader scans go through
// List. All writes are blind: the store never validates what a writer read.
type Store interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (*Snapshot, error)

	// List returns every document in the collection.
	List(ctx context.Context, collection string) ([]Snapshot, error)

	// Query returns the documents whose field equals value.
	Query(ctx context.Context, collection, field string, value any) ([]Snapshot, error)

	// Set creates or fully replaces the document.
	Set(ctx context.Context, collection, id string, data Document) error

	// Update applies partial fields (including field transforms) to an
	// existing document; ErrNotFound if the document is absent.
	Update(ctx context.Context, collection, id string, fields Document) error

	// Delete removes the document. Deleting an absent document is a no-op.
	Delete(ctx context.Context, collection, id string) error

	// Batch starts an empty write batch. Staging is local; Commit applies
	// all staged operations atomically, up to MaxBatchOperations.
	Batch() WriteBatch
}

// WriteBatch stages writes for one atomic commit.
type WriteBatch interface {
	Set(collection, id string, data Document)
	Update(collection, id string, fields Document)
	Delete(collection, id string)

	// Len reports the number of staged operations.
	Len() int

	// Commit applies every staged operation atomically. It fails with
	// ErrBatchLimitExceeded when more than MaxBatchOperations are staged,
	// without applying anything.
	Commit(ctx context.Context) error
}

// opKind discriminates staged batch operations.
type opKind int

const (
	opSet opKind = iota
	opUpdate
	opDelete
)

type stagedOp struct {
	kind       opKind
	collection string
	id         string
	data       Document
}
