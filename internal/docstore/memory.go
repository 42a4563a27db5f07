package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local development.
// It implements the same semantics as the deployed store: blind writes,
// single-field equality queries, transforms, and all-or-nothing batch
// commits bounded by MaxBatchOperations.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document

	commitCount int
	failAfter   int
	failErr     error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

// FailAfterCommits lets the first n batch commits succeed and fails every
// commit after that with err. Used by tests to simulate a store outage
// mid-way through a chunked operation. n == 0 fails the first commit.
func (m *MemoryStore) FailAfterCommits(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAfter = n
	m.failErr = err
	m.commitCount = 0
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("docstore: %s/%s: %w", collection, id, ErrNotFound)
	}
	return &Snapshot{ID: id, Data: copyDocument(doc)}, nil
}

func (m *MemoryStore) List(ctx context.Context, collection string) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := m.collections[collection]
	out := make([]Snapshot, 0, len(docs))
	for id, doc := range docs {
		out = append(out, Snapshot{ID: id, Data: copyDocument(doc)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Query(ctx context.Context, collection, field string, value any) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	want := normalize(value)
	var out []Snapshot
	for id, doc := range m.collections[collection] {
		if reflect.DeepEqual(doc[field], want) {
			out = append(out, Snapshot{ID: id, Data: copyDocument(doc)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Set(ctx context.Context, collection, id string, data Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(collection, id, data)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, fields Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.update(collection, id, fields)
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[collection], id)
	return nil
}

func (m *MemoryStore) Batch() WriteBatch {
	return &memoryBatch{store: m}
}

// set stores a normalized deep copy; callers hold the lock.
func (m *MemoryStore) set(collection, id string, data Document) {
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]Document)
	}
	m.collections[collection][id] = copyDocument(data)
}

func (m *MemoryStore) update(collection, id string, fields Document) error {
	doc, ok := m.collections[collection][id]
	if !ok {
		return fmt.Errorf("docstore: %s/%s: %w", collection, id, ErrNotFound)
	}
	m.collections[collection][id] = applyFields(doc, fields)
	return nil
}

func copyDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = normalize(v)
	}
	return out
}

type memoryBatch struct {
	store *MemoryStore
	ops   []stagedOp
}

func (b *memoryBatch) Set(collection, id string, data Document) {
	b.ops = append(b.ops, stagedOp{kind: opSet, collection: collection, id: id, data: data})
}

func (b *memoryBatch) Update(collection, id string, fields Document) {
	b.ops = append(b.ops, stagedOp{kind: opUpdate, collection: collection, id: id, data: fields})
}

func (b *memoryBatch) Delete(collection, id string) {
	b.ops = append(b.ops, stagedOp{kind: opDelete, collection: collection, id: id})
}

func (b *memoryBatch) Len() int { return len(b.ops) }

func (b *memoryBatch) Commit(ctx context.Context) error {
	if len(b.ops) > MaxBatchOperations {
		return ErrBatchLimitExceeded
	}

	m := b.store
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commitCount++
	if m.failErr != nil && m.commitCount > m.failAfter {
		return m.failErr
	}

	// Validate update targets first so a failing batch applies nothing.
	created := make(map[string]bool)
	for _, op := range b.ops {
		key := op.collection + "/" + op.id
		switch op.kind {
		case opSet:
			created[key] = true
		case opDelete:
			delete(created, key)
		case opUpdate:
			if created[key] {
				continue
			}
			if _, ok := m.collections[op.collection][op.id]; !ok {
				return fmt.Errorf("docstore: %s/%s: %w", op.collection, op.id, ErrNotFound)
			}
		}
	}

	for _, op := range b.ops {
		switch op.kind {
		case opSet:
			m.set(op.collection, op.id, op.data)
		case opUpdate:
			if err := m.update(op.collection, op.id, op.data); err != nil {
				return err
			}
		case opDelete:
			delete(m.collections[op.collection], op.id)
		}
	}
	return nil
}
