package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentRow is the single-table layout backing the Postgres implementation:
// every document is one JSONB row keyed by (collection, id).
type documentRow struct {
	Collection string            `gorm:"primaryKey;size:100"`
	DocID      string            `gorm:"primaryKey;size:255;column:doc_id"`
	Data       datatypes.JSONMap `gorm:"not null"`
	UpdatedAt  time.Time
}

func (documentRow) TableName() string {
	return "documents"
}

// PostgresStore implements Store on Postgres JSONB. Batch commits run inside
// one database transaction, which is what makes a staged batch atomic; field
// transforms are resolved under a row lock inside that same transaction.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore migrates the documents table and returns the store.
func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("docstore: migrate documents table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Get(ctx context.Context, collection, id string) (*Snapshot, error) {
	return getRow(p.db.WithContext(ctx), collection, id)
}

func (p *PostgresStore) List(ctx context.Context, collection string) ([]Snapshot, error) {
	var rows []documentRow
	err := p.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("doc_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
	}
	return snapshots(rows), nil
}

func (p *PostgresStore) Query(ctx context.Context, collection, field string, value any) ([]Snapshot, error) {
	var rows []documentRow
	err := p.db.WithContext(ctx).
		Where("collection = ?", collection).
		Where(datatypes.JSONQuery("data").Equals(value, field)).
		Order("doc_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("docstore: query %s.%s: %w", collection, field, err)
	}
	return snapshots(rows), nil
}

func (p *PostgresStore) Set(ctx context.Context, collection, id string, data Document) error {
	return setRow(p.db.WithContext(ctx), collection, id, data)
}

func (p *PostgresStore) Update(ctx context.Context, collection, id string, fields Document) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return updateRow(tx, collection, id, fields)
	})
}

func (p *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	err := p.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&documentRow{}).Error
	if err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (p *PostgresStore) Batch() WriteBatch {
	return &postgresBatch{store: p}
}

type postgresBatch struct {
	store *PostgresStore
	ops   []stagedOp
}

func (b *postgresBatch) Set(collection, id string, data Document) {
	b.ops = append(b.ops, stagedOp{kind: opSet, collection: collection, id: id, data: data})
}

func (b *postgresBatch) Update(collection, id string, fields Document) {
	b.ops = append(b.ops, stagedOp{kind: opUpdate, collection: collection, id: id, data: fields})
}

func (b *postgresBatch) Delete(collection, id string) {
	b.ops = append(b.ops, stagedOp{kind: opDelete, collection: collection, id: id})
}

func (b *postgresBatch) Len() int { return len(b.ops) }

func (b *postgresBatch) Commit(ctx context.Context) error {
	if len(b.ops) > MaxBatchOperations {
		return ErrBatchLimitExceeded
	}
	if len(b.ops) == 0 {
		return nil
	}

	return b.store.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range b.ops {
			var err error
			switch op.kind {
			case opSet:
				err = setRow(tx, op.collection, op.id, op.data)
			case opUpdate:
				err = updateRow(tx, op.collection, op.id, op.data)
			case opDelete:
				err = tx.Where("collection = ? AND doc_id = ?", op.collection, op.id).
					Delete(&documentRow{}).Error
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ===== ROW HELPERS =====

func getRow(db *gorm.DB, collection, id string) (*Snapshot, error) {
	var row documentRow
	err := db.Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("docstore: %s/%s: %w", collection, id, ErrNotFound)
		}
		return nil, fmt.Errorf("docstore: get %s/%s: %w", collection, id, err)
	}
	return &Snapshot{ID: row.DocID, Data: Document(row.Data)}, nil
}

func setRow(db *gorm.DB, collection, id string, data Document) error {
	row := documentRow{
		Collection: collection,
		DocID:      id,
		Data:       datatypes.JSONMap(copyDocument(data)),
		UpdatedAt:  time.Now().UTC(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("docstore: set %s/%s: %w", collection, id, err)
	}
	return nil
}

// updateRow resolves transforms under a row lock so concurrent array-union
// updates serialize instead of clobbering each other.
func updateRow(db *gorm.DB, collection, id string, fields Document) error {
	var row documentRow
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("docstore: %s/%s: %w", collection, id, ErrNotFound)
		}
		return fmt.Errorf("docstore: update %s/%s: %w", collection, id, err)
	}

	next := applyFields(Document(row.Data), fields)
	err = db.Model(&documentRow{}).
		Where("collection = ? AND doc_id = ?", collection, id).
		Updates(map[string]any{
			"data":       datatypes.JSONMap(next),
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("docstore: update %s/%s: %w", collection, id, err)
	}
	return nil
}

func snapshots(rows []documentRow) []Snapshot {
	out := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, Snapshot{ID: row.DocID, Data: Document(row.Data)})
	}
	return out
}
