package docrepo

import (
	"context"
	"fmt"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/docstore"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
)

type ledgerDocstore struct {
	store docstore.Store
}

func NewLedgerDocstore(store docstore.Store) repositories.LedgerRepository {
	return &ledgerDocstore{store: store}
}

// RecordScan writes the scan under its composite ID. A repeated scan for the
// same (module, date, student) resolves to the same ID and overwrites, which
// is what satisfies the dedup contract without a prior read.
func (r *ledgerDocstore) RecordScan(ctx context.Context, record models.ScanRecord) error {
	record.ModuleDate = models.SessionKey(record.ModuleCode, record.Date)
	doc, err := docstore.DocumentFrom(record)
	if err != nil {
		return err
	}
	id := models.ScanID(record.ModuleCode, record.Date, record.StudentNumber)
	return r.store.Set(ctx, models.CollectionAttended, id, doc)
}

func (r *ledgerDocstore) Entry(ctx context.Context, moduleCode string) (*models.LedgerEntry, error) {
	snaps, err := r.store.Query(ctx, models.CollectionAttended, "moduleCode", moduleCode)
	if err != nil {
		return nil, err
	}
	entry := &models.LedgerEntry{
		ModuleCode: moduleCode,
		Dates:      make(map[string][]models.ScanRecord),
	}
	for _, snap := range snaps {
		record, err := decodeScan(snap)
		if err != nil {
			return nil, err
		}
		entry.Dates[record.Date] = append(entry.Dates[record.Date], record)
	}
	return entry, nil
}

func (r *ledgerDocstore) SessionScans(ctx context.Context, moduleCode, date string) ([]models.ScanRecord, error) {
	key := models.SessionKey(moduleCode, date)
	snaps, err := r.store.Query(ctx, models.CollectionAttended, "moduleDate", key)
	if err != nil {
		return nil, err
	}
	return decodeScans(snaps)
}

func (r *ledgerDocstore) StudentScans(ctx context.Context, studentNumber string) ([]models.ScanRecord, error) {
	snaps, err := r.store.Query(ctx, models.CollectionAttended, "studentNumber", studentNumber)
	if err != nil {
		return nil, err
	}
	return decodeScans(snaps)
}

func decodeScan(snap docstore.Snapshot) (models.ScanRecord, error) {
	var record models.ScanRecord
	if err := snap.DataTo(&record); err != nil {
		return models.ScanRecord{}, fmt.Errorf("decode scan %s: %w", snap.ID, err)
	}
	return record, nil
}

func decodeScans(snaps []docstore.Snapshot) ([]models.ScanRecord, error) {
	records := make([]models.ScanRecord, 0, len(snaps))
	for _, snap := range snaps {
		record, err := decodeScan(snap)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
