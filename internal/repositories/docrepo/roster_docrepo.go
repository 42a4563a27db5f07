package docrepo

import (
	"context"
	"fmt"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/docstore"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
)

type rosterDocstore struct {
	store docstore.Store
}

func NewRosterDocstore(store docstore.Store) repositories.RosterRepository {
	return &rosterDocstore{store: store}
}

func (r *rosterDocstore) Get(ctx context.Context, moduleCode string) (*models.EnrollmentRoster, error) {
	snap, err := r.store.Get(ctx, models.CollectionEnrolledModules, moduleCode)
	if err != nil {
		return nil, err
	}
	var roster models.EnrollmentRoster
	if err := snap.DataTo(&roster); err != nil {
		return nil, fmt.Errorf("decode roster %s: %w", moduleCode, err)
	}
	roster.ModuleCode = snap.ID
	return &roster, nil
}

func (r *rosterDocstore) ListAll(ctx context.Context) ([]models.EnrollmentRoster, error) {
	snaps, err := r.store.List(ctx, models.CollectionEnrolledModules)
	if err != nil {
		return nil, err
	}
	rosters := make([]models.EnrollmentRoster, 0, len(snaps))
	for _, snap := range snaps {
		var roster models.EnrollmentRoster
		if err := snap.DataTo(&roster); err != nil {
			return nil, fmt.Errorf("decode roster %s: %w", snap.ID, err)
		}
		roster.ModuleCode = snap.ID
		rosters = append(rosters, roster)
	}
	return rosters, nil
}

// AppendEntry appends through array-union so the write does not depend on a
// previously read array value. Only the lazy first-request creation falls
// back to a document Set.
func (r *rosterDocstore) AppendEntry(ctx context.Context, moduleCode string, entry models.RosterEntry) error {
	err := r.store.Update(ctx, models.CollectionEnrolledModules, moduleCode, docstore.Document{
		"entries": docstore.Union(entry),
	})
	if err == nil {
		return nil
	}
	if !docstore.IsNotFound(err) {
		return err
	}

	roster := models.EnrollmentRoster{ModuleCode: moduleCode, Entries: []models.RosterEntry{entry}}
	doc, err := docstore.DocumentFrom(roster)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, models.CollectionEnrolledModules, moduleCode, doc)
}

// ReplaceEntries rewrites the whole entries array in a single write, which is
// how approve/decline/remove mutate the roster.
func (r *rosterDocstore) ReplaceEntries(ctx context.Context, moduleCode string, entries []models.RosterEntry) error {
	normalized := make([]any, 0, len(entries))
	for _, e := range entries {
		normalized = append(normalized, e)
	}
	return r.store.Update(ctx, models.CollectionEnrolledModules, moduleCode, docstore.Document{
		"entries": normalized,
	})
}
