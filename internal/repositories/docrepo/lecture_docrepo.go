package docrepo

import (
	"context"
	"fmt"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/docstore"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
)

type lectureDocstore struct {
	store docstore.Store
}

func NewLectureDocstore(store docstore.Store) repositories.LectureRepository {
	return &lectureDocstore{store: store}
}

// ListAssignments returns every assigned-lectures document. A module left
// over from a reassignment appears in more than one document; callers decide
// how to weigh the duplicates.
func (r *lectureDocstore) ListAssignments(ctx context.Context) ([]models.AssignedLectures, error) {
	snaps, err := r.store.List(ctx, models.CollectionAssignedLectures)
	if err != nil {
		return nil, err
	}
	assignments := make([]models.AssignedLectures, 0, len(snaps))
	for _, snap := range snaps {
		var assignment models.AssignedLectures
		if err := snap.DataTo(&assignment); err != nil {
			return nil, fmt.Errorf("decode assigned lectures %s: %w", snap.ID, err)
		}
		assignment.StaffNumber = snap.ID
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}
