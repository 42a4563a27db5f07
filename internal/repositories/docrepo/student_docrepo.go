package docrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/docstore"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
)

type studentDocstore struct {
	store docstore.Store
}

func NewStudentDocstore(store docstore.Store) repositories.StudentRepository {
	return &studentDocstore{store: store}
}

func (r *studentDocstore) GetByNumber(ctx context.Context, studentNumber string) (*models.Student, error) {
	snap, err := r.store.Get(ctx, models.CollectionStudents, studentNumber)
	if err != nil {
		return nil, err
	}
	var student models.Student
	if err := snap.DataTo(&student); err != nil {
		return nil, fmt.Errorf("decode student %s: %w", studentNumber, err)
	}
	// The document ID is authoritative for the primary key.
	student.StudentNumber = snap.ID
	return &student, nil
}

func (r *studentDocstore) Exists(ctx context.Context, studentNumber string) (bool, error) {
	_, err := r.store.Get(ctx, models.CollectionStudents, studentNumber)
	if err != nil {
		if docstore.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *studentDocstore) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	doc, err := docstore.DocumentFrom(student)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, models.CollectionStudents, student.StudentNumber, doc)
}

func (r *studentDocstore) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	doc, err := docstore.DocumentFrom(student)
	if err != nil {
		return err
	}
	return r.store.Update(ctx, models.CollectionStudents, student.StudentNumber, doc)
}
