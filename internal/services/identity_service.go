package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/cache"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/docstore"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/validator"
)

type identityService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     *cache.CacheManager

	// strict rejects work lists larger than one atomic batch instead of
	// committing them in chunks.
	strict bool
}

func NewIdentityService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, cacheManager *cache.CacheManager, strict bool) IdentityService {
	return &identityService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		cache:     cacheManager,
		strict:    strict,
	}
}

// ===== WORK LIST =====

type workOpKind int

const (
	workSet workOpKind = iota
	workUpdate
	workDelete
)

// workOp is one staged write in an identity mutation. The full work list is
// assembled up front so the caller can be told exactly what will be touched,
// in what order, and how far the commit got.
type workOp struct {
	kind       workOpKind
	collection string
	id         string
	field      string
	data       docstore.Document
}

func (o workOp) stage(batch docstore.WriteBatch) {
	switch o.kind {
	case workSet:
		batch.Set(o.collection, o.id, o.data)
	case workUpdate:
		batch.Update(o.collection, o.id, o.data)
	case workDelete:
		batch.Delete(o.collection, o.id)
	}
}

func (o workOp) reference() ReferenceUpdate {
	return ReferenceUpdate{
		Collection: o.collection,
		DocumentID: o.id,
		Field:      o.field,
	}
}

// ===== RENAME =====

func (s *identityService) RenameStudentNumber(ctx context.Context, oldNumber, newNumber string) (*RenameReport, error) {
	req := &RenameStudentRequest{NewStudentNumber: newNumber}
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}
	if oldNumber == newNumber {
		return nil, fmt.Errorf("%w: %s", ErrSameStudentNumber, oldNumber)
	}

	student, err := s.repo.Student().GetByNumber(ctx, oldNumber)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError(models.CollectionStudents, oldNumber)
		}
		return nil, NewPersistenceError("read student", err)
	}

	taken, err := s.repo.Student().Exists(ctx, newNumber)
	if err != nil {
		return nil, NewPersistenceError("check new student number", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: %s", ErrStudentAlreadyExists, newNumber)
	}

	ops, err := s.renameWorkList(ctx, student, newNumber)
	if err != nil {
		return nil, err
	}

	report, err := s.commit(ctx, oldNumber, newNumber, ops)

	cache.InvalidateStudentStats(ctx, s.cache, oldNumber)
	cache.InvalidateStudentStats(ctx, s.cache, newNumber)
	for _, code := range student.ModuleCodes {
		cache.InvalidateModuleCaches(ctx, s.cache, code)
	}

	return report, err
}

// renameWorkList stages the full fan-out in a fixed order: the new student
// document first, every reference rewrite in the middle, the old student
// document deleted last. If a chunked commit fails partway, the old identity
// is still resolvable and the new one already exists.
func (s *identityService) renameWorkList(ctx context.Context, student *models.Student, newNumber string) ([]workOp, error) {
	oldNumber := student.StudentNumber

	renamed := student.Clone()
	renamed.StudentNumber = newNumber
	renamed.UpdatedAt = time.Now().UTC()
	newDoc, err := docstore.DocumentFrom(renamed)
	if err != nil {
		return nil, fmt.Errorf("encode student %s: %w", newNumber, err)
	}

	ops := []workOp{{
		kind:       workSet,
		collection: models.CollectionStudents,
		id:         newNumber,
		field:      "studentNumber",
		data:       newDoc,
	}}

	rosterOps, err := s.rosterRewrites(ctx, oldNumber, func(entry *models.RosterEntry) {
		entry.StudentNumber = newNumber
	})
	if err != nil {
		return nil, err
	}
	ops = append(ops, rosterOps...)

	scans, err := s.repo.Ledger().StudentScans(ctx, oldNumber)
	if err != nil {
		return nil, NewPersistenceError("read student scans", err)
	}
	for _, scan := range scans {
		moved := scan
		moved.StudentNumber = newNumber
		moved.ModuleDate = models.SessionKey(moved.ModuleCode, moved.Date)
		doc, err := docstore.DocumentFrom(moved)
		if err != nil {
			return nil, fmt.Errorf("encode scan: %w", err)
		}
		ops = append(ops,
			workOp{
				kind:       workSet,
				collection: models.CollectionAttended,
				id:         models.ScanID(moved.ModuleCode, moved.Date, newNumber),
				field:      "studentNumber",
				data:       doc,
			},
			workOp{
				kind:       workDelete,
				collection: models.CollectionAttended,
				id:         models.ScanID(scan.ModuleCode, scan.Date, oldNumber),
				field:      "studentNumber",
			})
	}

	ops = append(ops, workOp{
		kind:       workDelete,
		collection: models.CollectionStudents,
		id:         oldNumber,
		field:      "studentNumber",
	})
	return ops, nil
}

// ===== EMAIL UPDATE =====

func (s *identityService) UpdateEmail(ctx context.Context, studentNumber, newEmail string) (*RenameReport, error) {
	req := &UpdateEmailRequest{NewEmail: newEmail}
	if errs := s.validator.ValidateStruct(req); len(errs) > 0 {
		return nil, errs
	}

	student, err := s.repo.Student().GetByNumber(ctx, studentNumber)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError(models.CollectionStudents, studentNumber)
		}
		return nil, NewPersistenceError("read student", err)
	}

	ops := []workOp{{
		kind:       workUpdate,
		collection: models.CollectionStudents,
		id:         studentNumber,
		field:      "email",
		data: docstore.Document{
			"email":      newEmail,
			"updated_at": time.Now().UTC(),
		},
	}}

	rosterOps, err := s.rosterRewrites(ctx, studentNumber, func(entry *models.RosterEntry) {
		entry.Email = newEmail
	})
	if err != nil {
		return nil, err
	}
	ops = append(ops, rosterOps...)

	scans, err := s.repo.Ledger().StudentScans(ctx, studentNumber)
	if err != nil {
		return nil, NewPersistenceError("read student scans", err)
	}
	for _, scan := range scans {
		ops = append(ops, workOp{
			kind:       workUpdate,
			collection: models.CollectionAttended,
			id:         models.ScanID(scan.ModuleCode, scan.Date, studentNumber),
			field:      "email",
			data:       docstore.Document{"email": newEmail},
		})
	}

	report, err := s.commit(ctx, student.Email, newEmail, ops)
	for _, code := range student.ModuleCodes {
		cache.InvalidateModuleCaches(ctx, s.cache, code)
	}
	return report, err
}

// ===== SHARED PLUMBING =====

// rosterRewrites stages one entries replacement per roster that mentions the
// student, visiting rosters in store order so repeated runs build the same
// work list.
func (s *identityService) rosterRewrites(ctx context.Context, studentNumber string, mutate func(*models.RosterEntry)) ([]workOp, error) {
	rosters, err := s.repo.Roster().ListAll(ctx)
	if err != nil {
		return nil, NewPersistenceError("list rosters", err)
	}

	var ops []workOp
	for _, roster := range rosters {
		touched := false
		entries := make([]any, 0, len(roster.Entries))
		for i := range roster.Entries {
			if roster.Entries[i].StudentNumber == studentNumber {
				mutate(&roster.Entries[i])
				touched = true
			}
			entries = append(entries, roster.Entries[i])
		}
		if !touched {
			continue
		}
		ops = append(ops, workOp{
			kind:       workUpdate,
			collection: models.CollectionEnrolledModules,
			id:         roster.ModuleCode,
			field:      "entries",
			data:       docstore.Document{"entries": entries},
		})
	}
	return ops, nil
}

// commit applies the work list in chunks bounded by the store's batch limit.
// The returned report is populated on failure too: committed chunks stay
// committed, and ResumeCursor points at the first operation that did not
// apply.
func (s *identityService) commit(ctx context.Context, oldValue, newValue string, ops []workOp) (*RenameReport, error) {
	limit := docstore.MaxBatchOperations

	report := &RenameReport{
		OldValue:        oldValue,
		NewValue:        newValue,
		TotalReferences: len(ops),
		ChunksTotal:     (len(ops) + limit - 1) / limit,
		References:      make([]ReferenceUpdate, 0, len(ops)),
	}
	for _, op := range ops {
		report.References = append(report.References, op.reference())
	}

	if s.strict && len(ops) > limit {
		return report, NewCapacityExceededError(len(ops))
	}

	for start := 0; start < len(ops); start += limit {
		end := start + limit
		if end > len(ops) {
			end = len(ops)
		}

		batch := s.repo.Store().Batch()
		for _, op := range ops[start:end] {
			op.stage(batch)
		}
		if err := batch.Commit(ctx); err != nil {
			report.ResumeCursor = start
			s.logger.Error("Identity mutation chunk failed",
				"error", err,
				"chunks_committed", report.ChunksCommitted,
				"chunks_total", report.ChunksTotal,
				"resume_cursor", start)
			return report, NewPersistenceError("commit identity mutation chunk", err)
		}

		report.ChunksCommitted++
		for i := start; i < end; i++ {
			report.References[i].Committed = true
		}
		report.ResumeCursor = end
	}

	s.logger.Info("Identity mutation committed",
		"old_value", oldValue,
		"new_value", newValue,
		"references", report.TotalReferences,
		"chunks", report.ChunksTotal)
	return report, nil
}
