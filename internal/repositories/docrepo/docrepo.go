// Package docrepo implements the repositories interfaces on top of the
// generic document store client.
package docrepo

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/cache"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/docstore"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/models"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
)

// DocstoreRepository implements the main Repository interface.
type DocstoreRepository struct {
	store        docstore.Store
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	student repositories.StudentRepository
	roster  repositories.RosterRepository
	ledger  repositories.LedgerRepository
	lecture repositories.LectureRepository
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	Store       docstore.Store
	RedisClient *redis.Client
}

// NewDocstoreRepository creates a repository manager with all
// sub-repositories wired to the given store.
func NewDocstoreRepository(config RepositoryConfig) repositories.Repository {
	repo := &DocstoreRepository{
		store:        config.Store,
		redisClient:  config.RedisClient,
		cacheManager: cache.NewCacheManager(config.RedisClient),
	}

	repo.student = NewStudentDocstore(config.Store)
	repo.roster = NewRosterDocstore(config.Store)
	repo.ledger = NewLedgerDocstore(config.Store)
	repo.lecture = NewLectureDocstore(config.Store)

	return repo
}

func (r *DocstoreRepository) Student() repositories.StudentRepository { return r.student }
func (r *DocstoreRepository) Roster() repositories.RosterRepository   { return r.roster }
func (r *DocstoreRepository) Ledger() repositories.LedgerRepository   { return r.ledger }
func (r *DocstoreRepository) Lecture() repositories.LectureRepository { return r.lecture }

func (r *DocstoreRepository) Store() docstore.Store { return r.store }

// Ping verifies the store answers reads.
func (r *DocstoreRepository) Ping(ctx context.Context) error {
	if _, err := r.store.List(ctx, models.CollectionFaculties); err != nil {
		return fmt.Errorf("docstore ping failed: %w", err)
	}
	return nil
}

func (r *DocstoreRepository) Close() error {
	if r.redisClient != nil {
		return r.redisClient.Close()
	}
	return nil
}

// ===== MANAGER =====

type docstoreRepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager wraps repository construction in the lifecycle
// interface main.go drives.
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &docstoreRepositoryManager{config: config}
}

func (m *docstoreRepositoryManager) Initialize() error {
	if m.config.Store == nil {
		return fmt.Errorf("repository manager: document store is required")
	}
	m.repo = NewDocstoreRepository(m.config)
	return nil
}

func (m *docstoreRepositoryManager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *docstoreRepositoryManager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repository manager not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *docstoreRepositoryManager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
