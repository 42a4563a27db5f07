package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/cache"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/events"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/repositories"
	"github.com/MUTInnovationLab/Attendify-Project-sub000/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	EnableDebugLogging bool
	LogLevel           slog.Level

	// StrictIdentityBatches makes identity mutations refuse work lists that
	// exceed one atomic batch instead of committing them in chunks.
	StrictIdentityBatches bool

	DefaultTimeout time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	cache     *cache.CacheManager
	config    ServiceManagerConfig

	// Service instances
	attendanceService   AttendanceService
	enrollmentService   EnrollmentService
	identityService     IdentityService
	statsService        StatsService
	notificationService NotificationEventService
	exportService       ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, cacheManager *cache.CacheManager, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		cache:     cacheManager,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, cacheManager *cache.CacheManager) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging:    false,
		LogLevel:              slog.LevelInfo,
		StrictIdentityBatches: false,
		DefaultTimeout:        30 * time.Second,
	}
	return NewServiceManager(repo, logger, validator, publisher, cacheManager, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	// Notification service is built first because the mutating services
	// publish through it.
	sm.notificationService = NewNotificationEventService(sm.publisher, sm.logger, sm.validator)
	sm.logger.Info("Notification event service initialized")

	sm.attendanceService = NewAttendanceService(sm.repo, sm.logger, sm.validator, sm.notificationService)
	sm.logger.Info("Attendance service initialized")

	sm.enrollmentService = NewEnrollmentService(sm.repo, sm.logger, sm.validator, sm.notificationService, sm.cache)
	sm.logger.Info("Enrollment service initialized")

	sm.identityService = NewIdentityService(sm.repo, sm.logger, sm.validator, sm.cache, sm.config.StrictIdentityBatches)
	sm.logger.Info("Identity service initialized")

	sm.statsService = NewStatsService(sm.repo, sm.logger, sm.cache)
	sm.logger.Info("Stats service initialized")

	sm.exportService = NewExportService(sm.repo, sm.logger)
	sm.logger.Info("Export service initialized")

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.attendanceService != nil {
		return sm.attendanceService
	}
	panic("attendance service not initialized")
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.enrollmentService != nil {
		return sm.enrollmentService
	}
	panic("enrollment service not initialized")
}

func (sm *serviceManager) Identity() IdentityService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.identityService != nil {
		return sm.identityService
	}
	panic("identity service not initialized")
}

func (sm *serviceManager) Stats() StatsService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.statsService != nil {
		return sm.statsService
	}
	panic("stats service not initialized")
}

func (sm *serviceManager) Notification() NotificationEventService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.notificationService != nil {
		return sm.notificationService
	}
	panic("notification event service not initialized")
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if sm.exportService != nil {
		return sm.exportService
	}
	panic("export service not initialized")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	sm.initialized = false
	sm.logger.Info("Service manager shut down")

	return nil
}
