package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/edustack/lms-service/internal/events"
	"github.com/edustack/lms-service/internal/repositories"
	"github.com/edustack/lms-service/internal/validator"
)

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator

	// Service instances
	analyticsService    AnalyticsService
	courseService       CourseService
	assignmentService   AssignmentService
	quizService         QuizService
	attendanceService   AttendanceService
	announcementService AnnouncementService
	discussionService   DiscussionService
	notificationService NotificationService
	exportService       ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) ServiceManager {
	return &serviceManager{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	// Notifications first, fan-out services depend on them
	sm.notificationService = NewNotificationService(sm.repo, sm.publisher, sm.logger)
	sm.logger.Info("Notification service initialized")

	sm.analyticsService = NewAnalyticsService(sm.repo, sm.logger)
	sm.logger.Info("Analytics service initialized")

	sm.courseService = NewCourseService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.logger.Info("Course service initialized")

	sm.assignmentService = NewAssignmentService(sm.repo, sm.notificationService, sm.publisher, sm.logger, sm.validator)
	sm.logger.Info("Assignment service initialized")

	sm.quizService = NewQuizService(sm.repo, sm.notificationService, sm.publisher, sm.logger, sm.validator)
	sm.logger.Info("Quiz service initialized")

	sm.attendanceService = NewAttendanceService(sm.repo, sm.logger, sm.validator)
	sm.logger.Info("Attendance service initialized")

	sm.announcementService = NewAnnouncementService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.logger.Info("Announcement service initialized")

	sm.discussionService = NewDiscussionService(sm.repo, sm.logger, sm.validator)
	sm.logger.Info("Discussion service initialized")

	sm.exportService = NewExportService(sm.analyticsService, sm.logger)
	sm.logger.Info("Export service initialized")

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Analytics() AnalyticsService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.analyticsService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.courseService
}

func (sm *serviceManager) Assignment() AssignmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.assignmentService
}

func (sm *serviceManager) Quiz() QuizService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.quizService
}

func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.attendanceService
}

func (sm *serviceManager) Announcement() AnnouncementService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.announcementService
}

func (sm *serviceManager) Discussion() DiscussionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.discussionService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.notificationService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.exportService
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
	sm.shutdown = true
	return nil
}
