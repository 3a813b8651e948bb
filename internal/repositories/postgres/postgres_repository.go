package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/edustack/lms-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db *gorm.DB

	// Repository instances
	user         repositories.UserRepository
	course       repositories.CourseRepository
	enrollment   repositories.EnrollmentRepository
	assignment   repositories.AssignmentRepository
	submission   repositories.SubmissionRepository
	quiz         repositories.QuizRepository
	attendance   repositories.AttendanceRepository
	announcement repositories.AnnouncementRepository
	discussion   repositories.DiscussionRepository
	notification repositories.NotificationRepository
	analytics    repositories.AnalyticsRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB *gorm.DB
}

// NewPostgreSQLRepository creates a repository gateway with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	return newWithDB(config.DB)
}

func newWithDB(db *gorm.DB) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:           db,
		user:         NewUserPostgreSQL(db),
		course:       NewCoursePostgreSQL(db),
		enrollment:   NewEnrollmentPostgreSQL(db),
		assignment:   NewAssignmentPostgreSQL(db),
		submission:   NewSubmissionPostgreSQL(db),
		quiz:         NewQuizPostgreSQL(db),
		attendance:   NewAttendancePostgreSQL(db),
		announcement: NewAnnouncementPostgreSQL(db),
		discussion:   NewDiscussionPostgreSQL(db),
		notification: NewNotificationPostgreSQL(db),
		analytics:    NewAnalyticsPostgreSQL(db),
	}
}

func (r *PostgreSQLRepository) User() repositories.UserRepository                 { return r.user }
func (r *PostgreSQLRepository) Course() repositories.CourseRepository             { return r.course }
func (r *PostgreSQLRepository) Enrollment() repositories.EnrollmentRepository     { return r.enrollment }
func (r *PostgreSQLRepository) Assignment() repositories.AssignmentRepository     { return r.assignment }
func (r *PostgreSQLRepository) Submission() repositories.SubmissionRepository     { return r.submission }
func (r *PostgreSQLRepository) Quiz() repositories.QuizRepository                 { return r.quiz }
func (r *PostgreSQLRepository) Attendance() repositories.AttendanceRepository     { return r.attendance }
func (r *PostgreSQLRepository) Announcement() repositories.AnnouncementRepository { return r.announcement }
func (r *PostgreSQLRepository) Discussion() repositories.DiscussionRepository     { return r.discussion }
func (r *PostgreSQLRepository) Notification() repositories.NotificationRepository { return r.notification }
func (r *PostgreSQLRepository) Analytics() repositories.AnalyticsRepository       { return r.analytics }

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newWithDB(tx))
	})
}

// Ping checks the health of the database connection
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Close closes the database connection
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Manager implements the RepositoryManager interface
type Manager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &Manager{config: config}
}

// Initialize validates connections and builds the repository gateway
func (rm *Manager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	rm.repo = NewPostgreSQLRepository(rm.config)
	return nil
}

// GetRepository returns the repository instance
func (rm *Manager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *Manager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}
	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *Manager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}
	return rm.repo.Close()
}
