package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository aggregates all entity repositories behind one gateway. Every
// read and write against the relational store goes through here.
type Repository interface {
	User() UserRepository
	Course() CourseRepository
	Enrollment() EnrollmentRepository
	Assignment() AssignmentRepository
	Submission() SubmissionRepository
	Quiz() QuizRepository
	Attendance() AttendanceRepository
	Announcement() AnnouncementRepository
	Discussion() DiscussionRepository
	Notification() NotificationRepository

	// Analytics reads entity slices for the aggregation engine.
	Analytics() AnalyticsRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// IsNotFoundError reports whether err is the store's record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique constraint violation.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
