package repositories

import (
	"context"
	"time"

	"github.com/edustack/lms-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	TeacherID *string `json:"teacher_id"`
	StudentID *string `json:"student_id"` // courses with an ACTIVE enrollment for this student
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
}

type AssignmentFilters struct {
	CourseID    *uint   `json:"course_id"`
	TeacherID   *string `json:"teacher_id"`
	IsPublished *bool   `json:"is_published"`
	Limit       int     `json:"limit"`
	Offset      int     `json:"offset"`
}

type QuizFilters struct {
	CourseID    *uint   `json:"course_id"`
	TeacherID   *string `json:"teacher_id"`
	IsPublished *bool   `json:"is_published"`
	Limit       int     `json:"limit"`
	Offset      int     `json:"offset"`
}

type AttendanceFilters struct {
	CourseID  *uint      `json:"course_id"`
	StudentID *string    `json:"student_id"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

type NotificationFilters struct {
	UnreadOnly bool `json:"unread_only"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
}

// ===== ENTITY REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error)
	// ListActiveByCourse returns ACTIVE enrollments in enrollment order
	// (ascending id). Report breakdowns keep this order.
	ListActiveByCourse(ctx context.Context, courseID uint) ([]*models.Enrollment, error)
	ListActiveByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	CountActiveByCourse(ctx context.Context, courseID uint) (int64, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uint) (*models.Assignment, error)
	List(ctx context.Context, filters AssignmentFilters) ([]*models.Assignment, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	CreateGrade(ctx context.Context, grade *models.Grade) error
}

type QuizRepository interface {
	// Create persists the quiz together with its questions; callers run it
	// inside WithTransaction so both succeed or neither persists.
	Create(ctx context.Context, quiz *models.Quiz) error
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	List(ctx context.Context, filters QuizFilters) ([]*models.Quiz, error)
	CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error
}

type AttendanceRepository interface {
	Create(ctx context.Context, record *models.Attendance) error
	List(ctx context.Context, filters AttendanceFilters) ([]*models.Attendance, error)
}

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *models.Announcement) error
	ListByCourse(ctx context.Context, courseID uint) ([]*models.Announcement, error)
}

type DiscussionRepository interface {
	Create(ctx context.Context, post *models.DiscussionPost) error
	ListByCourse(ctx context.Context, courseID uint) ([]*models.DiscussionPost, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	CreateBatch(ctx context.Context, notifications []*models.Notification) error
	ListByUser(ctx context.Context, userID string, filters NotificationFilters) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id uint, userID string) error
}
