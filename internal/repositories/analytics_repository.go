package repositories

import (
	"context"
	"time"

	"github.com/edustack/lms-service/internal/models"
)

// AnalyticsRepository serves the aggregation engine. Every method is a
// filtered read of one entity slice; the engine does all derivation in
// memory. Reads are individually consistent only, never wrapped in a
// transaction.
type AnalyticsRepository interface {
	// Teacher scope
	CoursesByTeacher(ctx context.Context, teacherID string) ([]*models.Course, error)
	AssignmentsByTeacher(ctx context.Context, teacherID string) ([]*models.Assignment, error)
	// GradesByTeacherSince returns grades given within the window on
	// submissions to the teacher's assignments.
	GradesByTeacherSince(ctx context.Context, teacherID string, since time.Time) ([]*models.Grade, error)
	SubmissionsByTeacher(ctx context.Context, teacherID string) ([]*models.Submission, error)
	AnnouncementsByAuthorSince(ctx context.Context, authorID string, since time.Time) ([]*models.Announcement, error)

	// Student scope
	SubmissionsByStudent(ctx context.Context, studentID string) ([]*models.Submission, error)
	GradesByStudentSince(ctx context.Context, studentID string, since time.Time) ([]*models.Grade, error)
	GradesByStudent(ctx context.Context, studentID string) ([]*models.Grade, error)
	QuizAttemptsByStudent(ctx context.Context, studentID string) ([]*models.QuizAttempt, error)
	AttendanceByStudent(ctx context.Context, studentID string) ([]*models.Attendance, error)
	DiscussionPostsByAuthorSince(ctx context.Context, authorID string, since time.Time) ([]*models.DiscussionPost, error)

	// Course scope
	AssignmentsByCourse(ctx context.Context, courseID uint) ([]*models.Assignment, error)
	// SubmissionsByCourse preloads each submission's Grade.
	SubmissionsByCourse(ctx context.Context, courseID uint) ([]*models.Submission, error)
	QuizAttemptsByCourse(ctx context.Context, courseID uint) ([]*models.QuizAttempt, error)
	AttendanceByCourse(ctx context.Context, courseID uint) ([]*models.Attendance, error)

	// Per-student-in-course scope (issued concurrently by the engine)
	SubmissionsByStudentAndCourse(ctx context.Context, studentID string, courseID uint) ([]*models.Submission, error)
	QuizAttemptsByStudentAndCourse(ctx context.Context, studentID string, courseID uint) ([]*models.QuizAttempt, error)
	AttendanceByStudentAndCourse(ctx context.Context, studentID string, courseID uint) ([]*models.Attendance, error)
}
