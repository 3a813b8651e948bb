package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/repositories"
)

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsPostgreSQL(db *gorm.DB) repositories.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// ===== TEACHER SCOPE =====

func (r *analyticsRepository) CoursesByTeacher(ctx context.Context, teacherID string) ([]*models.Course, error) {
	var courses []*models.Course
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("id ASC").
		Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to get teacher courses: %w", err)
	}
	return courses, nil
}

func (r *analyticsRepository) AssignmentsByTeacher(ctx context.Context, teacherID string) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("id ASC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to get teacher assignments: %w", err)
	}
	return assignments, nil
}

func (r *analyticsRepository) GradesByTeacherSince(ctx context.Context, teacherID string, since time.Time) ([]*models.Grade, error) {
	var grades []*models.Grade
	if err := r.db.WithContext(ctx).
		Joins("JOIN submissions ON submissions.id = grades.submission_id").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("assignments.teacher_id = ? AND grades.graded_at >= ?", teacherID, since).
		Find(&grades).Error; err != nil {
		return nil, fmt.Errorf("failed to get teacher grades: %w", err)
	}
	return grades, nil
}

func (r *analyticsRepository) SubmissionsByTeacher(ctx context.Context, teacherID string) ([]*models.Submission, error) {
	var submissions []*models.Submission
	if err := r.db.WithContext(ctx).
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("assignments.teacher_id = ?", teacherID).
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to get teacher submissions: %w", err)
	}
	return submissions, nil
}

func (r *analyticsRepository) AnnouncementsByAuthorSince(ctx context.Context, authorID string, since time.Time) ([]*models.Announcement, error) {
	var announcements []*models.Announcement
	if err := r.db.WithContext(ctx).
		Where("author_id = ? AND created_at >= ?", authorID, since).
		Find(&announcements).Error; err != nil {
		return nil, fmt.Errorf("failed to get announcements: %w", err)
	}
	return announcements, nil
}

// ===== STUDENT SCOPE =====

func (r *analyticsRepository) SubmissionsByStudent(ctx context.Context, studentID string) ([]*models.Submission, error) {
	var submissions []*models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Grade").
		Where("student_id = ?", studentID).
		Order("id ASC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to get student submissions: %w", err)
	}
	return submissions, nil
}

func (r *analyticsRepository) GradesByStudentSince(ctx context.Context, studentID string, since time.Time) ([]*models.Grade, error) {
	var grades []*models.Grade
	if err := r.db.WithContext(ctx).
		Joins("JOIN submissions ON submissions.id = grades.submission_id").
		Where("submissions.student_id = ? AND grades.graded_at >= ?", studentID, since).
		Find(&grades).Error; err != nil {
		return nil, fmt.Errorf("failed to get student grades: %w", err)
	}
	return grades, nil
}

func (r *analyticsRepository) GradesByStudent(ctx context.Context, studentID string) ([]*models.Grade, error) {
	var grades []*models.Grade
	if err := r.db.WithContext(ctx).
		Joins("JOIN submissions ON submissions.id = grades.submission_id").
		Where("submissions.student_id = ?", studentID).
		Find(&grades).Error; err != nil {
		return nil, fmt.Errorf("failed to get student grades: %w", err)
	}
	return grades, nil
}

func (r *analyticsRepository) QuizAttemptsByStudent(ctx context.Context, studentID string) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("id ASC").
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to get student quiz attempts: %w", err)
	}
	return attempts, nil
}

func (r *analyticsRepository) AttendanceByStudent(ctx context.Context, studentID string) ([]*models.Attendance, error) {
	var records []*models.Attendance
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get student attendance: %w", err)
	}
	return records, nil
}

func (r *analyticsRepository) DiscussionPostsByAuthorSince(ctx context.Context, authorID string, since time.Time) ([]*models.DiscussionPost, error) {
	var posts []*models.DiscussionPost
	if err := r.db.WithContext(ctx).
		Where("author_id = ? AND created_at >= ?", authorID, since).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get discussion posts: %w", err)
	}
	return posts, nil
}

// ===== COURSE SCOPE =====

func (r *analyticsRepository) AssignmentsByCourse(ctx context.Context, courseID uint) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("id ASC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to get course assignments: %w", err)
	}
	return assignments, nil
}

func (r *analyticsRepository) SubmissionsByCourse(ctx context.Context, courseID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Grade").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("assignments.course_id = ?", courseID).
		Order("submissions.id ASC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to get course submissions: %w", err)
	}
	return submissions, nil
}

func (r *analyticsRepository) QuizAttemptsByCourse(ctx context.Context, courseID uint) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	if err := r.db.WithContext(ctx).
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quizzes.course_id = ?", courseID).
		Order("quiz_attempts.id ASC").
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to get course quiz attempts: %w", err)
	}
	return attempts, nil
}

func (r *analyticsRepository) AttendanceByCourse(ctx context.Context, courseID uint) ([]*models.Attendance, error) {
	var records []*models.Attendance
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get course attendance: %w", err)
	}
	return records, nil
}

// ===== PER-STUDENT-IN-COURSE SCOPE =====

func (r *analyticsRepository) SubmissionsByStudentAndCourse(ctx context.Context, studentID string, courseID uint) ([]*models.Submission, error) {
	var submissions []*models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Grade").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("submissions.student_id = ? AND assignments.course_id = ?", studentID, courseID).
		Order("submissions.id ASC").
		Find(&submissions).Error; err != nil {
		return nil, fmt.Errorf("failed to get student course submissions: %w", err)
	}
	return submissions, nil
}

func (r *analyticsRepository) QuizAttemptsByStudentAndCourse(ctx context.Context, studentID string, courseID uint) ([]*models.QuizAttempt, error) {
	var attempts []*models.QuizAttempt
	if err := r.db.WithContext(ctx).
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quiz_attempts.student_id = ? AND quizzes.course_id = ?", studentID, courseID).
		Order("quiz_attempts.id ASC").
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("failed to get student course quiz attempts: %w", err)
	}
	return attempts, nil
}

func (r *analyticsRepository) AttendanceByStudentAndCourse(ctx context.Context, studentID string, courseID uint) ([]*models.Attendance, error) {
	var records []*models.Attendance
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get student course attendance: %w", err)
	}
	return records, nil
}
