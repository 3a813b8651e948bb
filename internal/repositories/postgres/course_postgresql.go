package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/repositories"
)

type courseRepository struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	if err := r.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.StudentID != nil {
		query = query.
			Joins("JOIN enrollments ON enrollments.course_id = courses.id").
			Where("enrollments.user_id = ? AND enrollments.status = ?", *filters.StudentID, models.EnrollmentActive)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var courses []*models.Course
	if err := query.Order("courses.created_at DESC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *enrollmentRepository) GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		First(&enrollment, "user_id = ? AND course_id = ?", userID, courseID).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) ListActiveByCourse(ctx context.Context, courseID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentActive).
		Order("id ASC").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *enrollmentRepository) ListActiveByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ? AND status = ?", studentID, models.EnrollmentActive).
		Order("id ASC").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *enrollmentRepository) CountActiveByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentActive).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return count, nil
}
