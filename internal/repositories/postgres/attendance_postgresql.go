package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/repositories"
)

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendancePostgreSQL(db *gorm.DB) repositories.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

func (r *attendanceRepository) List(ctx context.Context, filters repositories.AttendanceFilters) ([]*models.Attendance, error) {
	query := r.db.WithContext(ctx).Model(&models.Attendance{})

	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.DateFrom != nil {
		query = query.Where("date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("date <= ?", *filters.DateTo)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var records []*models.Attendance
	if err := query.Order("date DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementPostgreSQL(db *gorm.DB) repositories.AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if err := r.db.WithContext(ctx).Create(announcement).Error; err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

func (r *announcementRepository) ListByCourse(ctx context.Context, courseID uint) ([]*models.Announcement, error) {
	var announcements []*models.Announcement
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&announcements).Error; err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	return announcements, nil
}

type discussionRepository struct {
	db *gorm.DB
}

func NewDiscussionPostgreSQL(db *gorm.DB) repositories.DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) Create(ctx context.Context, post *models.DiscussionPost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create discussion post: %w", err)
	}
	return nil
}

func (r *discussionRepository) ListByCourse(ctx context.Context, courseID uint) ([]*models.DiscussionPost, error) {
	var posts []*models.DiscussionPost
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies").
		Where("course_id = ? AND parent_id IS NULL", courseID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list discussion posts: %w", err)
	}
	return posts, nil
}
