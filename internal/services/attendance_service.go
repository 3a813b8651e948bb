package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edustack/lms-service/internal/events"
	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/repositories"
	"github.com/edustack/lms-service/internal/validator"
)

type attendanceService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAttendanceService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) AttendanceService {
	return &attendanceService{repo: repo, logger: logger, validator: v}
}

func (s *attendanceService) Record(ctx context.Context, req *RecordAttendanceRequest, callerID string) (*models.Attendance, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	course, err := s.repo.Course().GetByID(ctx, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course.TeacherID != callerID {
		return nil, NewPermissionError(callerID, "attendance", "record", "not the course owner")
	}

	enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, req.StudentID, req.CourseID)
	if err != nil || enrollment.Status != models.EnrollmentActive {
		return nil, ErrStudentNotFound
	}

	record := &models.Attendance{
		CourseID:  req.CourseID,
		StudentID: req.StudentID,
		Date:      req.Date,
		Status:    req.Status,
	}
	if err := s.repo.Attendance().Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}
	return record, nil
}

func (s *attendanceService) List(ctx context.Context, filters repositories.AttendanceFilters, callerID string, callerRole models.UserRole) ([]*models.Attendance, error) {
	// Students only see their own records.
	if callerRole == models.RoleStudent {
		filters.StudentID = &callerID
	}
	if callerRole == models.RoleTeacher && filters.CourseID != nil {
		course, err := s.repo.Course().GetByID(ctx, *filters.CourseID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrCourseNotFound
			}
			return nil, fmt.Errorf("failed to get course: %w", err)
		}
		if course.TeacherID != callerID {
			return nil, NewPermissionError(callerID, "attendance", "list", "not the course owner")
		}
	}
	return s.repo.Attendance().List(ctx, filters)
}

type announcementService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAnnouncementService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) AnnouncementService {
	return &announcementService{repo: repo, publisher: publisher, logger: logger, validator: v}
}

func (s *announcementService) Create(ctx context.Context, req *CreateAnnouncementRequest, authorID string) (*models.Announcement, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	course, err := s.repo.Course().GetByID(ctx, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course.TeacherID != authorID {
		return nil, NewPermissionError(authorID, "announcement", "create", "not the course owner")
	}

	announcement := &models.Announcement{
		CourseID: req.CourseID,
		AuthorID: authorID,
		Title:    req.Title,
		Content:  req.Content,
	}
	if err := s.repo.Announcement().Create(ctx, announcement); err != nil {
		return nil, fmt.Errorf("failed to create announcement: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(events.TypeAnnouncementPosted, map[string]interface{}{
		"announcementId": announcement.ID,
		"courseId":       announcement.CourseID,
	})); err != nil {
		s.logger.Warn("failed to publish announcement event", "error", err)
	}

	return announcement, nil
}

func (s *announcementService) ListByCourse(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) ([]*models.Announcement, error) {
	if _, err := accessCourseReport(ctx, s.repo, courseID, callerID, callerRole); err != nil {
		return nil, err
	}
	return s.repo.Announcement().ListByCourse(ctx, courseID)
}

type discussionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewDiscussionService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator) DiscussionService {
	return &discussionService{repo: repo, logger: logger, validator: v}
}

func (s *discussionService) Create(ctx context.Context, req *CreateDiscussionPostRequest, authorID string) (*models.DiscussionPost, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	course, err := s.repo.Course().GetByID(ctx, req.CourseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	// Posting requires membership: either the owning teacher or an
	// actively enrolled student.
	if course.TeacherID != authorID {
		enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, authorID, req.CourseID)
		if err != nil || enrollment.Status != models.EnrollmentActive {
			return nil, NewPermissionError(authorID, "discussion", "post", "not a course member")
		}
	}

	post := &models.DiscussionPost{
		CourseID: req.CourseID,
		AuthorID: authorID,
		ParentID: req.ParentID,
		Content:  req.Content,
	}
	if err := s.repo.Discussion().Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create discussion post: %w", err)
	}
	return post, nil
}

func (s *discussionService) ListByCourse(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) ([]*models.DiscussionPost, error) {
	if _, err := accessCourseReport(ctx, s.repo, courseID, callerID, callerRole); err != nil {
		return nil, err
	}
	return s.repo.Discussion().ListByCourse(ctx, courseID)
}
