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

type courseService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCourseService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) CourseService {
	return &courseService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: v,
	}
}

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, teacherID string) (*models.Course, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	course := &models.Course{
		Title:       req.Title,
		Code:        req.Code,
		Description: req.Description,
		TeacherID:   teacherID,
	}

	if err := s.repo.Course().Create(ctx, course); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.publishEvent(ctx, events.TypeCourseCreated, map[string]interface{}{
		"courseId": course.ID,
		"title":    course.Title,
	})

	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, callerID string, callerRole models.UserRole) ([]*models.Course, error) {
	filters := repositories.CourseFilters{}
	if callerRole == models.RoleTeacher {
		filters.TeacherID = &callerID
	} else {
		filters.StudentID = &callerID
	}
	return s.repo.Course().List(ctx, filters)
}

func (s *courseService) Enroll(ctx context.Context, courseID uint, studentID string, callerID string) (*models.Enrollment, error) {
	course, err := s.repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course.TeacherID != callerID {
		return nil, NewPermissionError(callerID, "course", "enroll", "not the course owner")
	}

	student, err := s.repo.User().GetByID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student.Role != models.RoleStudent {
		return nil, ErrStudentNotFound
	}

	enrollment := &models.Enrollment{
		UserID:   studentID,
		CourseID: courseID,
		Status:   models.EnrollmentActive,
	}
	if err := s.repo.Enrollment().Create(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *courseService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.Warn("failed to publish event", "type", eventType, "error", err)
	}
}
