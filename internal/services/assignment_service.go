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

type assignmentService struct {
	repo          repositories.Repository
	notifications NotificationService
	publisher     events.EventPublisher
	logger        *slog.Logger
	validator     *validator.Validator
}

func NewAssignmentService(repo repositories.Repository, notifications NotificationService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) AssignmentService {
	return &assignmentService{
		repo:          repo,
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
		validator:     v,
	}
}

func (s *assignmentService) Create(ctx context.Context, req *CreateAssignmentRequest, teacherID string) (*models.Assignment, error) {
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
	if course.TeacherID != teacherID {
		return nil, NewPermissionError(teacherID, "assignment", "create", "not the course owner")
	}

	assignment := &models.Assignment{
		CourseID:    req.CourseID,
		TeacherID:   teacherID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		MaxPoints:   req.MaxPoints,
		IsPublished: req.IsPublished,
	}
	if err := s.repo.Assignment().Create(ctx, assignment); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	// Fan-out happens only when the assignment is created already published;
	// a later publish toggle does not notify.
	if assignment.IsPublished {
		go s.fanOut(assignment, course)
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(events.TypeAssignmentCreated, map[string]interface{}{
		"assignmentId": assignment.ID,
		"courseId":     assignment.CourseID,
		"title":        assignment.Title,
	})); err != nil {
		s.logger.Warn("failed to publish assignment event", "error", err)
	}

	return assignment, nil
}

// fanOut runs detached from the request; a notification failure never rolls
// back the assignment create.
func (s *assignmentService) fanOut(assignment *models.Assignment, course *models.Course) {
	ctx := context.Background()
	title := fmt.Sprintf("New assignment: %s", assignment.Title)
	content := fmt.Sprintf("A new assignment %q was published in %s.", assignment.Title, course.Title)
	if err := s.notifications.NotifyEnrolled(ctx, course.ID, title, content, models.NotificationAssignmentPublished); err != nil {
		s.logger.Error("assignment notification fan-out failed",
			"assignment_id", assignment.ID, "course_id", course.ID, "error", err)
	}
}

func (s *assignmentService) List(ctx context.Context, callerID string, callerRole models.UserRole, courseID *uint) ([]*models.Assignment, error) {
	if callerRole == models.RoleTeacher {
		return s.repo.Assignment().List(ctx, repositories.AssignmentFilters{
			CourseID:  courseID,
			TeacherID: &callerID,
		})
	}

	// Students only see published assignments of courses they belong to.
	published := true
	if courseID != nil {
		enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, callerID, *courseID)
		if err != nil || enrollment.Status != models.EnrollmentActive {
			return nil, NewPermissionError(callerID, "assignment", "list", "not enrolled")
		}
		return s.repo.Assignment().List(ctx, repositories.AssignmentFilters{
			CourseID:    courseID,
			IsPublished: &published,
		})
	}

	enrollments, err := s.repo.Enrollment().ListActiveByStudent(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrollments: %w", err)
	}
	var assignments []*models.Assignment
	for _, enrollment := range enrollments {
		list, err := s.repo.Assignment().List(ctx, repositories.AssignmentFilters{
			CourseID:    &enrollment.CourseID,
			IsPublished: &published,
		})
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, list...)
	}
	return assignments, nil
}
