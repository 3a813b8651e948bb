package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/edustack/lms-service/internal/events"
	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/repositories"
	"github.com/edustack/lms-service/internal/validator"
)

type quizService struct {
	repo          repositories.Repository
	notifications NotificationService
	publisher     events.EventPublisher
	logger        *slog.Logger
	validator     *validator.Validator
}

func NewQuizService(repo repositories.Repository, notifications NotificationService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) QuizService {
	return &quizService{
		repo:          repo,
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
		validator:     v,
	}
}

// Create persists the quiz together with its questions inside one
// transaction: either both succeed or neither does.
func (s *quizService) Create(ctx context.Context, req *CreateQuizRequest, teacherID string) (*models.Quiz, error) {
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
		return nil, NewPermissionError(teacherID, "quiz", "create", "not the course owner")
	}

	quiz := &models.Quiz{
		CourseID:        req.CourseID,
		TeacherID:       teacherID,
		Title:           req.Title,
		Description:     req.Description,
		TimeLimit:       req.TimeLimit,
		AttemptsAllowed: req.AttemptsAllowed,
		IsPublished:     req.IsPublished,
	}
	for i, q := range req.Questions {
		question := models.Question{
			Type:   q.Type,
			Text:   q.Text,
			Points: q.Points,
			Order:  i,
		}
		if q.Options != nil {
			raw, err := json.Marshal(q.Options)
			if err != nil {
				return nil, fmt.Errorf("failed to encode question options: %w", err)
			}
			question.Options = raw
		}
		if q.CorrectAnswer != nil {
			raw, err := json.Marshal(q.CorrectAnswer)
			if err != nil {
				return nil, fmt.Errorf("failed to encode question answer: %w", err)
			}
			question.CorrectAnswer = raw
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return txRepo.Quiz().Create(ctx, quiz)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	if quiz.IsPublished {
		go s.fanOut(quiz, course)
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(events.TypeQuizCreated, map[string]interface{}{
		"quizId":   quiz.ID,
		"courseId": quiz.CourseID,
		"title":    quiz.Title,
	})); err != nil {
		s.logger.Warn("failed to publish quiz event", "error", err)
	}

	return quiz, nil
}

func (s *quizService) fanOut(quiz *models.Quiz, course *models.Course) {
	ctx := context.Background()
	title := fmt.Sprintf("New quiz: %s", quiz.Title)
	content := fmt.Sprintf("A new quiz %q was published in %s.", quiz.Title, course.Title)
	if err := s.notifications.NotifyEnrolled(ctx, course.ID, title, content, models.NotificationQuizPublished); err != nil {
		s.logger.Error("quiz notification fan-out failed",
			"quiz_id", quiz.ID, "course_id", course.ID, "error", err)
	}
}

func (s *quizService) List(ctx context.Context, callerID string, callerRole models.UserRole, courseID *uint) ([]*models.Quiz, error) {
	if callerRole == models.RoleTeacher {
		return s.repo.Quiz().List(ctx, repositories.QuizFilters{
			CourseID:  courseID,
			TeacherID: &callerID,
		})
	}

	published := true
	if courseID != nil {
		enrollment, err := s.repo.Enrollment().GetByUserAndCourse(ctx, callerID, *courseID)
		if err != nil || enrollment.Status != models.EnrollmentActive {
			return nil, NewPermissionError(callerID, "quiz", "list", "not enrolled")
		}
		return s.repo.Quiz().List(ctx, repositories.QuizFilters{
			CourseID:    courseID,
			IsPublished: &published,
		})
	}

	enrollments, err := s.repo.Enrollment().ListActiveByStudent(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrollments: %w", err)
	}
	var quizzes []*models.Quiz
	for _, enrollment := range enrollments {
		list, err := s.repo.Quiz().List(ctx, repositories.QuizFilters{
			CourseID:    &enrollment.CourseID,
			IsPublished: &published,
		})
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, list...)
	}
	return quizzes, nil
}
