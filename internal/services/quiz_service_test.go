package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/edustack/lms-service/internal/events"
	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/validator"
)

func newQuizService(repo *mockRepository, publisher *events.MockEventPublisher) QuizService {
	notifications := NewNotificationService(repo, publisher, testLogger())
	return NewQuizService(repo, notifications, publisher, testLogger(), validator.New())
}

func quizRequest(published bool) *CreateQuizRequest {
	return &CreateQuizRequest{
		CourseID:        1,
		Title:           "Midterm Review",
		AttemptsAllowed: 2,
		IsPublished:     published,
		Questions: []CreateQuestionRequest{
			{
				Type:          models.MultipleChoice,
				Text:          "Which traversal visits the root first?",
				Points:        5,
				Options:       []string{"pre-order", "in-order", "post-order"},
				CorrectAnswer: "pre-order",
			},
			{
				Type:   models.TrueFalse,
				Text:   "A heap is always sorted.",
				Points: 2,
			},
		},
	}
}

func TestCreateQuiz_RunsInsideTransaction(t *testing.T) {
	repo := newMockRepository()
	setupCourse(repo)
	publisher := events.NewMockEventPublisher(testLogger())
	svc := newQuizService(repo, publisher)

	quiz, err := svc.Create(context.Background(), quizRequest(false), "teacher-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !repo.quiz.createdInTx {
		t.Error("quiz create ran outside WithTransaction")
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}
	if quiz.Questions[0].Order != 0 || quiz.Questions[1].Order != 1 {
		t.Errorf("question order = %d, %d", quiz.Questions[0].Order, quiz.Questions[1].Order)
	}
	if quiz.Questions[0].Options == nil {
		t.Error("multiple-choice options were not encoded")
	}
}

func TestCreateQuiz_PublishedFansOutPerActiveEnrollment(t *testing.T) {
	repo := newMockRepository()
	setupCourse(repo)
	enroll(repo, "s1", "Ada", "ada@example.com")
	enroll(repo, "s2", "Bob", "bob@example.com")
	repo.enrollment.add(&models.Enrollment{
		UserID: "s3", CourseID: 1, Status: models.EnrollmentDropped,
	})

	publisher := events.NewMockEventPublisher(testLogger())
	svc := newQuizService(repo, publisher)

	if _, err := svc.Create(context.Background(), quizRequest(true), "teacher-1"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	created := waitForNotifications(t, repo.notification, 2)
	if len(created) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(created))
	}
	for _, n := range created {
		if n.Type != models.NotificationQuizPublished {
			t.Errorf("notification type = %s, want QUIZ_PUBLISHED", n.Type)
		}
		if !strings.Contains(n.Content, "Midterm Review") || !strings.Contains(n.Content, "Algorithms") {
			t.Errorf("notification content %q does not reference quiz and course titles", n.Content)
		}
		if n.UserID == "s3" {
			t.Error("dropped enrollment received a notification")
		}
	}
}

func TestCreateQuiz_UnpublishedSkipsFanOut(t *testing.T) {
	repo := newMockRepository()
	setupCourse(repo)
	enroll(repo, "s1", "Ada", "ada@example.com")

	publisher := events.NewMockEventPublisher(testLogger())
	svc := newQuizService(repo, publisher)

	if _, err := svc.Create(context.Background(), quizRequest(false), "teacher-1"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if got := repo.notification.snapshot(); len(got) != 0 {
		t.Errorf("expected no notifications for an unpublished quiz, got %d", len(got))
	}
}

func TestCreateQuiz_Access(t *testing.T) {
	repo := newMockRepository()
	setupCourse(repo)
	publisher := events.NewMockEventPublisher(testLogger())
	svc := newQuizService(repo, publisher)

	t.Run("non-owner denied", func(t *testing.T) {
		if _, err := svc.Create(context.Background(), quizRequest(false), "teacher-2"); !errors.Is(err, ErrAccessDenied) {
			t.Errorf("err = %v, want ErrAccessDenied", err)
		}
	})

	t.Run("no questions rejected", func(t *testing.T) {
		req := quizRequest(false)
		req.Questions = nil
		var validationErrs validator.ValidationErrors
		if _, err := svc.Create(context.Background(), req, "teacher-1"); !errors.As(err, &validationErrs) {
			t.Errorf("err = %v, want validation errors", err)
		}
	})
}
