package services

import (
	"context"
	"errors"
	"testing"

	"github.com/edustack/lms-service/internal/events"
	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/validator"
)

func TestCourseService_Create(t *testing.T) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	svc := NewCourseService(repo, publisher, testLogger(), validator.New())
	ctx := context.Background()

	course, err := svc.Create(ctx, &CreateCourseRequest{Title: "Algorithms", Code: "CS201"}, "teacher-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if course.TeacherID != "teacher-1" {
		t.Errorf("teacher id = %s", course.TeacherID)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypeCourseCreated {
		t.Errorf("expected one course.created event, got %+v", published)
	}

	t.Run("duplicate code", func(t *testing.T) {
		_, err := svc.Create(ctx, &CreateCourseRequest{Title: "Other", Code: "CS201"}, "teacher-1")
		if !errors.Is(err, ErrDuplicateCode) {
			t.Errorf("got %v, want duplicate code", err)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := svc.Create(ctx, &CreateCourseRequest{Code: "CS300"}, "teacher-1")
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("got %v, want validation errors", err)
		}
	})
}

func TestCourseService_Enroll(t *testing.T) {
	repo := newMockRepository()
	setupCourse(repo)
	repo.user.users["s1"] = &models.User{ID: "s1", FullName: "Ada", Role: models.RoleStudent}
	repo.user.users["t2"] = &models.User{ID: "t2", FullName: "Prof", Role: models.RoleTeacher}
	svc := NewCourseService(repo, events.NewMockEventPublisher(testLogger()), testLogger(), validator.New())
	ctx := context.Background()

	t.Run("owner enrolls student", func(t *testing.T) {
		enrollment, err := svc.Enroll(ctx, 1, "s1", "teacher-1")
		if err != nil {
			t.Fatalf("Enroll: %v", err)
		}
		if enrollment.Status != models.EnrollmentActive {
			t.Errorf("status = %s, want ACTIVE", enrollment.Status)
		}
	})

	t.Run("non-owner denied", func(t *testing.T) {
		_, err := svc.Enroll(ctx, 1, "s1", "teacher-9")
		if !errors.Is(err, ErrAccessDenied) {
			t.Errorf("got %v, want access denied", err)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := svc.Enroll(ctx, 1, "s9", "teacher-1")
		if !errors.Is(err, ErrStudentNotFound) {
			t.Errorf("got %v, want student not found", err)
		}
	})

	t.Run("teacher cannot be enrolled", func(t *testing.T) {
		_, err := svc.Enroll(ctx, 1, "t2", "teacher-1")
		if !errors.Is(err, ErrStudentNotFound) {
			t.Errorf("got %v, want student not found", err)
		}
	})

	t.Run("missing course", func(t *testing.T) {
		_, err := svc.Enroll(ctx, 42, "s1", "teacher-1")
		if !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("got %v, want course not found", err)
		}
	})
}
