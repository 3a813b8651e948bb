package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/services"
	"github.com/edustack/lms-service/internal/utils"
)

// stubAnalyticsService returns canned responses or a canned error, enough to
// exercise the dispatch and status mapping without touching a database.
type stubAnalyticsService struct {
	err error
}

func (s *stubAnalyticsService) TeacherOverview(ctx context.Context, teacherID string, windowDays int) (*services.TeacherOverviewResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.TeacherOverviewResponse{}, nil
}

func (s *stubAnalyticsService) StudentOverview(ctx context.Context, studentID string, windowDays int) (*services.StudentOverviewResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.StudentOverviewResponse{}, nil
}

func (s *stubAnalyticsService) CourseReport(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) (*services.CourseReportResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.CourseReportResponse{}, nil
}

func (s *stubAnalyticsService) StudentReport(ctx context.Context, studentID string, callerID string, callerRole models.UserRole) (*services.StudentReportResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.StudentReportResponse{}, nil
}

func (s *stubAnalyticsService) Leaderboard(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) (*services.LeaderboardResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.LeaderboardResponse{}, nil
}

type stubExportService struct {
	err error
}

func (s *stubExportService) ExportCourseReport(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) ([]byte, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return []byte("xlsx-bytes"), "course-report-CS201.xlsx", nil
}

func newAnalyticsTestRouter(svcErr error, role models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	handler := NewAnalyticsHandler(
		&stubAnalyticsService{err: svcErr},
		&stubExportService{err: svcErr},
		logger,
	)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "u1")
		c.Set("user_role", role)
	})
	r.GET("/api/analytics", handler.GetAnalytics)
	r.GET("/api/analytics/export", handler.ExportCourseReport)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestGetAnalytics_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		svcErr     error
		wantStatus int
	}{
		{"missing type", "/api/analytics", nil, http.StatusBadRequest},
		{"unknown type", "/api/analytics?type=bogus", nil, http.StatusBadRequest},
		{"overview ok", "/api/analytics?type=overview", nil, http.StatusOK},
		{"overview with period", "/api/analytics?type=overview&period=90", nil, http.StatusOK},
		{"period too large", "/api/analytics?type=overview&period=400", nil, http.StatusBadRequest},
		{"period not a number", "/api/analytics?type=overview&period=soon", nil, http.StatusBadRequest},
		{"course missing courseId", "/api/analytics?type=course", nil, http.StatusBadRequest},
		{"course ok", "/api/analytics?type=course&courseId=1", nil, http.StatusOK},
		{"course not found", "/api/analytics?type=course&courseId=99", services.ErrCourseNotFound, http.StatusNotFound},
		{"course forbidden", "/api/analytics?type=course&courseId=1", services.NewPermissionError("u1", "course", "view", "not the owner"), http.StatusForbidden},
		{"leaderboard ok", "/api/analytics?type=leaderboard&courseId=1", nil, http.StatusOK},
		{"leaderboard zero courseId", "/api/analytics?type=leaderboard&courseId=0", nil, http.StatusBadRequest},
		{"unexpected error", "/api/analytics?type=overview", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAnalyticsTestRouter(tt.svcErr, models.RoleTeacher)
			w := doRequest(t, r, tt.target)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestGetAnalytics_StudentScope(t *testing.T) {
	t.Run("student defaults to own report", func(t *testing.T) {
		r := newAnalyticsTestRouter(nil, models.RoleStudent)
		w := doRequest(t, r, "/api/analytics?type=student")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("teacher must name a student", func(t *testing.T) {
		r := newAnalyticsTestRouter(nil, models.RoleTeacher)
		w := doRequest(t, r, "/api/analytics?type=student")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("teacher with explicit student", func(t *testing.T) {
		r := newAnalyticsTestRouter(nil, models.RoleTeacher)
		w := doRequest(t, r, "/api/analytics?type=student&studentId=s1")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})
}

func TestExportCourseReport(t *testing.T) {
	t.Run("streams an attachment", func(t *testing.T) {
		r := newAnalyticsTestRouter(nil, models.RoleTeacher)
		w := doRequest(t, r, "/api/analytics/export?courseId=1")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if got := w.Header().Get("Content-Disposition"); got != `attachment; filename="course-report-CS201.xlsx"` {
			t.Errorf("content-disposition = %q", got)
		}
		if got := w.Header().Get("Content-Type"); got != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
			t.Errorf("content-type = %q", got)
		}
	})

	t.Run("missing courseId", func(t *testing.T) {
		r := newAnalyticsTestRouter(nil, models.RoleTeacher)
		w := doRequest(t, r, "/api/analytics/export")
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("export denied", func(t *testing.T) {
		r := newAnalyticsTestRouter(services.NewPermissionError("u1", "course", "export", "not the owner"), models.RoleStudent)
		w := doRequest(t, r, "/api/analytics/export?courseId=1")
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})
}

func TestGetAnalytics_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	handler := NewAnalyticsHandler(&stubAnalyticsService{}, &stubExportService{}, logger)

	r := gin.New()
	r.GET("/api/analytics", handler.GetAnalytics)

	w := doRequest(t, r, "/api/analytics?type=overview")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
