package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/services"
	"github.com/edustack/lms-service/internal/utils"
)

const (
	analyticsModeOverview    = "overview"
	analyticsModeCourse      = "course"
	analyticsModeStudent     = "student"
	analyticsModeLeaderboard = "leaderboard"

	defaultWindowDays = 30
	maxWindowDays     = 365
)

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
	exportService    services.ExportService
}

func NewAnalyticsHandler(
	analyticsService services.AnalyticsService,
	exportService services.ExportService,
	logger utils.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

// GetAnalytics dispatches on the type query parameter: overview, course,
// student or leaderboard. Scope parameters the mode requires but the caller
// did not send are a 400, never a 500.
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	userID, userRole, ok := h.currentUser(c)
	if !ok {
		return
	}

	mode := c.Query("type")
	h.LogRequest(c, "Analytics request", "mode", mode, "user_id", userID, "role", userRole)

	switch mode {
	case analyticsModeOverview:
		h.overview(c, userID, userRole)
	case analyticsModeCourse:
		h.courseReport(c, userID, userRole)
	case analyticsModeStudent:
		h.studentReport(c, userID, userRole)
	case analyticsModeLeaderboard:
		h.leaderboard(c, userID, userRole)
	default:
		h.handleServiceError(c, fmt.Errorf("%w: unknown analytics type %q", services.ErrInvalidScope, mode))
	}
}

func (h *AnalyticsHandler) overview(c *gin.Context, userID string, userRole models.UserRole) {
	windowDays, err := h.parseWindow(c)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if userRole == models.RoleTeacher {
		overview, err := h.analyticsService.TeacherOverview(c.Request.Context(), userID, windowDays)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, overview)
		return
	}

	overview, err := h.analyticsService.StudentOverview(c.Request.Context(), userID, windowDays)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *AnalyticsHandler) courseReport(c *gin.Context, userID string, userRole models.UserRole) {
	courseID, err := h.parseCourseID(c)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	report, err := h.analyticsService.CourseReport(c.Request.Context(), courseID, userID, userRole)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) studentReport(c *gin.Context, userID string, userRole models.UserRole) {
	studentID := c.Query("studentId")
	if studentID == "" {
		// Students fall back to their own report, teachers have to say whose.
		if userRole != models.RoleStudent {
			h.handleServiceError(c, fmt.Errorf("%w: studentId is required for student analytics", services.ErrInvalidScope))
			return
		}
		studentID = userID
	}

	report, err := h.analyticsService.StudentReport(c.Request.Context(), studentID, userID, userRole)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AnalyticsHandler) leaderboard(c *gin.Context, userID string, userRole models.UserRole) {
	courseID, err := h.parseCourseID(c)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	board, err := h.analyticsService.Leaderboard(c.Request.Context(), courseID, userID, userRole)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// ExportCourseReport streams the course report and leaderboard as an xlsx
// attachment.
func (h *AnalyticsHandler) ExportCourseReport(c *gin.Context) {
	userID, userRole, ok := h.currentUser(c)
	if !ok {
		return
	}

	courseID, err := h.parseCourseID(c)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Exporting course report", "course_id", courseID, "user_id", userID)

	data, filename, err := h.exportService.ExportCourseReport(c.Request.Context(), courseID, userID, userRole)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *AnalyticsHandler) parseCourseID(c *gin.Context) (uint, error) {
	raw := c.Query("courseId")
	if raw == "" {
		return 0, fmt.Errorf("%w: courseId is required", services.ErrInvalidScope)
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: courseId must be a positive integer", services.ErrInvalidScope)
	}
	return uint(id), nil
}

func (h *AnalyticsHandler) parseWindow(c *gin.Context) (int, error) {
	raw := c.Query("period")
	if raw == "" {
		return defaultWindowDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > maxWindowDays {
		return 0, fmt.Errorf("%w: period must be between 1 and %d days", services.ErrInvalidScope, maxWindowDays)
	}
	return days, nil
}
