package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edustack/lms-service/internal/repositories"
	"github.com/edustack/lms-service/internal/services"
	"github.com/edustack/lms-service/internal/utils"
	"github.com/edustack/lms-service/internal/validator"
)

type AttendanceHandler struct {
	BaseHandler
	attendanceService services.AttendanceService
	validator         *validator.Validator
}

func NewAttendanceHandler(attendanceService services.AttendanceService, validator *validator.Validator, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler:       NewBaseHandler(logger),
		attendanceService: attendanceService,
		validator:         validator,
	}
}

func (h *AttendanceHandler) RecordAttendance(c *gin.Context) {
	var req services.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "bad_request",
			Message:   "Invalid request payload",
			Details:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	userID, _, ok := h.currentUser(c)
	if !ok {
		return
	}

	record, err := h.attendanceService.Record(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	userID, userRole, ok := h.currentUser(c)
	if !ok {
		return
	}

	filters := repositories.AttendanceFilters{}
	if raw := c.Query("courseId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:     "bad_request",
				Message:   "courseId must be a positive integer",
				Timestamp: time.Now(),
			})
			return
		}
		courseID := uint(id)
		filters.CourseID = &courseID
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:     "bad_request",
				Message:   "from must be a date in YYYY-MM-DD format",
				Timestamp: time.Now(),
			})
			return
		}
		filters.DateFrom = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:     "bad_request",
				Message:   "to must be a date in YYYY-MM-DD format",
				Timestamp: time.Now(),
			})
			return
		}
		filters.DateTo = &to
	}

	records, err := h.attendanceService.List(c.Request.Context(), filters, userID, userRole)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
