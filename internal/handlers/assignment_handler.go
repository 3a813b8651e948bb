package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edustack/lms-service/internal/services"
	"github.com/edustack/lms-service/internal/utils"
	"github.com/edustack/lms-service/internal/validator"
)

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
	quizService       services.QuizService
	validator         *validator.Validator
}

func NewAssignmentHandler(
	assignmentService services.AssignmentService,
	quizService services.QuizService,
	validator *validator.Validator,
	logger utils.Logger,
) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
		quizService:       quizService,
		validator:         validator,
	}
}

// optionalCourseID parses the courseId query parameter when present. The
// bool result reports whether parsing failed and a response was written.
func (h *AssignmentHandler) optionalCourseID(c *gin.Context) (*uint, bool) {
	raw := c.Query("courseId")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "bad_request",
			Message:   "courseId must be a positive integer",
			Timestamp: time.Now(),
		})
		return nil, false
	}
	courseID := uint(id)
	return &courseID, true
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req services.CreateAssignmentRequest
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

	assignment, err := h.assignmentService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	userID, userRole, ok := h.currentUser(c)
	if !ok {
		return
	}

	courseID, ok := h.optionalCourseID(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.List(c.Request.Context(), userID, userRole, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (h *AssignmentHandler) CreateQuiz(c *gin.Context) {
	var req services.CreateQuizRequest
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

	quiz, err := h.quizService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

func (h *AssignmentHandler) ListQuizzes(c *gin.Context) {
	userID, userRole, ok := h.currentUser(c)
	if !ok {
		return
	}

	courseID, ok := h.optionalCourseID(c)
	if !ok {
		return
	}

	quizzes, err := h.quizService.List(c.Request.Context(), userID, userRole, courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}
