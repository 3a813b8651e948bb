package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edustack/lms-service/internal/services"
	"github.com/edustack/lms-service/internal/utils"
	"github.com/edustack/lms-service/internal/validator"
)

type CourseHandler struct {
	BaseHandler
	courseService       services.CourseService
	announcementService services.AnnouncementService
	discussionService   services.DiscussionService
	validator           *validator.Validator
}

func NewCourseHandler(
	courseService services.CourseService,
	announcementService services.AnnouncementService,
	discussionService services.DiscussionService,
	validator *validator.Validator,
	logger utils.Logger,
) *CourseHandler {
	return &CourseHandler{
		BaseHandler:         NewBaseHandler(logger),
		courseService:       courseService,
		announcementService: announcementService,
		discussionService:   discussionService,
		validator:           validator,
	}
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
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

	course, err := h.courseService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	userID, userRole, ok := h.currentUser(c)
	if !ok {
		return
	}

	courses, err := h.courseService.List(c.Request.Context(), userID, userRole)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CourseHandler) EnrollStudent(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	var req services.EnrollRequest
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

	enrollment, err := h.courseService.Enroll(c.Request.Context(), courseID, req.StudentID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

func (h *CourseHandler) CreateAnnouncement(c *gin.Context) {
	var req services.CreateAnnouncementRequest
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

	announcement, err := h.announcementService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, announcement)
}

func (h *CourseHandler) ListAnnouncements(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	userID, userRole, ok := h.currentUser(c)
	if !ok {
		return
	}

	announcements, err := h.announcementService.ListByCourse(c.Request.Context(), courseID, userID, userRole)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, announcements)
}

func (h *CourseHandler) CreateDiscussionPost(c *gin.Context) {
	var req services.CreateDiscussionPostRequest
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

	post, err := h.discussionService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *CourseHandler) ListDiscussionPosts(c *gin.Context) {
	courseID := h.parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	userID, userRole, ok := h.currentUser(c)
	if !ok {
		return
	}

	posts, err := h.discussionService.ListByCourse(c.Request.Context(), courseID, userID, userRole)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}
