package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/services"
	"github.com/edustack/lms-service/internal/storage"
	"github.com/edustack/lms-service/internal/utils"
	"github.com/edustack/lms-service/internal/validator"
)

type HandlerManager struct {
	analyticsHandler    *AnalyticsHandler
	authHandler         *AuthHandler
	courseHandler       *CourseHandler
	assignmentHandler   *AssignmentHandler
	attendanceHandler   *AttendanceHandler
	notificationHandler *NotificationHandler
	uploadHandler       *UploadHandler
	authMiddleware      *SessionAuthMiddleware
	serviceManager      services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authService services.AuthService,
	blobStore *storage.BlobStore,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		analyticsHandler:    NewAnalyticsHandler(serviceManager.Analytics(), serviceManager.Export(), logger),
		authHandler:         NewAuthHandler(authService, validator, logger),
		courseHandler:       NewCourseHandler(serviceManager.Course(), serviceManager.Announcement(), serviceManager.Discussion(), validator, logger),
		assignmentHandler:   NewAssignmentHandler(serviceManager.Assignment(), serviceManager.Quiz(), validator, logger),
		attendanceHandler:   NewAttendanceHandler(serviceManager.Attendance(), validator, logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		uploadHandler:       NewUploadHandler(blobStore, logger),
		authMiddleware:      NewSessionAuthMiddleware(authService),
		serviceManager:      serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	api := router.Group("/api")

	// Login is the only unauthenticated API route
	api.POST("/auth/login", hm.authHandler.Login)

	authed := api.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		authed.POST("/auth/logout", hm.authHandler.Logout)
		authed.GET("/auth/me", hm.authHandler.Me)

		// Analytics
		authed.GET("/analytics", hm.analyticsHandler.GetAnalytics)
		authed.GET("/analytics/export", hm.analyticsHandler.ExportCourseReport)

		// Courses
		courses := authed.Group("/courses")
		{
			courses.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.CreateCourse)
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.POST("/:id/enroll", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.EnrollStudent)
			courses.GET("/:id/announcements", hm.courseHandler.ListAnnouncements)
			courses.GET("/:id/discussions", hm.courseHandler.ListDiscussionPosts)
		}

		// Announcements and discussions are created with the course id in the body
		authed.POST("/announcements", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.courseHandler.CreateAnnouncement)
		authed.POST("/discussions", hm.courseHandler.CreateDiscussionPost)

		// Assignments and quizzes
		assignments := authed.Group("/assignments")
		{
			assignments.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.assignmentHandler.CreateAssignment)
			assignments.GET("", hm.assignmentHandler.ListAssignments)
		}
		quizzes := authed.Group("/quizzes")
		{
			quizzes.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.assignmentHandler.CreateQuiz)
			quizzes.GET("", hm.assignmentHandler.ListQuizzes)
		}

		// Attendance
		attendance := authed.Group("/attendance")
		{
			attendance.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.attendanceHandler.RecordAttendance)
			attendance.GET("", hm.attendanceHandler.ListAttendance)
		}

		// Notifications
		notifications := authed.Group("/notifications")
		{
			notifications.GET("", hm.notificationHandler.ListNotifications)
			notifications.POST("/:id/read", hm.notificationHandler.MarkRead)
		}

		// File uploads
		uploads := authed.Group("/upload")
		{
			uploads.POST("", hm.uploadHandler.UploadFile)
			uploads.GET("", hm.uploadHandler.ListFiles)
		}
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "lms-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
