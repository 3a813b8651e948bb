package services

import (
	"context"
	"time"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/repositories"
)

// ===== ANALYTICS DTOs =====

// TeacherActivityDay is one day of the teacher's 7-day activity series.
type TeacherActivityDay struct {
	Date          string `json:"date"`
	Assignments   int    `json:"assignments"`
	Grades        int    `json:"grades"`
	Announcements int    `json:"announcements"`
	Total         int    `json:"total"`
}

// StudentActivityDay is one day of the student's 7-day activity series.
type StudentActivityDay struct {
	Date            string `json:"date"`
	Submissions     int    `json:"submissions"`
	QuizAttempts    int    `json:"quizAttempts"`
	DiscussionPosts int    `json:"discussionPosts"`
	Total           int    `json:"total"`
}

type TeacherOverviewResponse struct {
	TotalCourses     int                  `json:"totalCourses"`
	TotalStudents    int64                `json:"totalStudents"`
	TotalAssignments int                  `json:"totalAssignments"`
	AverageGrade     float64              `json:"averageGrade"`
	CompletionRate   float64              `json:"completionRate"`
	ActivityData     []TeacherActivityDay `json:"activityData"`
}

type StudentOverviewResponse struct {
	TotalCourses     int                  `json:"totalCourses"`
	TotalAssignments int                  `json:"totalAssignments"`
	AverageGrade     float64              `json:"averageGrade"`
	CompletionRate   float64              `json:"completionRate"`
	ActivityData     []StudentActivityDay `json:"activityData"`
}

// StudentPerformanceEntry carries the course metrics scoped to one enrolled
// student. Entries keep enrollment order, they are never sorted by score.
type StudentPerformanceEntry struct {
	StudentID                string  `json:"studentId"`
	FullName                 string  `json:"fullName"`
	SubmissionCount          int     `json:"submissionCount"`
	AssignmentCompletionRate float64 `json:"assignmentCompletionRate"`
	AverageGrade             float64 `json:"averageGrade"`
	AverageQuizScore         float64 `json:"averageQuizScore"`
	AttendanceRate           float64 `json:"attendanceRate"`
}

type CourseReportResponse struct {
	CourseID                 uint                      `json:"courseId"`
	Title                    string                    `json:"title"`
	Code                     string                    `json:"code"`
	TotalAssignments         int                       `json:"totalAssignments"`
	ActiveStudents           int                       `json:"activeStudents"`
	AssignmentCompletionRate float64                   `json:"assignmentCompletionRate"`
	AverageGrade             float64                   `json:"averageGrade"`
	AverageQuizScore         float64                   `json:"averageQuizScore"`
	AttendanceRate           float64                   `json:"attendanceRate"`
	StudentPerformance       []StudentPerformanceEntry `json:"studentPerformance"`
}

// CoursePerformanceEntry is one course in the per-student report, joined by
// course id.
type CoursePerformanceEntry struct {
	CourseID       uint    `json:"courseId"`
	Title          string  `json:"title"`
	Code           string  `json:"code"`
	Submissions    int     `json:"submissions"`
	AverageGrade   float64 `json:"averageGrade"`
	QuizAverage    float64 `json:"quizAverage"`
	AttendanceRate float64 `json:"attendanceRate"`
}

type StudentReportResponse struct {
	StudentID         string                   `json:"studentId"`
	FullName          string                   `json:"fullName"`
	OverallGPA        float64                  `json:"overallGPA"`
	QuizAverage       float64                  `json:"quizAverage"`
	AttendanceRate    float64                  `json:"attendanceRate"`
	CoursePerformance []CoursePerformanceEntry `json:"coursePerformance"`
}

// LeaderboardEntry ranks one enrolled student. Email is omitted from every
// entry when the caller is a student.
type LeaderboardEntry struct {
	Rank                int     `json:"rank"`
	StudentID           string  `json:"studentId"`
	FullName            string  `json:"fullName"`
	Email               *string `json:"email,omitempty"`
	AssignmentAverage   float64 `json:"assignmentAverage"`
	QuizAverage         float64 `json:"quizAverage"`
	AttendanceRate      float64 `json:"attendanceRate"`
	OverallScore        float64 `json:"overallScore"`
	ParticipationPoints int     `json:"participationPoints"`
}

type LeaderboardResponse struct {
	CourseID uint               `json:"courseId"`
	Entries  []LeaderboardEntry `json:"entries"`
}

// ===== CRUD DTOs =====

type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Code        string  `json:"code" validate:"required,min=2,max=20"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type EnrollRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

type CreateAssignmentRequest struct {
	CourseID    uint       `json:"courseId" validate:"required"`
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	DueDate     *time.Time `json:"dueDate"`
	MaxPoints   float64    `json:"maxPoints" validate:"required,gt=0"`
	IsPublished bool       `json:"isPublished"`
}

type CreateQuestionRequest struct {
	Type          models.QuestionType `json:"type" validate:"required,oneof=MULTIPLE_CHOICE TRUE_FALSE SHORT_ANSWER"`
	Text          string              `json:"text" validate:"required"`
	Points        float64             `json:"points" validate:"required,gt=0"`
	Options       []string            `json:"options"`
	CorrectAnswer interface{}         `json:"correctAnswer"`
}

type CreateQuizRequest struct {
	CourseID        uint                    `json:"courseId" validate:"required"`
	Title           string                  `json:"title" validate:"required,min=1,max=200"`
	Description     *string                 `json:"description" validate:"omitempty,max=5000"`
	TimeLimit       *int                    `json:"timeLimit" validate:"omitempty,min=1,max=300"`
	AttemptsAllowed int                     `json:"attemptsAllowed" validate:"min=1,max=10"`
	IsPublished     bool                    `json:"isPublished"`
	Questions       []CreateQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

type RecordAttendanceRequest struct {
	CourseID  uint                    `json:"courseId" validate:"required"`
	StudentID string                  `json:"studentId" validate:"required"`
	Date      time.Time               `json:"date" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
}

type CreateAnnouncementRequest struct {
	CourseID uint   `json:"courseId" validate:"required"`
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content" validate:"required"`
}

type CreateDiscussionPostRequest struct {
	CourseID uint   `json:"courseId" validate:"required"`
	ParentID *uint  `json:"parentId"`
	Content  string `json:"content" validate:"required,max=5000"`
}

// ===== SERVICE INTERFACES =====

// AnalyticsService is the aggregation engine: it fetches the minimal entity
// slices for the requested scope and derives the report in memory. Stateless
// per call, read-only, no caching between calls.
type AnalyticsService interface {
	TeacherOverview(ctx context.Context, teacherID string, windowDays int) (*TeacherOverviewResponse, error)
	StudentOverview(ctx context.Context, studentID string, windowDays int) (*StudentOverviewResponse, error)
	CourseReport(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) (*CourseReportResponse, error)
	StudentReport(ctx context.Context, studentID string, callerID string, callerRole models.UserRole) (*StudentReportResponse, error)
	Leaderboard(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) (*LeaderboardResponse, error)
}

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest, teacherID string) (*models.Course, error)
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, callerID string, callerRole models.UserRole) ([]*models.Course, error)
	Enroll(ctx context.Context, courseID uint, studentID string, callerID string) (*models.Enrollment, error)
}

type AssignmentService interface {
	Create(ctx context.Context, req *CreateAssignmentRequest, teacherID string) (*models.Assignment, error)
	List(ctx context.Context, callerID string, callerRole models.UserRole, courseID *uint) ([]*models.Assignment, error)
}

type QuizService interface {
	Create(ctx context.Context, req *CreateQuizRequest, teacherID string) (*models.Quiz, error)
	List(ctx context.Context, callerID string, callerRole models.UserRole, courseID *uint) ([]*models.Quiz, error)
}

type AttendanceService interface {
	Record(ctx context.Context, req *RecordAttendanceRequest, callerID string) (*models.Attendance, error)
	List(ctx context.Context, filters repositories.AttendanceFilters, callerID string, callerRole models.UserRole) ([]*models.Attendance, error)
}

type AnnouncementService interface {
	Create(ctx context.Context, req *CreateAnnouncementRequest, authorID string) (*models.Announcement, error)
	ListByCourse(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) ([]*models.Announcement, error)
}

type DiscussionService interface {
	Create(ctx context.Context, req *CreateDiscussionPostRequest, authorID string) (*models.DiscussionPost, error)
	ListByCourse(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) ([]*models.DiscussionPost, error)
}

// NotificationService handles the fan-out on publish-type mutations and the
// per-user notification feed.
type NotificationService interface {
	// NotifyEnrolled creates one notification per ACTIVE enrollment in the
	// course. Best-effort: callers fire it in a goroutine and a failure
	// never rolls back the parent create.
	NotifyEnrolled(ctx context.Context, courseID uint, title, content string, kind models.NotificationType) error
	ListByUser(ctx context.Context, userID string, filters repositories.NotificationFilters) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id uint, userID string) error
}

// ExportService renders course reports as spreadsheets.
type ExportService interface {
	ExportCourseReport(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) ([]byte, string, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Analytics() AnalyticsService
	Course() CourseService
	Assignment() AssignmentService
	Quiz() QuizService
	Attendance() AttendanceService
	Announcement() AnnouncementService
	Discussion() DiscussionService
	Notification() NotificationService
	Export() ExportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
