package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/repositories"
)

const defaultWindowDays = 30

type analyticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewAnalyticsService(repo repositories.Repository, logger *slog.Logger) AnalyticsService {
	return &analyticsService{repo: repo, logger: logger}
}

// ===== OVERVIEW =====

func (s *analyticsService) TeacherOverview(ctx context.Context, teacherID string, windowDays int) (*TeacherOverviewResponse, error) {
	s.logger.Info("computing teacher overview", "teacher_id", teacherID, "window_days", windowDays)

	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	now := time.Now()
	windowStart := now.AddDate(0, 0, -windowDays)

	analytics := s.repo.Analytics()

	courses, err := analytics.CoursesByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch courses: %w", err)
	}

	var totalStudents int64
	for _, course := range courses {
		count, err := s.repo.Enrollment().CountActiveByCourse(ctx, course.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count enrollments: %w", err)
		}
		totalStudents += count
	}

	assignments, err := analytics.AssignmentsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	windowGrades, err := analytics.GradesByTeacherSince(ctx, teacherID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grades: %w", err)
	}

	submissions, err := analytics.SubmissionsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	var graded int
	for _, sub := range submissions {
		if sub.Status == models.SubmissionGraded {
			graded++
		}
	}
	var completionRate float64
	if len(submissions) > 0 {
		completionRate = float64(graded) / float64(len(submissions)) * 100
	}

	activity, err := s.teacherActivity(ctx, teacherID, assignments, now)
	if err != nil {
		return nil, err
	}

	return &TeacherOverviewResponse{
		TotalCourses:     len(courses),
		TotalStudents:    totalStudents,
		TotalAssignments: len(assignments),
		AverageGrade:     round2(meanPercentage(windowGrades)),
		CompletionRate:   round2(completionRate),
		ActivityData:     activity,
	}, nil
}

func (s *analyticsService) teacherActivity(ctx context.Context, teacherID string, assignments []*models.Assignment, now time.Time) ([]TeacherActivityDay, error) {
	since := activitySince(now, activityDays)
	analytics := s.repo.Analytics()

	grades, err := analytics.GradesByTeacherSince(ctx, teacherID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity grades: %w", err)
	}
	announcements, err := analytics.AnnouncementsByAuthorSince(ctx, teacherID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity announcements: %w", err)
	}

	days, index := dayBuckets(now, activityDays)
	series := make([]TeacherActivityDay, activityDays)
	for i, day := range days {
		series[i].Date = day
	}

	for _, a := range assignments {
		if i, ok := index[a.CreatedAt.Format("2006-01-02")]; ok {
			series[i].Assignments++
		}
	}
	for _, g := range grades {
		if i, ok := index[g.GradedAt.Format("2006-01-02")]; ok {
			series[i].Grades++
		}
	}
	for _, ann := range announcements {
		if i, ok := index[ann.CreatedAt.Format("2006-01-02")]; ok {
			series[i].Announcements++
		}
	}
	for i := range series {
		series[i].Total = series[i].Assignments + series[i].Grades + series[i].Announcements
	}
	return series, nil
}

func (s *analyticsService) StudentOverview(ctx context.Context, studentID string, windowDays int) (*StudentOverviewResponse, error) {
	s.logger.Info("computing student overview", "student_id", studentID, "window_days", windowDays)

	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	now := time.Now()
	windowStart := now.AddDate(0, 0, -windowDays)

	analytics := s.repo.Analytics()

	enrollments, err := s.repo.Enrollment().ListActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrollments: %w", err)
	}

	submissions, err := analytics.SubmissionsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	windowGrades, err := analytics.GradesByStudentSince(ctx, studentID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grades: %w", err)
	}

	var completed int
	for _, sub := range submissions {
		if sub.Status == models.SubmissionSubmitted || sub.Status == models.SubmissionGraded {
			completed++
		}
	}
	var completionRate float64
	if len(submissions) > 0 {
		completionRate = float64(completed) / float64(len(submissions)) * 100
	}

	activity, err := s.studentActivity(ctx, studentID, submissions, now)
	if err != nil {
		return nil, err
	}

	return &StudentOverviewResponse{
		TotalCourses:     len(enrollments),
		TotalAssignments: len(submissions),
		AverageGrade:     round2(meanPercentage(windowGrades)),
		CompletionRate:   round2(completionRate),
		ActivityData:     activity,
	}, nil
}

func (s *analyticsService) studentActivity(ctx context.Context, studentID string, submissions []*models.Submission, now time.Time) ([]StudentActivityDay, error) {
	since := activitySince(now, activityDays)
	analytics := s.repo.Analytics()

	attempts, err := analytics.QuizAttemptsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quiz attempts: %w", err)
	}
	posts, err := analytics.DiscussionPostsByAuthorSince(ctx, studentID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discussion posts: %w", err)
	}

	days, index := dayBuckets(now, activityDays)
	series := make([]StudentActivityDay, activityDays)
	for i, day := range days {
		series[i].Date = day
	}

	for _, sub := range submissions {
		at := sub.CreatedAt
		if sub.SubmittedAt != nil {
			at = *sub.SubmittedAt
		}
		if i, ok := index[at.Format("2006-01-02")]; ok {
			series[i].Submissions++
		}
	}
	for _, a := range attempts {
		if i, ok := index[a.StartedAt.Format("2006-01-02")]; ok {
			series[i].QuizAttempts++
		}
	}
	for _, p := range posts {
		if i, ok := index[p.CreatedAt.Format("2006-01-02")]; ok {
			series[i].DiscussionPosts++
		}
	}
	for i := range series {
		series[i].Total = series[i].Submissions + series[i].QuizAttempts + series[i].DiscussionPosts
	}
	return series, nil
}

// ===== COURSE REPORT =====

func (s *analyticsService) CourseReport(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) (*CourseReportResponse, error) {
	s.logger.Info("computing course report", "course_id", courseID, "caller_id", callerID)

	course, err := accessCourseReport(ctx, s.repo, courseID, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	analytics := s.repo.Analytics()

	enrollments, err := s.repo.Enrollment().ListActiveByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrollments: %w", err)
	}
	assignments, err := analytics.AssignmentsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}
	submissions, err := analytics.SubmissionsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	attempts, err := analytics.QuizAttemptsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quiz attempts: %w", err)
	}
	attendance, err := analytics.AttendanceByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}

	var completionRate float64
	expected := len(assignments) * len(enrollments)
	if expected > 0 {
		completionRate = float64(len(submissions)) / float64(expected) * 100
	}

	performance, err := s.studentPerformance(ctx, enrollments, len(assignments), courseID)
	if err != nil {
		return nil, err
	}

	return &CourseReportResponse{
		CourseID:                 course.ID,
		Title:                    course.Title,
		Code:                     course.Code,
		TotalAssignments:         len(assignments),
		ActiveStudents:           len(enrollments),
		AssignmentCompletionRate: round2(completionRate),
		AverageGrade:             round2(meanPercentage(gradedOf(submissions))),
		AverageQuizScore:         round2(quizAverage(attempts)),
		AttendanceRate:           round2(attendanceRate(attendance)),
		StudentPerformance:       performance,
	}, nil
}

// studentPerformance fans out the per-student metric lookups concurrently
// and joins before assembly. Results keep enrollment order.
func (s *analyticsService) studentPerformance(ctx context.Context, enrollments []*models.Enrollment, totalAssignments int, courseID uint) ([]StudentPerformanceEntry, error) {
	entries := make([]StudentPerformanceEntry, len(enrollments))

	g, gctx := errgroup.WithContext(ctx)
	for i, enrollment := range enrollments {
		i, enrollment := i, enrollment
		g.Go(func() error {
			metrics, err := s.studentCourseMetrics(gctx, enrollment.UserID, courseID, totalAssignments)
			if err != nil {
				return err
			}
			metrics.FullName = enrollment.User.FullName
			entries[i] = *metrics
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// studentCourseMetrics computes the four course metrics scoped to one student.
func (s *analyticsService) studentCourseMetrics(ctx context.Context, studentID string, courseID uint, totalAssignments int) (*StudentPerformanceEntry, error) {
	analytics := s.repo.Analytics()

	submissions, err := analytics.SubmissionsByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch student submissions: %w", err)
	}
	attempts, err := analytics.QuizAttemptsByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch student quiz attempts: %w", err)
	}
	attendance, err := analytics.AttendanceByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch student attendance: %w", err)
	}

	var completionRate float64
	if totalAssignments > 0 {
		completionRate = float64(len(submissions)) / float64(totalAssignments) * 100
	}

	return &StudentPerformanceEntry{
		StudentID:                studentID,
		SubmissionCount:          len(submissions),
		AssignmentCompletionRate: round2(completionRate),
		AverageGrade:             round2(meanPercentage(gradedOf(submissions))),
		AverageQuizScore:         round2(quizAverage(attempts)),
		AttendanceRate:           round2(attendanceRate(attendance)),
	}, nil
}

// ===== STUDENT REPORT =====

func (s *analyticsService) StudentReport(ctx context.Context, studentID string, callerID string, callerRole models.UserRole) (*StudentReportResponse, error) {
	s.logger.Info("computing student report", "student_id", studentID, "caller_id", callerID)

	// Teachers may view any student's report; students only their own.
	if callerRole == models.RoleStudent && callerID != studentID {
		return nil, NewPermissionError(callerID, "student", "view_report", "students may only view their own report")
	}

	student, err := s.repo.User().GetByID(ctx, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to fetch student: %w", err)
	}
	if student.Role != models.RoleStudent {
		return nil, ErrStudentNotFound
	}

	analytics := s.repo.Analytics()

	grades, err := analytics.GradesByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch grades: %w", err)
	}
	attempts, err := analytics.QuizAttemptsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quiz attempts: %w", err)
	}
	attendance, err := analytics.AttendanceByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance: %w", err)
	}

	enrollments, err := s.repo.Enrollment().ListActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrollments: %w", err)
	}

	// Per-course breakdown joined by course id, not title.
	coursePerf := make([]CoursePerformanceEntry, len(enrollments))
	g, gctx := errgroup.WithContext(ctx)
	for i, enrollment := range enrollments {
		i, enrollment := i, enrollment
		g.Go(func() error {
			courseID := enrollment.CourseID

			submissions, err := analytics.SubmissionsByStudentAndCourse(gctx, studentID, courseID)
			if err != nil {
				return fmt.Errorf("failed to fetch course submissions: %w", err)
			}
			courseAttempts, err := analytics.QuizAttemptsByStudentAndCourse(gctx, studentID, courseID)
			if err != nil {
				return fmt.Errorf("failed to fetch course quiz attempts: %w", err)
			}
			courseAttendance, err := analytics.AttendanceByStudentAndCourse(gctx, studentID, courseID)
			if err != nil {
				return fmt.Errorf("failed to fetch course attendance: %w", err)
			}

			coursePerf[i] = CoursePerformanceEntry{
				CourseID:       courseID,
				Title:          enrollment.Course.Title,
				Code:           enrollment.Course.Code,
				Submissions:    len(submissions),
				AverageGrade:   round2(meanPercentage(gradedOf(submissions))),
				QuizAverage:    round2(quizAverage(courseAttempts)),
				AttendanceRate: round2(attendanceRate(courseAttendance)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &StudentReportResponse{
		StudentID:         student.ID,
		FullName:          student.FullName,
		OverallGPA:        round2(meanPercentage(grades)),
		QuizAverage:       round2(quizAverage(attempts)),
		AttendanceRate:    round2(attendanceRate(attendance)),
		CoursePerformance: coursePerf,
	}, nil
}

// ===== LEADERBOARD =====

// Leaderboard weights: 60% assignments, 30% quizzes, 10% attendance.
const (
	weightAssignments = 0.6
	weightQuizzes     = 0.3
	weightAttendance  = 0.1
)

// Participation points per unit of engagement, independent of correctness.
const (
	pointsPerSubmission  = 10
	pointsPerQuizAttempt = 15
	pointsPerPresent     = 5
)

func (s *analyticsService) Leaderboard(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) (*LeaderboardResponse, error) {
	s.logger.Info("computing leaderboard", "course_id", courseID, "caller_id", callerID)

	if _, err := accessCourseReport(ctx, s.repo, courseID, callerID, callerRole); err != nil {
		return nil, err
	}

	enrollments, err := s.repo.Enrollment().ListActiveByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch enrollments: %w", err)
	}

	analytics := s.repo.Analytics()
	entries := make([]LeaderboardEntry, len(enrollments))

	g, gctx := errgroup.WithContext(ctx)
	for i, enrollment := range enrollments {
		i, enrollment := i, enrollment
		g.Go(func() error {
			studentID := enrollment.UserID

			submissions, err := analytics.SubmissionsByStudentAndCourse(gctx, studentID, courseID)
			if err != nil {
				return fmt.Errorf("failed to fetch submissions: %w", err)
			}
			attempts, err := analytics.QuizAttemptsByStudentAndCourse(gctx, studentID, courseID)
			if err != nil {
				return fmt.Errorf("failed to fetch quiz attempts: %w", err)
			}
			attendance, err := analytics.AttendanceByStudentAndCourse(gctx, studentID, courseID)
			if err != nil {
				return fmt.Errorf("failed to fetch attendance: %w", err)
			}

			assignmentAvg := round2(meanPercentage(gradedSubmittedOf(submissions)))
			quizAvg := round2(quizAverage(attempts))
			attRate := round2(attendanceRate(attendance))
			present := countPresent(attendance)

			entries[i] = LeaderboardEntry{
				StudentID:         studentID,
				FullName:          enrollment.User.FullName,
				AssignmentAverage: assignmentAvg,
				QuizAverage:       quizAvg,
				AttendanceRate:    attRate,
				OverallScore: round2(assignmentAvg*weightAssignments +
					quizAvg*weightQuizzes +
					attRate*weightAttendance),
				ParticipationPoints: len(submissions)*pointsPerSubmission +
					len(attempts)*pointsPerQuizAttempt +
					present*pointsPerPresent,
			}
			if callerRole != models.RoleStudent {
				email := enrollment.User.Email
				entries[i].Email = &email
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Ties keep fetch order, so the sort must be stable.
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].OverallScore > entries[b].OverallScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &LeaderboardResponse{CourseID: courseID, Entries: entries}, nil
}
