package services

import (
	"context"
	"math"
	"time"

	"github.com/edustack/lms-service/internal/models"
	"github.com/edustack/lms-service/internal/repositories"
)

// round2 rounds to 2 decimal places, half away from zero on the scaled
// integer. Every published rate and average goes through it.
func round2(val float64) float64 {
	return math.Round(val*100) / 100
}

// meanPercentage averages Grade.Percentage values; 0 for an empty slice.
func meanPercentage(grades []*models.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range grades {
		sum += g.Percentage
	}
	return sum / float64(len(grades))
}

// quizAverage averages (score/maxScore)*100 over completed attempts. A nil
// score counts as 0, it is not an error. Empty input yields exactly 0.
func quizAverage(attempts []*models.QuizAttempt) float64 {
	var sum float64
	var n int
	for _, a := range attempts {
		if a.Status != models.AttemptCompleted {
			continue
		}
		n++
		if a.Score == nil || a.MaxScore <= 0 {
			continue
		}
		sum += *a.Score / a.MaxScore * 100
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// attendanceRate is present/total*100; 0 with no records.
func attendanceRate(records []*models.Attendance) float64 {
	if len(records) == 0 {
		return 0
	}
	var present int
	for _, r := range records {
		if r.Status == models.AttendancePresent {
			present++
		}
	}
	return float64(present) / float64(len(records)) * 100
}

func countPresent(records []*models.Attendance) int {
	var present int
	for _, r := range records {
		if r.Status == models.AttendancePresent {
			present++
		}
	}
	return present
}

// gradedOf filters submissions that carry a grade.
func gradedOf(submissions []*models.Submission) []*models.Grade {
	var grades []*models.Grade
	for _, s := range submissions {
		if s.Grade != nil {
			grades = append(grades, s.Grade)
		}
	}
	return grades
}

// gradedSubmittedOf filters grades of submissions in SUBMITTED or GRADED
// status, the slice the leaderboard's assignment average is built from.
func gradedSubmittedOf(submissions []*models.Submission) []*models.Grade {
	var grades []*models.Grade
	for _, s := range submissions {
		if s.Grade == nil {
			continue
		}
		if s.Status == models.SubmissionSubmitted || s.Status == models.SubmissionGraded {
			grades = append(grades, s.Grade)
		}
	}
	return grades
}

const activityDays = 7

// activitySince returns local midnight of the oldest bucket day. Bucket keys
// are local-time day strings, so the fetch cutoff has to be a local midnight
// too or records from the early hours of the oldest day go missing.
func activitySince(now time.Time, n int) time.Time {
	oldest := now.AddDate(0, 0, -(n - 1))
	return time.Date(oldest.Year(), oldest.Month(), oldest.Day(), 0, 0, 0, 0, oldest.Location())
}

// dayBuckets returns the last n day keys (oldest first) and a lookup from
// day key to series index.
func dayBuckets(now time.Time, n int) ([]string, map[string]int) {
	days := make([]string, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		day := now.AddDate(0, 0, -(n - 1 - i)).Format("2006-01-02")
		days[i] = day
		index[day] = i
	}
	return days, index
}

// accessCourseReport applies the course/leaderboard access rules: the owning
// teacher, or a student holding an ACTIVE enrollment. The course must exist
// before any access decision is made.
func accessCourseReport(ctx context.Context, repo repositories.Repository, courseID uint, callerID string, callerRole models.UserRole) (*models.Course, error) {
	course, err := repo.Course().GetByID(ctx, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	switch callerRole {
	case models.RoleTeacher:
		if course.TeacherID != callerID {
			return nil, NewPermissionError(callerID, "course", "view_report", "not the course owner")
		}
	case models.RoleStudent:
		enrollment, err := repo.Enrollment().GetByUserAndCourse(ctx, callerID, courseID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, NewPermissionError(callerID, "course", "view_report", "not enrolled")
			}
			return nil, err
		}
		if enrollment.Status != models.EnrollmentActive {
			return nil, NewPermissionError(callerID, "course", "view_report", "enrollment not active")
		}
	default:
		return nil, NewPermissionError(callerID, "course", "view_report", "unknown role")
	}

	return course, nil
}
