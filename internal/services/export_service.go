package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/edustack/lms-service/internal/models"
)

type exportService struct {
	analytics AnalyticsService
	logger    *slog.Logger
}

func NewExportService(analytics AnalyticsService, logger *slog.Logger) ExportService {
	return &exportService{analytics: analytics, logger: logger}
}

// ExportCourseReport renders the course report and leaderboard into one
// workbook. Access rules are the analytics engine's own; nothing is widened
// here.
func (s *exportService) ExportCourseReport(ctx context.Context, courseID uint, callerID string, callerRole models.UserRole) ([]byte, string, error) {
	report, err := s.analytics.CourseReport(ctx, courseID, callerID, callerRole)
	if err != nil {
		return nil, "", err
	}
	leaderboard, err := s.analytics.Leaderboard(ctx, courseID, callerID, callerRole)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const reportSheet = "Course Report"
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, "", fmt.Errorf("failed to rename sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Course", report.Title},
		{"Code", report.Code},
		{"Active students", report.ActiveStudents},
		{"Assignments", report.TotalAssignments},
		{"Assignment completion rate", report.AssignmentCompletionRate},
		{"Average grade", report.AverageGrade},
		{"Average quiz score", report.AverageQuizScore},
		{"Attendance rate", report.AttendanceRate},
		{},
		{"Student", "Submissions", "Completion rate", "Average grade", "Quiz score", "Attendance rate"},
	}
	for _, p := range report.StudentPerformance {
		rows = append(rows, []interface{}{
			p.FullName, p.SubmissionCount, p.AssignmentCompletionRate,
			p.AverageGrade, p.AverageQuizScore, p.AttendanceRate,
		})
	}
	if err := writeRows(f, reportSheet, rows); err != nil {
		return nil, "", err
	}

	const boardSheet = "Leaderboard"
	if _, err := f.NewSheet(boardSheet); err != nil {
		return nil, "", fmt.Errorf("failed to add sheet: %w", err)
	}
	boardRows := [][]interface{}{
		{"Rank", "Student", "Assignment avg", "Quiz avg", "Attendance", "Overall", "Participation"},
	}
	for _, e := range leaderboard.Entries {
		boardRows = append(boardRows, []interface{}{
			e.Rank, e.FullName, e.AssignmentAverage, e.QuizAverage,
			e.AttendanceRate, e.OverallScore, e.ParticipationPoints,
		})
	}
	if err := writeRows(f, boardSheet, boardRows); err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("course-report-%s.xlsx", report.Code)
	return buf.Bytes(), filename, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
