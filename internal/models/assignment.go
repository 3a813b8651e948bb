package models

import (
	"time"

	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "PENDING"
	SubmissionSubmitted SubmissionStatus = "SUBMITTED"
	SubmissionGraded    SubmissionStatus = "GRADED"
	SubmissionLate      SubmissionStatus = "LATE"
)

type Assignment struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	CourseID    uint       `json:"courseId" gorm:"not null;index"`
	TeacherID   string     `json:"teacherId" gorm:"not null;index;size:255"`
	Title       string     `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string    `json:"description" gorm:"type:text" validate:"omitempty,max=5000"`
	DueDate     *time.Time `json:"dueDate"`
	MaxPoints   float64    `json:"maxPoints" gorm:"not null" validate:"required,gt=0"`
	IsPublished bool       `json:"isPublished" gorm:"not null;default:false;index"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Course      Course       `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:AssignmentID"`
}

type Submission struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	AssignmentID uint             `json:"assignmentId" gorm:"not null;index;uniqueIndex:idx_submission_assignment_student"`
	StudentID    string           `json:"studentId" gorm:"not null;index;size:255;uniqueIndex:idx_submission_assignment_student"`
	Status       SubmissionStatus `json:"status" gorm:"not null;size:20;default:PENDING;index"`
	Content      *string          `json:"content" gorm:"type:text"`
	FileURL      *string          `json:"fileUrl" gorm:"size:500"`
	SubmittedAt  *time.Time       `json:"submittedAt"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Assignment Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
	Student    User       `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Grade      *Grade     `json:"grade,omitempty" gorm:"foreignKey:SubmissionID"`
}

// Grade.Percentage is derived as score/maxScore*100 at grading time and
// trusted as-is by the analytics engine.
type Grade struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	SubmissionID uint    `json:"submissionId" gorm:"not null;uniqueIndex"`
	Score        float64 `json:"score" gorm:"not null" validate:"min=0"`
	MaxScore     float64 `json:"maxScore" gorm:"not null" validate:"required,gt=0"`
	Percentage   float64 `json:"percentage" gorm:"not null"`
	Feedback     *string `json:"feedback" gorm:"type:text"`
	GradedBy     string  `json:"gradedBy" gorm:"not null;size:255"`
	GradedAt     time.Time `json:"gradedAt" gorm:"not null;index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Submission Submission `json:"submission,omitempty" gorm:"foreignKey:SubmissionID"`
}

func (Assignment) TableName() string {
	return "assignments"
}

func (Submission) TableName() string {
	return "submissions"
}

func (Grade) TableName() string {
	return "grades"
}
