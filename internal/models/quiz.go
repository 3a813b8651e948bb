package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuizAttemptStatus string

const (
	AttemptInProgress QuizAttemptStatus = "IN_PROGRESS"
	AttemptCompleted  QuizAttemptStatus = "COMPLETED"
	AttemptAbandoned  QuizAttemptStatus = "ABANDONED"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	TrueFalse      QuestionType = "TRUE_FALSE"
	ShortAnswer    QuestionType = "SHORT_ANSWER"
)

type Quiz struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	CourseID        uint    `json:"courseId" gorm:"not null;index"`
	TeacherID       string  `json:"teacherId" gorm:"not null;index;size:255"`
	Title           string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description     *string `json:"description" gorm:"type:text" validate:"omitempty,max=5000"`
	TimeLimit       *int    `json:"timeLimit" validate:"omitempty,min=1,max=300"` // minutes
	AttemptsAllowed int     `json:"attemptsAllowed" gorm:"default:1" validate:"min=1,max=10"`
	IsPublished     bool    `json:"isPublished" gorm:"not null;default:false;index"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Course    Course        `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Attempts  []QuizAttempt `json:"attempts,omitempty" gorm:"foreignKey:QuizID"`

	// Computed fields (not stored)
	QuestionCount int `json:"question_count" gorm:"-"`
}

type Question struct {
	ID     uint         `json:"id" gorm:"primaryKey"`
	QuizID uint         `json:"quizId" gorm:"not null;index"`
	Type   QuestionType `json:"type" gorm:"not null" validate:"required,oneof=MULTIPLE_CHOICE TRUE_FALSE SHORT_ANSWER"`
	Text   string       `json:"text" gorm:"type:text;not null" validate:"required"`
	Points float64      `json:"points" gorm:"not null" validate:"required,gt=0"`
	Order  int          `json:"order" gorm:"default:0"`

	// Options and the correct answer stored as JSONB for flexibility
	Options       datatypes.JSON `json:"options" gorm:"type:jsonb"`
	CorrectAnswer datatypes.JSON `json:"-" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type QuizAttempt struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	QuizID    uint              `json:"quizId" gorm:"not null;index"`
	StudentID string            `json:"studentId" gorm:"not null;index;size:255"`
	Status    QuizAttemptStatus `json:"status" gorm:"not null;size:20;default:IN_PROGRESS;index"`

	// Score is nil until the attempt is graded; the analytics engine
	// treats a missing score as 0, unlike Grade.Percentage which is trusted.
	Score    *float64 `json:"score"`
	MaxScore float64  `json:"maxScore" gorm:"not null"`

	StartedAt   time.Time  `json:"startedAt" gorm:"not null;index"`
	CompletedAt *time.Time `json:"completedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Quiz    Quiz `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	Student User `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (Question) TableName() string {
	return "questions"
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
