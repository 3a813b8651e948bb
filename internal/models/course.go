package models

import (
	"time"

	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
)

type Course struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Code        string  `json:"code" gorm:"uniqueIndex;not null;size:20" validate:"required,min=2,max=20"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	TeacherID   string  `json:"teacherId" gorm:"not null;index;size:255"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Teacher     User         `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:CourseID"`
	Assignments []Assignment `json:"assignments,omitempty" gorm:"foreignKey:CourseID"`
	Quizzes     []Quiz       `json:"quizzes,omitempty" gorm:"foreignKey:CourseID"`

	// Computed fields (not stored)
	StudentCount int `json:"student_count" gorm:"-"`
}

// Enrollment with status ACTIVE is the sole membership proof used for
// access checks.
type Enrollment struct {
	ID       uint             `json:"id" gorm:"primaryKey"`
	UserID   string           `json:"userId" gorm:"not null;index;size:255;uniqueIndex:idx_enrollment_user_course"`
	CourseID uint             `json:"courseId" gorm:"not null;index;uniqueIndex:idx_enrollment_user_course"`
	Status   EnrollmentStatus `json:"status" gorm:"not null;size:20;default:ACTIVE;index"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

type Announcement struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	CourseID uint   `json:"courseId" gorm:"not null;index"`
	AuthorID string `json:"authorId" gorm:"not null;index;size:255"`
	Title    string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Content  string `json:"content" gorm:"type:text;not null" validate:"required"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Course Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Author User   `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

type DiscussionPost struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	CourseID uint    `json:"courseId" gorm:"not null;index"`
	AuthorID string  `json:"authorId" gorm:"not null;index;size:255"`
	ParentID *uint   `json:"parentId" gorm:"index"`
	Content  string  `json:"content" gorm:"type:text;not null" validate:"required,max=5000"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Author  User             `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Replies []DiscussionPost `json:"replies,omitempty" gorm:"foreignKey:ParentID"`
}

func (Course) TableName() string {
	return "courses"
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (Announcement) TableName() string {
	return "announcements"
}

func (DiscussionPost) TableName() string {
	return "discussion_posts"
}
