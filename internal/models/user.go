package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleTeacher UserRole = "TEACHER"
	RoleStudent UserRole = "STUDENT"
)

type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"fullName" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;index" validate:"required,oneof=TEACHER STUDENT"`

	// Profile info
	AvatarURL *string `json:"avatarUrl" gorm:"size:500"`

	// Credentials live here; sessions live in Redis.
	PasswordHash string `json:"-" gorm:"not null;size:255"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}
