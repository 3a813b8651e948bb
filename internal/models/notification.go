package models

import "time"

type NotificationType string

const (
	NotificationAssignmentPublished NotificationType = "ASSIGNMENT_PUBLISHED"
	NotificationQuizPublished       NotificationType = "QUIZ_PUBLISHED"
	NotificationGradePosted         NotificationType = "GRADE_POSTED"
	NotificationAnnouncement        NotificationType = "ANNOUNCEMENT"
)

type Notification struct {
	ID      uint             `json:"id" gorm:"primaryKey"`
	UserID  string           `json:"userId" gorm:"not null;index;size:255"`
	Title   string           `json:"title" gorm:"not null;size:200"`
	Content string           `json:"content" gorm:"type:text;not null"`
	Type    NotificationType `json:"type" gorm:"not null;size:40;index"`
	IsRead  bool             `json:"isRead" gorm:"not null;default:false;index"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Notification) TableName() string {
	return "notifications"
}
