package models

import "time"

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

type Attendance struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	CourseID  uint             `json:"courseId" gorm:"not null;index;uniqueIndex:idx_attendance_course_student_date"`
	StudentID string           `json:"studentId" gorm:"not null;index;size:255;uniqueIndex:idx_attendance_course_student_date"`
	Date      time.Time        `json:"date" gorm:"not null;type:date;uniqueIndex:idx_attendance_course_student_date"`
	Status    AttendanceStatus `json:"status" gorm:"not null;size:20" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Course  Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Student User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

func (Attendance) TableName() string {
	return "attendance"
}
