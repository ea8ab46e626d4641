package course

import "gorm.io/gorm"

// Enrollment pairs a user with a course. Completion status and percentages
// are derived on demand from progress records, never stored here.
type Enrollment struct {
	gorm.Model
	UserID    uint `json:"user_id" gorm:"index;not null"`
	CourseID  uint `json:"course_id" gorm:"index;not null"`
	IsDeleted bool `gorm:"default:false"`
}
