package course

import "gorm.io/gorm"

// Module represents a section/module within a course. OrderIndex is assumed
// unique within a course by consumers, though not enforced at the DB level.
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // Module order in course
	IsDeleted   bool   `gorm:"default:false"`
}
