package progress

import (
	"time"

	"gorm.io/gorm"
)

// ModuleProgress is the canonical completion record per (enrollment, module).
// CompletedBy is set only on forced/instructor completion; CompletionReason
// on force-complete or quiz-triggered auto-complete.
type ModuleProgress struct {
	gorm.Model
	EnrollmentID     uint       `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_enrollment_module"`
	ModuleID         uint       `json:"module_id" gorm:"not null;uniqueIndex:idx_enrollment_module"`
	Completed        bool       `json:"completed" gorm:"default:false"`
	CompletedAt      *time.Time `json:"completed_at"`
	CompletedBy      *uint      `json:"completed_by"`
	CompletionReason string     `json:"completion_reason"`
}
