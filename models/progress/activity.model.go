package progress

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity types
const (
	ActivityMaterialView = "MATERIAL_VIEW"
	ActivityVideoWatch   = "VIDEO_WATCH"
	ActivityQuizAttempt  = "QUIZ_ATTEMPT"
	ActivityModuleVisit  = "MODULE_VISIT"
)

// UserActivity is an append-only record of a tracked interaction. Quiz-backed
// synthetic materials carry a null MaterialID with the original id preserved
// under metadata, so the materials foreign key stays intact.
type UserActivity struct {
	gorm.Model
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	ModuleID     uint           `json:"module_id" gorm:"index;not null"`
	MaterialID   *uint          `json:"material_id" gorm:"index"`
	ActivityType string         `json:"activity_type"`
	Duration     int            `json:"duration" gorm:"default:0"` // Seconds spent
	Progress     float64        `json:"progress" gorm:"default:0"`
	Metadata     datatypes.JSON `json:"metadata"`
}
