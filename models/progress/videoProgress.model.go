package progress

import (
	"time"

	"gorm.io/gorm"
)

// VideoProgress holds the latest watch state per (user, material). IsCompleted
// flips at a fixed 100 percent watched, independent of any configured minimum.
type VideoProgress struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_material"`
	MaterialID        uint      `json:"material_id" gorm:"not null;uniqueIndex:idx_user_material"`
	ModuleID          uint      `json:"module_id" gorm:"index;not null"`
	CurrentTime       float64   `json:"current_time" gorm:"default:0"` // Playback position in seconds
	Duration          float64   `json:"duration" gorm:"default:0"`
	WatchedPercentage float64   `json:"watched_percentage" gorm:"default:0"`
	IsCompleted       bool      `json:"is_completed" gorm:"default:false"`
	LastWatchedAt     time.Time `json:"last_watched_at"`
}
