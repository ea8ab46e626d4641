package progress

import (
	"time"

	"gorm.io/gorm"
)

// QuizCompletion keeps only the latest attempt per (user, quiz), with a
// running attempts counter. Prior attempt data is not retained.
type QuizCompletion struct {
	gorm.Model
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_quiz"`
	QuizID      uint      `json:"quiz_id" gorm:"not null;uniqueIndex:idx_user_quiz"`
	ModuleID    uint      `json:"module_id" gorm:"index;not null"`
	Score       int       `json:"score" gorm:"default:0"`
	MaxScore    int       `json:"max_score" gorm:"default:0"`
	Passed      bool      `json:"passed" gorm:"default:false"`
	Attempts    int       `json:"attempts" gorm:"default:1"`
	CompletedAt time.Time `json:"completed_at"`
}
