package progress

import "gorm.io/gorm"

// ModuleRequirements declares the completion policy for a module. A module
// without a row has no requirements: anything completes it.
type ModuleRequirements struct {
	gorm.Model
	ModuleID                uint `json:"module_id" gorm:"uniqueIndex;not null"`
	MinTimeSpent            int  `json:"min_time_spent" gorm:"default:0"` // Seconds; 0 disables the time gate
	RequireAllMaterials     bool `json:"require_all_materials" gorm:"default:false"`
	RequireVideoCompletion  bool `json:"require_video_completion" gorm:"default:false"`
	RequireQuizCompletion   bool `json:"require_quiz_completion" gorm:"default:false"`
	MinVideoWatchPercentage int  `json:"min_video_watch_percentage" gorm:"default:80"`
	IsDeleted               bool `gorm:"default:false"`
}
