package utils

import (
	"encoding/json"
	"fmt"
	"lms/database"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"
	"strings"
)

// ValidationDetails carries the raw numbers behind a validation decision.
// OverallProgress is diagnostic only; completion is decided by the pass/fail
// of the enforced signals.
type ValidationDetails struct {
	TimeSpent         int     `json:"time_spent"`
	RequiredTime      int     `json:"required_time"`
	MaterialsAccessed int     `json:"materials_accessed"`
	TotalMaterials    int     `json:"total_materials"`
	VideosCompleted   int     `json:"videos_completed"`
	TotalVideos       int     `json:"total_videos"`
	QuizzesPassed     int     `json:"quizzes_passed"`
	TotalQuizzes      int     `json:"total_quizzes"`
	OverallProgress   float64 `json:"overall_progress"`
}

// ValidationResult is the outcome of a module completion check
type ValidationResult struct {
	IsValid     bool              `json:"is_valid"`
	CanComplete bool              `json:"can_complete"`
	Reason      string            `json:"reason"`
	Details     ValidationDetails `json:"details"`
}

// ValidateModuleCompletion checks whether the user satisfies the module's
// completion requirements and computes an aggregate progress score. It only
// reads; safe to call repeatedly and concurrently.
//
// skipValidation and forceComplete short-circuit to an approval without
// touching the database. That bypass carries instructor/admin authority and
// must not be gated by further checks.
func ValidateModuleCompletion(userID, enrollmentID, moduleID uint, skipValidation, forceComplete bool) (*ValidationResult, error) {
	if skipValidation || forceComplete {
		reason := "Validation skipped"
		if forceComplete {
			reason = "Instructor override"
		}
		return &ValidationResult{IsValid: true, CanComplete: true, Reason: reason}, nil
	}

	db := database.Database.Db

	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return nil, ErrModuleNotFound
	}

	// Absent requirements row means no requirements: everything passes.
	var req progressModels.ModuleRequirements
	db.Where("module_id = ? AND is_deleted = ?", moduleID, false).First(&req)

	var materials []courseModels.Material
	db.Where("module_id = ? AND is_deleted = ? AND is_published = ?", moduleID, false, true).Find(&materials)

	var activities []progressModels.UserActivity
	db.Where("user_id = ? AND module_id = ?", userID, moduleID).Find(&activities)

	var videoProgress []progressModels.VideoProgress
	db.Where("user_id = ? AND module_id = ?", userID, moduleID).Find(&videoProgress)

	var quizCompletions []progressModels.QuizCompletion
	db.Where("user_id = ? AND module_id = ?", userID, moduleID).Find(&quizCompletions)

	// Quizzes are course-scoped, so the denominator is the whole course.
	var totalQuizzes int64
	db.Model(&courseModels.Quiz{}).Where("course_id = ? AND is_deleted = ? AND is_published = ?", module.CourseID, false, true).Count(&totalQuizzes)

	details := ValidationDetails{
		RequiredTime:   req.MinTimeSpent,
		TotalMaterials: len(materials),
		TotalQuizzes:   int(totalQuizzes),
	}

	for _, a := range activities {
		details.TimeSpent += a.Duration
	}

	// Distinct accessed materials. Quiz-backed synthetic materials have no
	// row in materials and are recognized via metadata.
	accessed := make(map[string]bool)
	for _, a := range activities {
		if a.MaterialID != nil {
			accessed[fmt.Sprintf("%d", *a.MaterialID)] = true
			continue
		}
		if len(a.Metadata) > 0 {
			var meta map[string]interface{}
			if err := json.Unmarshal(a.Metadata, &meta); err == nil {
				if orig, ok := meta["original_material_id"].(string); ok && orig != "" {
					accessed[orig] = true
				}
			}
		}
	}
	details.MaterialsAccessed = len(accessed)

	for _, m := range materials {
		if m.ContentType == courseModels.MaterialTypeVideo {
			details.TotalVideos++
		}
	}
	for _, vp := range videoProgress {
		if vp.IsCompleted {
			details.VideosCompleted++
		}
	}

	for _, qc := range quizCompletions {
		if qc.Passed {
			details.QuizzesPassed++
		}
	}

	var failures []string

	if req.MinTimeSpent > 0 && details.TimeSpent < req.MinTimeSpent {
		failures = append(failures, fmt.Sprintf("Insufficient time spent. Required: %ds, Spent: %ds", req.MinTimeSpent, details.TimeSpent))
	}
	if req.RequireAllMaterials && details.TotalMaterials > 0 && details.MaterialsAccessed < details.TotalMaterials {
		failures = append(failures, fmt.Sprintf("Not all materials accessed. Accessed: %d/%d", details.MaterialsAccessed, details.TotalMaterials))
	}
	if req.RequireVideoCompletion && details.TotalVideos > 0 && details.VideosCompleted < details.TotalVideos {
		failures = append(failures, fmt.Sprintf("Not all videos completed. Completed: %d/%d", details.VideosCompleted, details.TotalVideos))
	}
	if req.RequireQuizCompletion && details.TotalQuizzes > 0 && details.QuizzesPassed < details.TotalQuizzes {
		failures = append(failures, fmt.Sprintf("Not all quizzes passed. Passed: %d/%d", details.QuizzesPassed, details.TotalQuizzes))
	}

	// Unweighted mean over the signals that have a denominator. The time
	// ratio is capped at 100; the raw value can exceed it.
	var sum float64
	var terms int
	if req.MinTimeSpent > 0 {
		pct := float64(details.TimeSpent) / float64(req.MinTimeSpent) * 100
		if pct > 100 {
			pct = 100
		}
		sum += pct
		terms++
	}
	if details.TotalMaterials > 0 {
		sum += float64(details.MaterialsAccessed) / float64(details.TotalMaterials) * 100
		terms++
	}
	if details.TotalVideos > 0 {
		sum += float64(details.VideosCompleted) / float64(details.TotalVideos) * 100
		terms++
	}
	if details.TotalQuizzes > 0 {
		sum += float64(details.QuizzesPassed) / float64(details.TotalQuizzes) * 100
		terms++
	}
	if terms > 0 {
		details.OverallProgress = sum / float64(terms)
	}

	result := &ValidationResult{
		IsValid:     len(failures) == 0,
		CanComplete: len(failures) == 0,
		Reason:      "All requirements met",
		Details:     details,
	}
	if len(failures) > 0 {
		result.Reason = strings.Join(failures, "; ")
	}

	return result, nil
}
