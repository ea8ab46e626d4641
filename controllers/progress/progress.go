package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	progressModels "lms/models/progress"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// respondProgressError maps progress engine errors onto the JSON envelope
func respondProgressError(c *fiber.Ctx, err error) error {
	var vErr *utils.ValidationFailedError
	switch {
	case errors.Is(err, utils.ErrEnrollmentNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	case errors.Is(err, utils.ErrModuleNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	case errors.Is(err, utils.ErrQuizNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	case errors.Is(err, utils.ErrNotEnrollmentOwner):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This enrollment does not belong to you!", nil)
	case errors.As(err, &vErr):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, vErr.Error(), nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process progress request!", nil)
	}
}

// TrackActivity appends one user activity record
func TrackActivity(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedTrackActivity").(*struct {
		ModuleID     uint                   `json:"module_id"`
		MaterialID   string                 `json:"material_id"`
		ActivityType string                 `json:"activity_type"`
		Duration     int                    `json:"duration"`
		Progress     float64                `json:"progress"`
		Metadata     map[string]interface{} `json:"metadata"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	activity, err := utils.TrackUserActivity(userID, reqData.ModuleID, reqData.MaterialID, reqData.ActivityType, reqData.Duration, reqData.Progress, reqData.Metadata)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to track activity!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Activity tracked successfully!", activity)
}

// UpdateVideoProgress upserts the caller's watch state for a video material
func UpdateVideoProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedVideoProgress").(*struct {
		MaterialID        uint    `json:"material_id"`
		ModuleID          uint    `json:"module_id"`
		CurrentTime       float64 `json:"current_time"`
		Duration          float64 `json:"duration"`
		WatchedPercentage float64 `json:"watched_percentage"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	vp, err := utils.UpdateVideoProgress(userID, reqData.MaterialID, reqData.ModuleID, reqData.CurrentTime, reqData.Duration, reqData.WatchedPercentage)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update video progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video progress updated successfully!", vp)
}

// SubmitQuizCompletion records an already-graded quiz result
func SubmitQuizCompletion(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedQuizCompletion").(*struct {
		QuizID   uint `json:"quiz_id"`
		ModuleID uint `json:"module_id"`
		Score    int  `json:"score"`
		MaxScore int  `json:"max_score"`
		Passed   bool `json:"passed"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	qc, err := utils.RecordQuizCompletion(userID, reqData.QuizID, reqData.ModuleID, reqData.Score, reqData.MaxScore, reqData.Passed)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record quiz completion!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz completion recorded!", qc)
}

// MarkModuleCompleted records module completion after validation. Force
// completion is restricted to instructors and admins.
func MarkModuleCompleted(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)
	moduleID := c.Locals("moduleID").(int)

	reqData := new(struct {
		ForceComplete    bool   `json:"force_complete"`
		CompletionReason string `json:"completion_reason"`
	})
	if len(c.Body()) > 0 {
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
	}

	if reqData.ForceComplete {
		var user models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}
		if user.Role != "INSTRUCTOR" && user.Role != "ADMIN" {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only instructors can force completion!", nil)
		}
	}

	mp, err := utils.MarkModuleCompleted(uint(enrollmentID), uint(moduleID), userID, reqData.ForceComplete, reqData.CompletionReason)
	if err != nil {
		return respondProgressError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module marked as completed!", mp)
}

// InstructorOverride force-completes a module on behalf of a student.
// Instructor/admin only (enforced in the route chain).
func InstructorOverride(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)
	moduleID := c.Locals("moduleID").(int)

	reqData := new(struct {
		CompletionReason string `json:"completion_reason"`
	})
	if len(c.Body()) > 0 {
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
	}

	reason := reqData.CompletionReason
	if reason == "" {
		reason = "Instructor override"
	}

	mp, err := utils.MarkModuleCompleted(uint(enrollmentID), uint(moduleID), userID, true, reason)
	if err != nil {
		return respondProgressError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module completion overridden!", mp)
}

// MarkCourseCompleted is the administrative bulk completion shortcut
func MarkCourseCompleted(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	if err := utils.MarkCourseCompleted(uint(enrollmentID), userID); err != nil {
		return respondProgressError(c, err)
	}

	cp, err := utils.GetCourseProgress(uint(enrollmentID), userID)
	if err != nil {
		return respondProgressError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course marked as completed!", cp)
}

// GetCourseProgress returns the derived whole-course aggregate
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	cp, err := utils.GetCourseProgress(uint(enrollmentID), userID)
	if err != nil {
		return respondProgressError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", cp)
}

// GetValidation runs the completion validator without writing anything
func GetValidation(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)
	moduleID := c.Locals("moduleID").(int)

	result, err := utils.ValidateModuleCompletion(userID, uint(enrollmentID), uint(moduleID), false, false)
	if err != nil {
		return respondProgressError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Validation computed successfully!", result)
}

// SetModuleRequirements creates or updates a module's completion policy.
// Instructor/admin only (enforced in the route chain).
func SetModuleRequirements(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	reqData, ok := c.Locals("validatedRequirements").(*struct {
		MinTimeSpent            int  `json:"min_time_spent" validate:"gte=0"`
		RequireAllMaterials     bool `json:"require_all_materials"`
		RequireVideoCompletion  bool `json:"require_video_completion"`
		RequireQuizCompletion   bool `json:"require_quiz_completion"`
		MinVideoWatchPercentage int  `json:"min_video_watch_percentage" validate:"gte=0,lte=100"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var req progressModels.ModuleRequirements
	if err := db.Where("module_id = ? AND is_deleted = ?", moduleID, false).First(&req).Error; err != nil {
		req = progressModels.ModuleRequirements{
			ModuleID:                uint(moduleID),
			MinTimeSpent:            reqData.MinTimeSpent,
			RequireAllMaterials:     reqData.RequireAllMaterials,
			RequireVideoCompletion:  reqData.RequireVideoCompletion,
			RequireQuizCompletion:   reqData.RequireQuizCompletion,
			MinVideoWatchPercentage: reqData.MinVideoWatchPercentage,
		}
		if err := db.Create(&req).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save module requirements!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module requirements created!", req)
	}

	req.MinTimeSpent = reqData.MinTimeSpent
	req.RequireAllMaterials = reqData.RequireAllMaterials
	req.RequireVideoCompletion = reqData.RequireVideoCompletion
	req.RequireQuizCompletion = reqData.RequireQuizCompletion
	req.MinVideoWatchPercentage = reqData.MinVideoWatchPercentage

	if err := db.Save(&req).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save module requirements!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module requirements updated!", req)
}

// GetModuleRequirements returns a module's completion policy, if any
func GetModuleRequirements(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	var req progressModels.ModuleRequirements
	if err := database.Database.Db.Where("module_id = ? AND is_deleted = ?", moduleID, false).First(&req).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "No requirements configured for this module.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module requirements fetched successfully!", req)
}
