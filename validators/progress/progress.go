package progressValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func parseIDParam(c *fiber.Ctx, name string) (int, bool) {
	raw := strings.TrimSpace(c.Params(name))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// EnrollmentParam validates the :enrollmentId path parameter
func EnrollmentParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "enrollmentId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}
		c.Locals("enrollmentID", id)
		return c.Next()
	}
}

// EnrollmentModuleParams validates the :enrollmentId and :moduleId path parameters
func EnrollmentModuleParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		enrollmentID, ok := parseIDParam(c, "enrollmentId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}
		moduleID, ok := parseIDParam(c, "moduleId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}
		c.Locals("enrollmentID", enrollmentID)
		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

// ModuleParam validates the :moduleId path parameter
func ModuleParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "moduleId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}
		c.Locals("moduleID", id)
		return c.Next()
	}
}

// TrackActivity validates the activity tracking payload
func TrackActivity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ModuleID     uint                   `json:"module_id"`
			MaterialID   string                 `json:"material_id"`
			ActivityType string                 `json:"activity_type"`
			Duration     int                    `json:"duration"`
			Progress     float64                `json:"progress"`
			Metadata     map[string]interface{} `json:"metadata"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.ModuleID == 0 {
			errors["module_id"] = "Module ID is required!"
		}
		if strings.TrimSpace(reqData.ActivityType) == "" {
			errors["activity_type"] = "Activity type is required!"
		}
		if reqData.Duration < 0 {
			errors["duration"] = "Duration cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTrackActivity", reqData)
		return c.Next()
	}
}

// VideoProgress validates the video progress payload
func VideoProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			MaterialID        uint    `json:"material_id"`
			ModuleID          uint    `json:"module_id"`
			CurrentTime       float64 `json:"current_time"`
			Duration          float64 `json:"duration"`
			WatchedPercentage float64 `json:"watched_percentage"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.MaterialID == 0 {
			errors["material_id"] = "Material ID is required!"
		}
		if reqData.ModuleID == 0 {
			errors["module_id"] = "Module ID is required!"
		}
		if reqData.WatchedPercentage < 0 {
			errors["watched_percentage"] = "Watched percentage cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideoProgress", reqData)
		return c.Next()
	}
}

// QuizCompletion validates the quiz completion payload
func QuizCompletion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			QuizID   uint `json:"quiz_id"`
			ModuleID uint `json:"module_id"`
			Score    int  `json:"score"`
			MaxScore int  `json:"max_score"`
			Passed   bool `json:"passed"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.QuizID == 0 {
			errors["quiz_id"] = "Quiz ID is required!"
		}
		if reqData.ModuleID == 0 {
			errors["module_id"] = "Module ID is required!"
		}
		if reqData.Score < 0 {
			errors["score"] = "Score cannot be negative!"
		}
		if reqData.MaxScore < reqData.Score {
			errors["max_score"] = "Max score cannot be lower than score!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizCompletion", reqData)
		return c.Next()
	}
}

// ModuleRequirements validates the requirements payload with struct tags
func ModuleRequirements() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, ok := parseIDParam(c, "moduleId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}

		reqData := new(struct {
			MinTimeSpent            int  `json:"min_time_spent" validate:"gte=0"`
			RequireAllMaterials     bool `json:"require_all_materials"`
			RequireVideoCompletion  bool `json:"require_video_completion"`
			RequireQuizCompletion   bool `json:"require_quiz_completion"`
			MinVideoWatchPercentage int  `json:"min_video_watch_percentage" validate:"gte=0,lte=100"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.MinVideoWatchPercentage == 0 {
			reqData.MinVideoWatchPercentage = 80
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("moduleID", moduleID)
		c.Locals("validatedRequirements", reqData)
		return c.Next()
	}
}
