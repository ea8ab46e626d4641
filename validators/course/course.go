package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

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

func structErrors(err error) map[string]string {
	errors := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		errors[fieldErr.Field()] = "Invalid value for " + fieldErr.Field() + "!"
	}
	return errors
}

// CourseParam validates the :courseId path parameter
func CourseParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// CourseModuleParams validates the :courseId and :moduleId path parameters
func CourseModuleParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "courseId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		moduleID, ok := parseIDParam(c, "moduleId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}
		c.Locals("courseID", courseID)
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

// MaterialParam validates the :materialId path parameter
func MaterialParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "materialId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Material ID!", nil)
		}
		c.Locals("materialID", id)
		return c.Next()
	}
}

// QuizParam validates the :quizId path parameter
func QuizParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "quizId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}
		c.Locals("quizID", id)
		return c.Next()
	}
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

// ListQuery validates optional pagination in the request body
func ListQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		errors := make(map[string]string)
		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be at least 1!"
		}
		if reqData.Limit != nil && (*reqData.Limit < 1 || *reqData.Limit > 100) {
			errors["limit"] = "Limit must be between 1 and 100!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// CreateCourse validates the create course payload
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        string `json:"title" validate:"required,min=3,max=200"`
			Description  string `json:"description"`
			Category     string `json:"category"`
			Level        string `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
			Duration     int64  `json:"duration"`
			ThumbnailURL string `json:"thumbnail_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedCreateCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the update course payload
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title        *string `json:"title" validate:"omitempty,min=3,max=200"`
			Description  *string `json:"description"`
			Category     *string `json:"category"`
			Level        *string `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
			Duration     *int64  `json:"duration"`
			Status       *string `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE INACTIVE"`
			ThumbnailURL *string `json:"thumbnail_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedUpdateCourse", reqData)
		return c.Next()
	}
}

// CreateModule validates the create module payload
func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title" validate:"required,min=3,max=200"`
			Description string `json:"description"`
			OrderIndex  int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedCreateModule", reqData)
		return c.Next()
	}
}

// UpdateModule validates the update module payload
func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       *string `json:"title" validate:"omitempty,min=3,max=200"`
			Description *string `json:"description"`
			OrderIndex  *int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedUpdateModule", reqData)
		return c.Next()
	}
}

// CreateMaterial validates the create material payload
func CreateMaterial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title" validate:"required,min=3,max=200"`
			Description string `json:"description"`
			ContentType string `json:"content_type" validate:"required,oneof=TEXT VIDEO PDF LINK"`
			TextContent string `json:"text_content"`
			VideoURL    string `json:"video_url"`
			FileURL     string `json:"file_url"`
			ExternalURL string `json:"external_url"`
			Duration    int    `json:"duration" validate:"omitempty,min=0"`
			OrderIndex  int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedCreateMaterial", reqData)
		return c.Next()
	}
}

// UpdateMaterial validates the update material payload
func UpdateMaterial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       *string `json:"title" validate:"omitempty,min=3,max=200"`
			Description *string `json:"description"`
			ContentType *string `json:"content_type" validate:"omitempty,oneof=TEXT VIDEO PDF LINK"`
			TextContent *string `json:"text_content"`
			VideoURL    *string `json:"video_url"`
			FileURL     *string `json:"file_url"`
			ExternalURL *string `json:"external_url"`
			Duration    *int    `json:"duration" validate:"omitempty,min=0"`
			OrderIndex  *int    `json:"order_index"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedUpdateMaterial", reqData)
		return c.Next()
	}
}

// CreateQuiz validates the create quiz payload
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ModuleID     uint   `json:"module_id" validate:"required"`
			Title        string `json:"title" validate:"required,min=3,max=200"`
			Description  string `json:"description"`
			PassingScore int    `json:"passing_score" validate:"omitempty,min=1,max=100"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedCreateQuiz", reqData)
		return c.Next()
	}
}

// AddQuestion validates the add question payload
func AddQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Text       string `json:"text" validate:"required"`
			Points     int    `json:"points" validate:"omitempty,min=1"`
			OrderIndex int    `json:"order_index"`
			Options    []struct {
				OptionText string `json:"option_text" validate:"required"`
				IsCorrect  bool   `json:"is_correct"`
				OrderIndex int    `json:"order_index"`
			} `json:"options" validate:"required,min=2,dive"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedAddQuestion", reqData)
		return c.Next()
	}
}

// QuizSubmission validates a graded quiz submission
func QuizSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers []struct {
				QuestionID uint `json:"question_id" validate:"required"`
				OptionID   uint `json:"option_id" validate:"required"`
			} `json:"answers" validate:"required,min=1,dive"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedQuizSubmission", reqData)
		return c.Next()
	}
}
