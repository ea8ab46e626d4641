package discussionValidator

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

// ThreadParam validates the :threadId path parameter
func ThreadParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "threadId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Thread ID!", nil)
		}
		c.Locals("threadID", id)
		return c.Next()
	}
}

// ReplyParam validates the :replyId path parameter
func ReplyParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseIDParam(c, "replyId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Reply ID!", nil)
		}
		c.Locals("replyID", id)
		return c.Next()
	}
}

// CreateThread validates the new thread payload
func CreateThread() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title string `json:"title" validate:"required,min=3,max=200"`
			Body  string `json:"body" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedCreateThread", reqData)
		return c.Next()
	}
}

// CreateReply validates the reply payload
func CreateReply() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Body string `json:"body" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedCreateReply", reqData)
		return c.Next()
	}
}

// Vote validates a vote payload
func Vote() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Value int `json:"value" validate:"required,oneof=-1 1"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, structErrors(err))
		}

		c.Locals("validatedVote", reqData)
		return c.Next()
	}
}
