package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateQuiz creates a quiz linked to a module of a course
func CreateQuiz(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	course := courseForInstructor(c, user, courseID)
	if course == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedCreateQuiz").(*struct {
		ModuleID     uint   `json:"module_id" validate:"required"`
		Title        string `json:"title" validate:"required,min=3,max=200"`
		Description  string `json:"description"`
		PassingScore int    `json:"passing_score" validate:"omitempty,min=1,max=100"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// The linked module must belong to the same course
	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", reqData.ModuleID, course.ID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found in this course!", nil)
	}

	quiz := courseModels.Quiz{
		CourseID:     course.ID,
		ModuleID:     module.ID,
		Title:        reqData.Title,
		Description:  reqData.Description,
		PassingScore: reqData.PassingScore,
	}
	if quiz.PassingScore == 0 {
		quiz.PassingScore = 60
	}

	if err := database.Database.Db.Create(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", fiber.Map{
		"quiz": quiz,
	})
}

// AddQuizQuestion adds a question with options to a quiz
func AddQuizQuestion(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	course := courseForInstructor(c, user, int(quiz.CourseID))
	if course == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedAddQuestion").(*struct {
		Text       string `json:"text" validate:"required"`
		Points     int    `json:"points" validate:"omitempty,min=1"`
		OrderIndex int    `json:"order_index"`
		Options    []struct {
			OptionText string `json:"option_text" validate:"required"`
			IsCorrect  bool   `json:"is_correct"`
			OrderIndex int    `json:"order_index"`
		} `json:"options" validate:"required,min=2,dive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// At least one option must be marked correct
	hasCorrect := false
	for _, option := range reqData.Options {
		if option.IsCorrect {
			hasCorrect = true
			break
		}
	}
	if !hasCorrect {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "At least one option must be correct!", nil)
	}

	question := courseModels.QuizQuestion{
		QuizID:     quiz.ID,
		Text:       reqData.Text,
		Points:     reqData.Points,
		OrderIndex: reqData.OrderIndex,
	}
	if question.Points == 0 {
		question.Points = 1
	}

	if err := database.Database.Db.Create(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	options := make([]courseModels.QuizOption, 0, len(reqData.Options))
	for _, optionData := range reqData.Options {
		option := courseModels.QuizOption{
			QuestionID: question.ID,
			OptionText: optionData.OptionText,
			IsCorrect:  optionData.IsCorrect,
			OrderIndex: optionData.OrderIndex,
		}
		if err := database.Database.Db.Create(&option).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question options!", nil)
		}
		options = append(options, option)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question added successfully!", fiber.Map{
		"question": question,
		"options":  options,
	})
}

// PublishQuiz makes a quiz available to enrolled students
func PublishQuiz(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	course := courseForInstructor(c, user, int(quiz.CourseID))
	if course == nil {
		return nil
	}

	// A quiz without questions cannot be taken
	var questionCount int64
	database.Database.Db.Model(&courseModels.QuizQuestion{}).Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).Count(&questionCount)
	if questionCount == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Cannot publish a quiz with no questions!", nil)
	}

	quiz.IsPublished = true
	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz published successfully!", fiber.Map{
		"quiz": quiz,
	})
}

// DeleteQuiz soft-deletes a quiz
func DeleteQuiz(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	course := courseForInstructor(c, user, int(quiz.CourseID))
	if course == nil {
		return nil
	}

	quiz.IsDeleted = true
	quiz.IsPublished = false
	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}
