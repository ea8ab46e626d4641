package controllers

import (
	"fmt"
	"log"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// GetCourseQuizzes lists published quizzes of a course for enrolled users
func GetCourseQuizzes(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	var quizzes []courseModels.Quiz
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Order("created_at asc").Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", fiber.Map{
		"quizzes": quizzes,
	})
}

// quizQuestionView hides the correct answers from students
type quizQuestionView struct {
	ID         uint             `json:"id"`
	Text       string           `json:"text"`
	Points     int              `json:"points"`
	OrderIndex int              `json:"order_index"`
	Options    []quizOptionView `json:"options"`
}

type quizOptionView struct {
	ID         uint   `json:"id"`
	OptionText string `json:"option_text"`
	OrderIndex int    `json:"order_index"`
}

// GetQuiz returns a quiz with its questions and options for taking it.
// Correct answers are never sent to the client; grading happens server side.
func GetQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", quizID, false, true).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	// Check enrollment in the quiz's course
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, quiz.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	var questions []courseModels.QuizQuestion
	database.Database.Db.Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).Order("order_index asc").Find(&questions)

	views := make([]quizQuestionView, 0, len(questions))
	for _, question := range questions {
		var options []courseModels.QuizOption
		database.Database.Db.Where("question_id = ? AND is_deleted = ?", question.ID, false).Order("order_index asc").Find(&options)

		optionViews := make([]quizOptionView, 0, len(options))
		for _, option := range options {
			optionViews = append(optionViews, quizOptionView{
				ID:         option.ID,
				OptionText: option.OptionText,
				OrderIndex: option.OrderIndex,
			})
		}

		views = append(views, quizQuestionView{
			ID:         question.ID,
			Text:       question.Text,
			Points:     question.Points,
			OrderIndex: question.OrderIndex,
			Options:    optionViews,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz":      quiz,
		"questions": views,
	})
}

// SubmitQuiz grades a quiz attempt server side, records the completion and
// logs a quiz activity against the linked module.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)

	reqData, ok := c.Locals("validatedQuizSubmission").(*struct {
		Answers []struct {
			QuestionID uint `json:"question_id" validate:"required"`
			OptionID   uint `json:"option_id" validate:"required"`
		} `json:"answers" validate:"required,min=1,dive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", quizID, false, true).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	// Check enrollment in the quiz's course
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, quiz.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
	}

	var questions []courseModels.QuizQuestion
	database.Database.Db.Where("quiz_id = ? AND is_deleted = ?", quiz.ID, false).Find(&questions)

	if len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz has no questions!", nil)
	}

	answersByQuestion := make(map[uint]uint, len(reqData.Answers))
	for _, answer := range reqData.Answers {
		answersByQuestion[answer.QuestionID] = answer.OptionID
	}

	score := 0
	maxScore := 0
	correctCount := 0
	for _, question := range questions {
		maxScore += question.Points

		optionID, answered := answersByQuestion[question.ID]
		if !answered {
			continue
		}

		var option courseModels.QuizOption
		if err := database.Database.Db.Where("id = ? AND question_id = ? AND is_deleted = ?", optionID, question.ID, false).First(&option).Error; err != nil {
			continue
		}

		if option.IsCorrect {
			score += question.Points
			correctCount++
		}
	}

	percentage := 0.0
	if maxScore > 0 {
		percentage = float64(score) / float64(maxScore) * 100
	}
	passed := percentage >= float64(quiz.PassingScore)

	completion, err := utils.RecordQuizCompletion(userID, quiz.ID, quiz.ModuleID, score, maxScore, passed)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record quiz completion!", nil)
	}

	// Log the attempt as a quiz activity so it counts towards module progress
	syntheticID := fmt.Sprintf("quiz-%d", quiz.ID)
	if _, err := utils.TrackUserActivity(userID, quiz.ModuleID, syntheticID, progressModels.ActivityQuizAttempt, 0, percentage, map[string]interface{}{
		"quiz_id": quiz.ID,
		"score":   score,
		"passed":  passed,
	}); err != nil {
		log.Printf("Failed to track quiz activity for user %d quiz %d: %v", userID, quiz.ID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully!", fiber.Map{
		"score":         score,
		"max_score":     maxScore,
		"percentage":    percentage,
		"passed":        passed,
		"correct_count": correctCount,
		"completion":    completion,
	})
}
