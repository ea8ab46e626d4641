package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// instructorForRequest loads the current user and rejects anyone who is not
// an instructor or admin. Returns nil when a response has already been sent.
func instructorForRequest(c *fiber.Ctx) *models.User {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		return nil
	}

	if user.Role != "INSTRUCTOR" && user.Role != "ADMIN" {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
		return nil
	}

	return &user
}

// courseForInstructor loads a course and checks the caller owns it.
// Admins can manage any course.
func courseForInstructor(c *fiber.Ctx, user *models.User, courseID int) *courseModels.Course {
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		return nil
	}

	if user.Role != "ADMIN" && course.InstructorID != user.ID {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only manage your own courses!", nil)
		return nil
	}

	return &course
}

// CreateCourse creates a new draft course owned by the current instructor
func CreateCourse(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedCreateCourse").(*struct {
		Title        string `json:"title" validate:"required,min=3,max=200"`
		Description  string `json:"description"`
		Category     string `json:"category"`
		Level        string `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
		Duration     int64  `json:"duration"`
		ThumbnailURL string `json:"thumbnail_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		InstructorID: user.ID,
		Category:     reqData.Category,
		Level:        reqData.Level,
		Duration:     reqData.Duration,
		Status:       "DRAFT",
		ThumbnailURL: reqData.ThumbnailURL,
	}
	if course.Level == "" {
		course.Level = "BEGINNER"
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", fiber.Map{
		"course": course,
	})
}

// UpdateCourse updates only the provided fields of a course
func UpdateCourse(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	course := courseForInstructor(c, user, courseID)
	if course == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedUpdateCourse").(*struct {
		Title        *string `json:"title" validate:"omitempty,min=3,max=200"`
		Description  *string `json:"description"`
		Category     *string `json:"category"`
		Level        *string `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
		Duration     *int64  `json:"duration"`
		Status       *string `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE INACTIVE"`
		ThumbnailURL *string `json:"thumbnail_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields
	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Category != nil {
		course.Category = *reqData.Category
	}
	if reqData.Level != nil {
		course.Level = *reqData.Level
	}
	if reqData.Duration != nil {
		course.Duration = *reqData.Duration
	}
	if reqData.Status != nil {
		course.Status = *reqData.Status
	}
	if reqData.ThumbnailURL != nil {
		course.ThumbnailURL = *reqData.ThumbnailURL
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", fiber.Map{
		"course": course,
	})
}

// PublishCourse marks a course published and active so students can enroll
func PublishCourse(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	course := courseForInstructor(c, user, courseID)
	if course == nil {
		return nil
	}

	course.IsPublished = true
	course.Status = "ACTIVE"

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published successfully!", fiber.Map{
		"course": course,
	})
}

// DeleteCourse soft-deletes a course
func DeleteCourse(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	course := courseForInstructor(c, user, courseID)
	if course == nil {
		return nil
	}

	course.IsDeleted = true
	course.IsPublished = false
	course.Status = "INACTIVE"

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// GetInstructorCourses lists all courses owned by the current instructor.
// Admins see every course including drafts.
func GetInstructorCourses(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	db := database.Database.Db.Where("is_deleted = ?", false)
	if user.Role != "ADMIN" {
		db = db.Where("instructor_id = ?", user.ID)
	}

	var courses []courseModels.Course
	if err := db.Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}
