package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateModule adds a module to a course
func CreateModule(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	course := courseForInstructor(c, user, courseID)
	if course == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedCreateModule").(*struct {
		Title       string `json:"title" validate:"required,min=3,max=200"`
		Description string `json:"description"`
		OrderIndex  int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module := courseModels.Module{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", fiber.Map{
		"module": module,
	})
}

// UpdateModule updates only the provided fields of a module
func UpdateModule(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	course := courseForInstructor(c, user, int(module.CourseID))
	if course == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedUpdateModule").(*struct {
		Title       *string `json:"title" validate:"omitempty,min=3,max=200"`
		Description *string `json:"description"`
		OrderIndex  *int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		module.Title = *reqData.Title
	}
	if reqData.Description != nil {
		module.Description = *reqData.Description
	}
	if reqData.OrderIndex != nil {
		module.OrderIndex = *reqData.OrderIndex
	}

	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", fiber.Map{
		"module": module,
	})
}

// DeleteModule soft-deletes a module
func DeleteModule(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	course := courseForInstructor(c, user, int(module.CourseID))
	if course == nil {
		return nil
	}

	module.IsDeleted = true
	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}
