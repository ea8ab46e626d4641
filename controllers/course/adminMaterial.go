package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateMaterial adds a material to a module
func CreateMaterial(c *fiber.Ctx) error {
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

	reqData, ok := c.Locals("validatedCreateMaterial").(*struct {
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
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	material := courseModels.Material{
		CourseID:    course.ID,
		ModuleID:    module.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: reqData.ContentType,
		TextContent: reqData.TextContent,
		VideoURL:    reqData.VideoURL,
		FileURL:     reqData.FileURL,
		ExternalURL: reqData.ExternalURL,
		Duration:    reqData.Duration,
		OrderIndex:  reqData.OrderIndex,
	}

	if err := database.Database.Db.Create(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Material created successfully!", fiber.Map{
		"material": material,
	})
}

// UpdateMaterial updates only the provided fields of a material
func UpdateMaterial(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	materialID := c.Locals("materialID").(int)

	var material courseModels.Material
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", materialID, false).First(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	course := courseForInstructor(c, user, int(material.CourseID))
	if course == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedUpdateMaterial").(*struct {
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
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != nil {
		material.Title = *reqData.Title
	}
	if reqData.Description != nil {
		material.Description = *reqData.Description
	}
	if reqData.ContentType != nil {
		material.ContentType = *reqData.ContentType
	}
	if reqData.TextContent != nil {
		material.TextContent = *reqData.TextContent
	}
	if reqData.VideoURL != nil {
		material.VideoURL = *reqData.VideoURL
	}
	if reqData.FileURL != nil {
		material.FileURL = *reqData.FileURL
	}
	if reqData.ExternalURL != nil {
		material.ExternalURL = *reqData.ExternalURL
	}
	if reqData.Duration != nil {
		material.Duration = *reqData.Duration
	}
	if reqData.OrderIndex != nil {
		material.OrderIndex = *reqData.OrderIndex
	}

	if err := database.Database.Db.Save(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material updated successfully!", fiber.Map{
		"material": material,
	})
}

// PublishMaterial makes a material visible to enrolled students
func PublishMaterial(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	materialID := c.Locals("materialID").(int)

	var material courseModels.Material
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", materialID, false).First(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	course := courseForInstructor(c, user, int(material.CourseID))
	if course == nil {
		return nil
	}

	material.IsPublished = true
	if err := database.Database.Db.Save(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material published successfully!", fiber.Map{
		"material": material,
	})
}

// DeleteMaterial soft-deletes a material
func DeleteMaterial(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	materialID := c.Locals("materialID").(int)

	var material courseModels.Material
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", materialID, false).First(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	course := courseForInstructor(c, user, int(material.CourseID))
	if course == nil {
		return nil
	}

	material.IsDeleted = true
	material.IsPublished = false
	if err := database.Database.Db.Save(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material deleted successfully!", nil)
}
