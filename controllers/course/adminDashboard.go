package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// DashboardStats returns platform-wide counts for admins and
// per-instructor counts for instructors.
func DashboardStats(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	courseQuery := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if user.Role != "ADMIN" {
		courseQuery = courseQuery.Where("instructor_id = ?", user.ID)
	}

	var totalCourses int64
	courseQuery.Count(&totalCourses)

	// Course ids in scope, used to restrict the remaining counts
	var courseIDs []uint
	idQuery := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if user.Role != "ADMIN" {
		idQuery = idQuery.Where("instructor_id = ?", user.ID)
	}
	idQuery.Pluck("id", &courseIDs)

	var totalEnrollments int64
	var totalCertificates int64
	if len(courseIDs) > 0 {
		database.Database.Db.Model(&courseModels.Enrollment{}).
			Where("course_id IN ? AND is_deleted = ?", courseIDs, false).Count(&totalEnrollments)
		database.Database.Db.Model(&courseModels.Certificate{}).
			Where("course_id IN ? AND is_deleted = ?", courseIDs, false).Count(&totalCertificates)
	}

	stats := fiber.Map{
		"total_courses":      totalCourses,
		"total_enrollments":  totalEnrollments,
		"total_certificates": totalCertificates,
	}

	if user.Role == "ADMIN" {
		var totalUsers int64
		database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
		stats["total_users"] = totalUsers
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", stats)
}

// CourseEnrollments lists who is enrolled in a course with their progress
func CourseEnrollments(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	courseID := c.Locals("courseID").(int)
	course := courseForInstructor(c, user, courseID)
	if course == nil {
		return nil
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	enriched := make([]map[string]interface{}, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var student models.User
		database.Database.Db.Select("id", "name", "email").Where("id = ?", enrollment.UserID).First(&student)

		entry := map[string]interface{}{
			"enrollment": enrollment,
			"student": fiber.Map{
				"id":    student.ID,
				"name":  student.Name,
				"email": student.Email,
			},
		}

		if progress, err := utils.GetCourseProgress(enrollment.ID, enrollment.UserID); err == nil {
			entry["progress"] = progress
		}

		enriched = append(enriched, entry)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course enrollments fetched successfully!", fiber.Map{
		"course":      course,
		"enrollments": enriched,
	})
}

// StudentModuleProgress shows per-module completion of one enrollment,
// so instructors can see exactly where a student is stuck.
func StudentModuleProgress(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	course := courseForInstructor(c, user, int(enrollment.CourseID))
	if course == nil {
		return nil
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", course.ID, false).Order("order_index asc").Find(&modules)

	moduleStates := make([]map[string]interface{}, 0, len(modules))
	for _, module := range modules {
		var record progressModels.ModuleProgress
		completed := database.Database.Db.Where("enrollment_id = ? AND module_id = ?", enrollment.ID, module.ID).
			First(&record).Error == nil && record.Completed

		state := map[string]interface{}{
			"module_id": module.ID,
			"title":     module.Title,
			"completed": completed,
		}
		if completed {
			state["completed_at"] = record.CompletedAt
			state["completion_reason"] = record.CompletionReason
		}

		moduleStates = append(moduleStates, state)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", fiber.Map{
		"enrollment": enrollment,
		"modules":    moduleStates,
	})
}

// IssuedCertificates lists certificates issued for the instructor's courses
func IssuedCertificates(c *fiber.Ctx) error {
	user := instructorForRequest(c)
	if user == nil {
		return nil
	}

	db := database.Database.Db.Model(&courseModels.Certificate{}).Where("certificates.is_deleted = ?", false)
	if user.Role != "ADMIN" {
		var courseIDs []uint
		database.Database.Db.Model(&courseModels.Course{}).
			Where("instructor_id = ? AND is_deleted = ?", user.ID, false).Pluck("id", &courseIDs)
		if len(courseIDs) == 0 {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
				"certificates": []courseModels.Certificate{},
			})
		}
		db = db.Where("course_id IN ?", courseIDs)
	}

	var certificates []courseModels.Certificate
	if err := db.Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
	})
}
