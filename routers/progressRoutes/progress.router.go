package progressRoutes

import (
	controllers "lms/controllers/progress"
	"lms/middleware"
	validators "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up all progress tracking and completion routes
func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress")

	// Activity recording primitives
	progressGroup.Post("/track-activity", middleware.JWTMiddleware, validators.TrackActivity(), controllers.TrackActivity)
	progressGroup.Post("/video-progress", middleware.JWTMiddleware, validators.VideoProgress(), controllers.UpdateVideoProgress)
	progressGroup.Post("/quiz-completion", middleware.JWTMiddleware, validators.QuizCompletion(), controllers.SubmitQuizCompletion)

	// Completion
	progressGroup.Post("/mark-completed/:enrollmentId/:moduleId", middleware.JWTMiddleware, validators.EnrollmentModuleParams(), controllers.MarkModuleCompleted)
	progressGroup.Post("/mark-course-completed/:enrollmentId", middleware.JWTMiddleware, validators.EnrollmentParam(), controllers.MarkCourseCompleted)

	// Aggregates and validation
	progressGroup.Get("/course/:enrollmentId", middleware.JWTMiddleware, validators.EnrollmentParam(), controllers.GetCourseProgress)
	progressGroup.Get("/validation/:enrollmentId/:moduleId", middleware.JWTMiddleware, validators.EnrollmentModuleParams(), controllers.GetValidation)

	// Instructor/admin surfaces
	progressGroup.Post("/module/:moduleId/requirements", middleware.JWTMiddleware, middleware.RequireRoles("INSTRUCTOR", "ADMIN"), validators.ModuleRequirements(), controllers.SetModuleRequirements)
	progressGroup.Get("/module/:moduleId/requirements", middleware.JWTMiddleware, validators.ModuleParam(), controllers.GetModuleRequirements)
	progressGroup.Post("/instructor-override/:enrollmentId/:moduleId", middleware.JWTMiddleware, middleware.RequireRoles("INSTRUCTOR", "ADMIN"), validators.EnrollmentModuleParams(), controllers.InstructorOverride)
}
