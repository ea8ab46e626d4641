package courseRoutes

import (
	courseControllers "lms/controllers/course"
	"lms/middleware"
	courseValidators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog
	courseGroup.Post("/list", middleware.JWTMiddleware, courseValidators.ListQuery(), courseControllers.GetAllCourses)
	courseGroup.Get("/:courseId", middleware.JWTMiddleware, courseValidators.CourseParam(), courseControllers.GetCourseDetails)
	courseGroup.Get("/:courseId/module/:moduleId/materials", middleware.JWTMiddleware, courseValidators.CourseModuleParams(), courseControllers.GetModuleMaterials)

	// Enrollment
	courseGroup.Post("/:courseId/enroll", middleware.JWTMiddleware, courseValidators.CourseParam(), courseControllers.EnrollInCourse)
	courseGroup.Get("/enrollments/my", middleware.JWTMiddleware, courseControllers.GetEnrollments)

	// Quizzes
	courseGroup.Get("/:courseId/quizzes", middleware.JWTMiddleware, courseValidators.CourseParam(), courseControllers.GetCourseQuizzes)
	courseGroup.Get("/quiz/:quizId", middleware.JWTMiddleware, courseValidators.QuizParam(), courseControllers.GetQuiz)
	courseGroup.Post("/quiz/:quizId/submit", middleware.JWTMiddleware, courseValidators.QuizParam(), courseValidators.QuizSubmission(), courseControllers.SubmitQuiz)

	// Certificates
	courseGroup.Get("/certificates/my", middleware.JWTMiddleware, courseControllers.GetUserCertificates)
	courseGroup.Get("/certificate/verify/:number", courseControllers.VerifyCertificate)
}

// SetupAdminCourseRoutes sets up instructor and admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.RequireRoles("INSTRUCTOR", "ADMIN"))

	// Courses
	adminGroup.Post("/create", courseValidators.CreateCourse(), courseControllers.CreateCourse)
	adminGroup.Get("/list", courseControllers.GetInstructorCourses)
	adminGroup.Patch("/:courseId", courseValidators.CourseParam(), courseValidators.UpdateCourse(), courseControllers.UpdateCourse)
	adminGroup.Patch("/:courseId/publish", courseValidators.CourseParam(), courseControllers.PublishCourse)
	adminGroup.Delete("/:courseId", courseValidators.CourseParam(), courseControllers.DeleteCourse)

	// Modules
	adminGroup.Post("/:courseId/module", courseValidators.CourseParam(), courseValidators.CreateModule(), courseControllers.CreateModule)
	adminGroup.Patch("/module/:moduleId", courseValidators.ModuleParam(), courseValidators.UpdateModule(), courseControllers.UpdateModule)
	adminGroup.Delete("/module/:moduleId", courseValidators.ModuleParam(), courseControllers.DeleteModule)

	// Materials
	adminGroup.Post("/module/:moduleId/material", courseValidators.ModuleParam(), courseValidators.CreateMaterial(), courseControllers.CreateMaterial)
	adminGroup.Patch("/material/:materialId", courseValidators.MaterialParam(), courseValidators.UpdateMaterial(), courseControllers.UpdateMaterial)
	adminGroup.Patch("/material/:materialId/publish", courseValidators.MaterialParam(), courseControllers.PublishMaterial)
	adminGroup.Delete("/material/:materialId", courseValidators.MaterialParam(), courseControllers.DeleteMaterial)

	// Quizzes
	adminGroup.Post("/:courseId/quiz", courseValidators.CourseParam(), courseValidators.CreateQuiz(), courseControllers.CreateQuiz)
	adminGroup.Post("/quiz/:quizId/question", courseValidators.QuizParam(), courseValidators.AddQuestion(), courseControllers.AddQuizQuestion)
	adminGroup.Patch("/quiz/:quizId/publish", courseValidators.QuizParam(), courseControllers.PublishQuiz)
	adminGroup.Delete("/quiz/:quizId", courseValidators.QuizParam(), courseControllers.DeleteQuiz)

	// Dashboard
	adminGroup.Get("/dashboard/stats", courseControllers.DashboardStats)
	adminGroup.Get("/:courseId/enrollments", courseValidators.CourseParam(), courseControllers.CourseEnrollments)
	adminGroup.Get("/enrollment/:enrollmentId/progress", courseValidators.EnrollmentParam(), courseControllers.StudentModuleProgress)
	adminGroup.Get("/certificates/issued", courseControllers.IssuedCertificates)
}
