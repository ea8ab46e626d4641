package userRoutes

import (
	userControllers "lms/controllers/userControllers"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user", middleware.JWTMiddleware)

	userGroup.Get("/profile", userControllers.GetProfile)
	userGroup.Patch("/profile", userControllers.UpdateProfile)
	userGroup.Post("/profile/avatar", userControllers.UploadAvatar)
}
