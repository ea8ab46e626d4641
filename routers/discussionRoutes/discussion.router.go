package discussionRoutes

import (
	discussionControllers "lms/controllers/discussion"
	"lms/middleware"
	discussionValidators "lms/validators/discussion"

	"github.com/gofiber/fiber/v2"
)

// SetupDiscussionRoutes sets up per-course discussion routes
func SetupDiscussionRoutes(app *fiber.App) {
	discussionGroup := app.Group("/discussion", middleware.JWTMiddleware)

	// Threads
	discussionGroup.Post("/course/:courseId/thread", discussionValidators.CourseParam(), discussionValidators.CreateThread(), discussionControllers.CreateThread)
	discussionGroup.Get("/course/:courseId/threads", discussionValidators.CourseParam(), discussionControllers.GetCourseThreads)
	discussionGroup.Get("/thread/:threadId", discussionValidators.ThreadParam(), discussionControllers.GetThread)

	// Replies
	discussionGroup.Post("/thread/:threadId/reply", discussionValidators.ThreadParam(), discussionValidators.CreateReply(), discussionControllers.CreateReply)

	// Votes
	discussionGroup.Post("/thread/:threadId/vote", discussionValidators.ThreadParam(), discussionValidators.Vote(), discussionControllers.VoteThread)
	discussionGroup.Post("/reply/:replyId/vote", discussionValidators.ReplyParam(), discussionValidators.Vote(), discussionControllers.VoteReply)

	// Moderation
	discussionGroup.Patch("/thread/:threadId/pin", middleware.RequireRoles("INSTRUCTOR", "ADMIN"), discussionValidators.ThreadParam(), discussionControllers.PinThread)
	discussionGroup.Patch("/thread/:threadId/lock", middleware.RequireRoles("INSTRUCTOR", "ADMIN"), discussionValidators.ThreadParam(), discussionControllers.LockThread)
}
