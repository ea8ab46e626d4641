package discussionController

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	discussionModels "lms/models/discussion"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// requireEnrolledOrStaff checks that the user is enrolled in the course, or
// is the course instructor or an admin. Returns nil when a response has
// already been sent.
func requireEnrolledOrStaff(c *fiber.Ctx, courseID uint) *models.User {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		return nil
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		return nil
	}

	if user.Role == "ADMIN" {
		return &user
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		return nil
	}

	if course.InstructorID == user.ID {
		return &user
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", user.ID, courseID, false).First(&enrollment).Error; err != nil {
		middleware.JsonResponse(c, fiber.StatusForbidden, false, "Please enroll in this course first!", nil)
		return nil
	}

	return &user
}

// CreateThread opens a new discussion thread in a course
func CreateThread(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	user := requireEnrolledOrStaff(c, uint(courseID))
	if user == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedCreateThread").(*struct {
		Title string `json:"title" validate:"required,min=3,max=200"`
		Body  string `json:"body" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	thread := discussionModels.Thread{
		CourseID: uint(courseID),
		UserID:   user.ID,
		Title:    reqData.Title,
		Body:     reqData.Body,
	}

	if err := database.Database.Db.Create(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create thread!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Thread created successfully!", fiber.Map{
		"thread": thread,
	})
}

// GetCourseThreads lists threads of a course, pinned first
func GetCourseThreads(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	user := requireEnrolledOrStaff(c, uint(courseID))
	if user == nil {
		return nil
	}

	var threads []discussionModels.Thread
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("is_pinned desc, created_at desc").Find(&threads).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch threads!", nil)
	}

	enriched := make([]map[string]interface{}, 0, len(threads))
	for _, thread := range threads {
		var replyCount int64
		database.Database.Db.Model(&discussionModels.Reply{}).Where("thread_id = ? AND is_deleted = ?", thread.ID, false).Count(&replyCount)

		var score int64
		database.Database.Db.Model(&discussionModels.Vote{}).
			Where("thread_id = ? AND is_deleted = ?", thread.ID, false).
			Select("COALESCE(SUM(value),0)").Scan(&score)

		enriched = append(enriched, map[string]interface{}{
			"thread":      thread,
			"reply_count": replyCount,
			"score":       score,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Threads fetched successfully!", fiber.Map{
		"threads": enriched,
	})
}

// GetThread returns a thread with its replies and vote scores
func GetThread(c *fiber.Ctx) error {
	threadID := c.Locals("threadID").(int)

	var thread discussionModels.Thread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	user := requireEnrolledOrStaff(c, thread.CourseID)
	if user == nil {
		return nil
	}

	var replies []discussionModels.Reply
	database.Database.Db.Where("thread_id = ? AND is_deleted = ?", thread.ID, false).Order("created_at asc").Find(&replies)

	replyViews := make([]map[string]interface{}, 0, len(replies))
	for _, reply := range replies {
		var score int64
		database.Database.Db.Model(&discussionModels.Vote{}).
			Where("reply_id = ? AND is_deleted = ?", reply.ID, false).
			Select("COALESCE(SUM(value),0)").Scan(&score)

		var author models.User
		database.Database.Db.Select("id", "name").Where("id = ?", reply.UserID).First(&author)

		replyViews = append(replyViews, map[string]interface{}{
			"reply":       reply,
			"author_name": author.Name,
			"score":       score,
		})
	}

	var threadScore int64
	database.Database.Db.Model(&discussionModels.Vote{}).
		Where("thread_id = ? AND is_deleted = ?", thread.ID, false).
		Select("COALESCE(SUM(value),0)").Scan(&threadScore)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thread fetched successfully!", fiber.Map{
		"thread":  thread,
		"score":   threadScore,
		"replies": replyViews,
	})
}

// CreateReply posts a reply into a thread
func CreateReply(c *fiber.Ctx) error {
	threadID := c.Locals("threadID").(int)

	var thread discussionModels.Thread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	user := requireEnrolledOrStaff(c, thread.CourseID)
	if user == nil {
		return nil
	}

	if thread.IsLocked {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Thread is locked!", nil)
	}

	reqData, ok := c.Locals("validatedCreateReply").(*struct {
		Body string `json:"body" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	reply := discussionModels.Reply{
		ThreadID: thread.ID,
		UserID:   user.ID,
		Body:     reqData.Body,
	}

	if err := database.Database.Db.Create(&reply).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create reply!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Reply posted successfully!", fiber.Map{
		"reply": reply,
	})
}

// VoteThread casts or updates a vote on a thread. Voting the same value
// again removes the vote.
func VoteThread(c *fiber.Ctx) error {
	threadID := c.Locals("threadID").(int)

	var thread discussionModels.Thread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	user := requireEnrolledOrStaff(c, thread.CourseID)
	if user == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedVote").(*struct {
		Value int `json:"value" validate:"required,oneof=-1 1"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	threadRef := thread.ID
	return applyVote(c, discussionModels.Vote{
		UserID:   user.ID,
		ThreadID: &threadRef,
		Value:    reqData.Value,
	}, "thread_id = ?", thread.ID)
}

// VoteReply casts or updates a vote on a reply
func VoteReply(c *fiber.Ctx) error {
	replyID := c.Locals("replyID").(int)

	var reply discussionModels.Reply
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", replyID, false).First(&reply).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Reply not found!", nil)
	}

	var thread discussionModels.Thread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reply.ThreadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	user := requireEnrolledOrStaff(c, thread.CourseID)
	if user == nil {
		return nil
	}

	reqData, ok := c.Locals("validatedVote").(*struct {
		Value int `json:"value" validate:"required,oneof=-1 1"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	replyRef := reply.ID
	return applyVote(c, discussionModels.Vote{
		UserID:  user.ID,
		ReplyID: &replyRef,
		Value:   reqData.Value,
	}, "reply_id = ?", reply.ID)
}

func applyVote(c *fiber.Ctx, vote discussionModels.Vote, targetClause string, targetID uint) error {
	var existing discussionModels.Vote
	err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", vote.UserID, false).
		Where(targetClause, targetID).First(&existing).Error

	switch {
	case err == nil && existing.Value == vote.Value:
		// Same vote again removes it. Hard delete so the unique index
		// does not block a future re-vote.
		if err := database.Database.Db.Unscoped().Delete(&existing).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update vote!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Vote removed.", nil)
	case err == nil:
		existing.Value = vote.Value
		if err := database.Database.Db.Save(&existing).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update vote!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Vote updated.", existing)
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := database.Database.Db.Create(&vote).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record vote!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Vote recorded.", vote)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record vote!", nil)
	}
}

// PinThread toggles the pinned flag. Instructor or admin only.
func PinThread(c *fiber.Ctx) error {
	threadID := c.Locals("threadID").(int)

	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var thread discussionModels.Thread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ?", thread.CourseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if user.Role != "ADMIN" && course.InstructorID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	}

	thread.IsPinned = !thread.IsPinned
	if err := database.Database.Db.Save(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update thread!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thread updated successfully!", thread)
}

// LockThread toggles the locked flag. Instructor or admin only.
func LockThread(c *fiber.Ctx) error {
	threadID := c.Locals("threadID").(int)

	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var thread discussionModels.Thread
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", threadID, false).First(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Thread not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ?", thread.CourseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if user.Role != "ADMIN" && course.InstructorID != user.ID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	}

	thread.IsLocked = !thread.IsLocked
	if err := database.Database.Db.Save(&thread).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update thread!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thread updated successfully!", thread)
}
