package utils

import (
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeMaintenanceScheduler sets up the daily maintenance jobs
func InitializeMaintenanceScheduler() {
	log.Println("[MAINTENANCE-SCHEDULER] Initializing maintenance scheduler...")

	c := cron.New()

	// Run daily at 2 AM to purge expired OTPs
	c.AddFunc("0 2 * * *", func() {
		log.Println("[MAINTENANCE-SCHEDULER] Running daily OTP cleanup...")
		CleanupExpiredOTPs()
	})

	// Run daily at 9 AM to remind inactive learners
	c.AddFunc("0 9 * * *", func() {
		log.Println("[MAINTENANCE-SCHEDULER] Running daily enrollment reminder check...")
		SendEnrollmentReminders()
	})

	c.Start()
	log.Println("[MAINTENANCE-SCHEDULER] Maintenance scheduler started")
}

// CleanupExpiredOTPs soft-deletes OTP rows past their expiry
func CleanupExpiredOTPs() {
	db := database.Database.Db

	result := db.Model(&models.OTP{}).
		Where("expires_at < ? AND is_deleted = ?", time.Now(), false).
		Update("is_deleted", true)
	if result.Error != nil {
		log.Printf("[MAINTENANCE-SCHEDULER] Error cleaning up OTPs: %v", result.Error)
		return
	}

	log.Printf("[MAINTENANCE-SCHEDULER] Cleaned up %d expired OTPs", result.RowsAffected)
}

// SendEnrollmentReminders emails learners whose enrollment has had no tracked
// activity for 14 days and is not yet fully completed.
func SendEnrollmentReminders() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -14)

	var enrollments []courseModels.Enrollment
	if err := db.Where("is_deleted = ? AND created_at < ?", false, cutoff).Find(&enrollments).Error; err != nil {
		log.Printf("[MAINTENANCE-SCHEDULER] Error fetching enrollments: %v", err)
		return
	}

	for _, enrollment := range enrollments {
		var moduleIDs []uint
		db.Model(&courseModels.Module{}).Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).Pluck("id", &moduleIDs)
		if len(moduleIDs) == 0 {
			continue
		}

		// Skip enrollments with recent activity
		var recent int64
		db.Model(&progressModels.UserActivity{}).
			Where("user_id = ? AND module_id IN ? AND created_at > ?", enrollment.UserID, moduleIDs, cutoff).
			Count(&recent)
		if recent > 0 {
			continue
		}

		// Skip fully completed enrollments
		var completed int64
		db.Model(&progressModels.ModuleProgress{}).
			Where("enrollment_id = ? AND completed = ?", enrollment.ID, true).
			Count(&completed)
		if int(completed) == len(moduleIDs) {
			continue
		}

		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", enrollment.UserID, false).First(&user).Error; err != nil {
			log.Printf("[MAINTENANCE-SCHEDULER] Error fetching user %d: %v", enrollment.UserID, err)
			continue
		}

		var course courseModels.Course
		if err := db.Where("id = ?", enrollment.CourseID).First(&course).Error; err != nil {
			continue
		}

		SendEnrollmentReminderEmail(user.Email, user.Name, course.Title)
		log.Printf("[MAINTENANCE-SCHEDULER] Sent reminder for enrollment %d to %s", enrollment.ID, user.Email)
	}
}
