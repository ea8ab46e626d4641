package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Prefix used by the frontend for quiz-backed synthetic material ids
const syntheticQuizMaterialPrefix = "quiz-"

var (
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrModuleNotFound     = errors.New("module not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrNotEnrollmentOwner = errors.New("enrollment does not belong to this user")
)

// ValidationFailedError is returned when a completion attempt does not meet
// the module's requirements. Reason carries the validator's failure strings.
type ValidationFailedError struct {
	Reason string
}

func (e *ValidationFailedError) Error() string {
	return "Module completion requirements not met: " + e.Reason
}

// TrackUserActivity appends one activity record. Synthetic quiz material ids
// ("quiz-<id>") are nulled out in the stored material reference and preserved
// under metadata, keeping the materials foreign key intact while coverage
// accounting can still recognize them.
func TrackUserActivity(userID, moduleID uint, materialID, activityType string, duration int, progressPct float64, metadata map[string]interface{}) (*progressModels.UserActivity, error) {
	db := database.Database.Db

	if metadata == nil {
		metadata = make(map[string]interface{})
	}

	var materialRef *uint
	if materialID != "" {
		if strings.HasPrefix(materialID, syntheticQuizMaterialPrefix) {
			metadata["original_material_id"] = materialID
		} else {
			id, err := strconv.ParseUint(materialID, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid material id %q", materialID)
			}
			uid := uint(id)
			materialRef = &uid
		}
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}

	activity := progressModels.UserActivity{
		UserID:       userID,
		ModuleID:     moduleID,
		MaterialID:   materialRef,
		ActivityType: activityType,
		Duration:     duration,
		Progress:     progressPct,
		Metadata:     datatypes.JSON(metaJSON),
	}

	if err := db.Create(&activity).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// UpdateVideoProgress upserts the (user, material) video progress row.
// IsCompleted flips at watched >= 100 regardless of any configured minimum
// watch percentage. Monotonicity is not enforced; callers are expected to
// send non-decreasing values.
func UpdateVideoProgress(userID, materialID, moduleID uint, currentTime, duration, watchedPercentage float64) (*progressModels.VideoProgress, error) {
	db := database.Database.Db
	now := time.Now()

	var vp progressModels.VideoProgress
	if err := db.Where("user_id = ? AND material_id = ?", userID, materialID).First(&vp).Error; err != nil {
		vp = progressModels.VideoProgress{
			UserID:            userID,
			MaterialID:        materialID,
			ModuleID:          moduleID,
			CurrentTime:       currentTime,
			Duration:          duration,
			WatchedPercentage: watchedPercentage,
			IsCompleted:       watchedPercentage >= 100,
			LastWatchedAt:     now,
		}
		if err := db.Create(&vp).Error; err != nil {
			return nil, err
		}
		return &vp, nil
	}

	vp.ModuleID = moduleID
	vp.CurrentTime = currentTime
	vp.Duration = duration
	vp.WatchedPercentage = watchedPercentage
	vp.IsCompleted = watchedPercentage >= 100
	vp.LastWatchedAt = now

	if err := db.Save(&vp).Error; err != nil {
		return nil, err
	}
	return &vp, nil
}

// RecordQuizCompletion upserts the (user, quiz) completion with the latest
// attempt's result, bumping the attempts counter. A passed attempt
// unconditionally marks the quiz's linked module as completed, bypassing the
// completion validator.
func RecordQuizCompletion(userID, quizID, moduleID uint, score, maxScore int, passed bool) (*progressModels.QuizCompletion, error) {
	db := database.Database.Db
	now := time.Now()

	var qc progressModels.QuizCompletion
	if err := db.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&qc).Error; err != nil {
		qc = progressModels.QuizCompletion{
			UserID:      userID,
			QuizID:      quizID,
			ModuleID:    moduleID,
			Score:       score,
			MaxScore:    maxScore,
			Passed:      passed,
			Attempts:    1,
			CompletedAt: now,
		}
		if err := db.Create(&qc).Error; err != nil {
			return nil, err
		}
	} else {
		qc.ModuleID = moduleID
		qc.Score = score
		qc.MaxScore = maxScore
		qc.Passed = passed
		qc.Attempts++
		qc.CompletedAt = now
		if err := db.Save(&qc).Error; err != nil {
			return nil, err
		}
	}

	if passed {
		if err := autoCompleteModuleForQuiz(userID, quizID, moduleID); err != nil {
			log.Printf("Failed to auto-complete module %d after quiz %d pass: %v", moduleID, quizID, err)
		}
	}

	return &qc, nil
}

// autoCompleteModuleForQuiz resolves the user's enrollment for the quiz's
// course and marks the linked module completed.
func autoCompleteModuleForQuiz(userID, quizID, moduleID uint) error {
	db := database.Database.Db

	var quiz courseModels.Quiz
	if err := db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return ErrQuizNotFound
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, quiz.CourseID, false).First(&enrollment).Error; err != nil {
		return ErrEnrollmentNotFound
	}

	_, err := upsertModuleProgress(enrollment.ID, moduleID, nil, "Quiz passed")
	return err
}

// upsertModuleProgress creates or updates the (enrollment, module) completion
// record with completed=true.
func upsertModuleProgress(enrollmentID, moduleID uint, completedBy *uint, reason string) (*progressModels.ModuleProgress, error) {
	db := database.Database.Db
	now := time.Now()

	var mp progressModels.ModuleProgress
	if err := db.Where("enrollment_id = ? AND module_id = ?", enrollmentID, moduleID).First(&mp).Error; err != nil {
		mp = progressModels.ModuleProgress{
			EnrollmentID:     enrollmentID,
			ModuleID:         moduleID,
			Completed:        true,
			CompletedAt:      &now,
			CompletedBy:      completedBy,
			CompletionReason: reason,
		}
		if err := db.Create(&mp).Error; err != nil {
			return nil, err
		}
		return &mp, nil
	}

	mp.Completed = true
	mp.CompletedAt = &now
	mp.CompletedBy = completedBy
	mp.CompletionReason = reason

	if err := db.Save(&mp).Error; err != nil {
		return nil, err
	}
	return &mp, nil
}

// MarkModuleCompleted records module completion for an enrollment. Without
// forceComplete the enrollment must belong to userID and the completion
// validator must approve; with forceComplete both gates are intentionally
// bypassed (an instructor completing on behalf of a student) and CompletedBy
// records who forced it.
func MarkModuleCompleted(enrollmentID, moduleID, userID uint, forceComplete bool, completionReason string) (*progressModels.ModuleProgress, error) {
	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return nil, ErrEnrollmentNotFound
	}

	if !forceComplete && enrollment.UserID != userID {
		return nil, ErrNotEnrollmentOwner
	}

	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return nil, ErrModuleNotFound
	}

	if !forceComplete {
		result, err := ValidateModuleCompletion(userID, enrollmentID, moduleID, false, false)
		if err != nil {
			return nil, err
		}
		if !result.CanComplete {
			return nil, &ValidationFailedError{Reason: result.Reason}
		}
	}

	var completedBy *uint
	if forceComplete {
		completedBy = &userID
	}

	return upsertModuleProgress(enrollmentID, moduleID, completedBy, completionReason)
}

// MarkCourseCompleted is an administrative bulk shortcut: it completes every
// module of the course and records every quiz as passed with a synthetic
// 100/100 score, bypassing both the validator and the quiz submission path.
func MarkCourseCompleted(enrollmentID, userID uint) error {
	db := database.Database.Db
	now := time.Now()

	var enrollment courseModels.Enrollment
	if err := db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return ErrEnrollmentNotFound
	}
	if enrollment.UserID != userID {
		return ErrNotEnrollmentOwner
	}

	var modules []courseModels.Module
	db.Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).Find(&modules)

	for _, m := range modules {
		if _, err := upsertModuleProgress(enrollmentID, m.ID, nil, "Course marked as completed"); err != nil {
			return err
		}
	}

	var quizzes []courseModels.Quiz
	db.Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).Find(&quizzes)

	for _, q := range quizzes {
		var qc progressModels.QuizCompletion
		if err := db.Where("user_id = ? AND quiz_id = ?", userID, q.ID).First(&qc).Error; err != nil {
			qc = progressModels.QuizCompletion{
				UserID:      userID,
				QuizID:      q.ID,
				ModuleID:    q.ModuleID,
				Score:       100,
				MaxScore:    100,
				Passed:      true,
				Attempts:    1,
				CompletedAt: now,
			}
			if err := db.Create(&qc).Error; err != nil {
				return err
			}
			continue
		}
		qc.Score = 100
		qc.MaxScore = 100
		qc.Passed = true
		qc.CompletedAt = now
		if err := db.Save(&qc).Error; err != nil {
			return err
		}
	}

	return nil
}

// CourseProgress is the derived, never persisted, whole-course aggregate
type CourseProgress struct {
	EnrollmentID      uint    `json:"enrollment_id"`
	CourseID          uint    `json:"course_id"`
	TotalModules      int     `json:"total_modules"`
	CompletedModules  int     `json:"completed_modules"`
	ModuleProgress    float64 `json:"module_progress"`
	TotalQuizzes      int     `json:"total_quizzes"`
	PassedQuizzes     int     `json:"passed_quizzes"`
	QuizProgress      float64 `json:"quiz_progress"`
	OverallProgress   float64 `json:"overall_progress"`
	IsCourseCompleted bool    `json:"is_course_completed"`
}

// GetCourseProgress computes the whole-course aggregate for an enrollment.
// When the course turns out fully completed it triggers certificate issuance
// and notification mail; those side effects are best-effort and never fail
// the read (the certificate check makes re-runs idempotent).
func GetCourseProgress(enrollmentID, userID uint) (*CourseProgress, error) {
	db := database.Database.Db

	var enrollment courseModels.Enrollment
	if err := db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return nil, ErrEnrollmentNotFound
	}
	if enrollment.UserID != userID {
		return nil, ErrNotEnrollmentOwner
	}

	cp := &CourseProgress{
		EnrollmentID: enrollmentID,
		CourseID:     enrollment.CourseID,
	}

	var totalModules int64
	db.Model(&courseModels.Module{}).Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).Count(&totalModules)
	cp.TotalModules = int(totalModules)

	var completedModules int64
	db.Model(&progressModels.ModuleProgress{}).Where("enrollment_id = ? AND completed = ?", enrollmentID, true).Count(&completedModules)
	cp.CompletedModules = int(completedModules)

	// Published quizzes only, matching the validator's denominator; a draft
	// quiz must not hold course completion open.
	var quizIDs []uint
	db.Model(&courseModels.Quiz{}).Where("course_id = ? AND is_deleted = ? AND is_published = ?", enrollment.CourseID, false, true).Pluck("id", &quizIDs)
	cp.TotalQuizzes = len(quizIDs)

	if len(quizIDs) > 0 {
		var passedQuizzes int64
		db.Model(&progressModels.QuizCompletion{}).Where("user_id = ? AND quiz_id IN ? AND passed = ?", userID, quizIDs, true).Count(&passedQuizzes)
		cp.PassedQuizzes = int(passedQuizzes)
	}

	if cp.TotalModules > 0 {
		cp.ModuleProgress = float64(cp.CompletedModules) / float64(cp.TotalModules) * 100
	}
	if cp.TotalQuizzes > 0 {
		cp.QuizProgress = float64(cp.PassedQuizzes) / float64(cp.TotalQuizzes) * 100
	}

	// Simple average of the two, not weighted by count
	cp.OverallProgress = (cp.ModuleProgress + cp.QuizProgress) / 2

	// Strict equality of counts, not a percentage threshold. A course with
	// no modules has nothing to complete and never counts as finished.
	cp.IsCourseCompleted = cp.TotalModules > 0 &&
		cp.CompletedModules == cp.TotalModules && cp.PassedQuizzes == cp.TotalQuizzes

	if cp.IsCourseCompleted {
		triggerCourseCompletionSideEffects(enrollmentID, userID)
	}

	return cp, nil
}

// triggerCourseCompletionSideEffects issues the completion certificate and
// sends the notification mails. Every error is logged and swallowed: the
// progress state is the source of truth and must never be rolled back for a
// failed side effect.
func triggerCourseCompletionSideEffects(enrollmentID, userID uint) {
	cert, err := GenerateCertificateForCourseCompletion(enrollmentID, userID)
	if err != nil {
		log.Printf("Certificate generation failed for enrollment %d: %v", enrollmentID, err)
		return
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		log.Printf("Could not load user %d for completion notification: %v", userID, err)
		return
	}

	var course courseModels.Course
	if err := db.Where("id = ?", cert.CourseID).First(&course).Error; err != nil {
		log.Printf("Could not load course %d for completion notification: %v", cert.CourseID, err)
		return
	}

	SendCourseCompletionEmail(user.Email, user.Name, course.Title)
	SendAdminCompletionNotification(user.Name, user.Email, course.Title)
}
