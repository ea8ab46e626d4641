package utils

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	courseModels "lms/models/course"
	progressModels "lms/models/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackUserActivitySyntheticQuizID(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	module := createTestModule(t, db, course.ID, 1)

	activity, err := TrackUserActivity(student.ID, module.ID, "quiz-42", progressModels.ActivityQuizAttempt, 0, 85, nil)
	require.NoError(t, err)

	assert.Nil(t, activity.MaterialID)

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(activity.Metadata, &meta))
	assert.Equal(t, "quiz-42", meta["original_material_id"])
}

func TestTrackUserActivityNumericMaterialID(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	module := createTestModule(t, db, course.ID, 1)
	material := createTestMaterial(t, db, course.ID, module.ID, courseModels.MaterialTypeText)

	activity, err := TrackUserActivity(student.ID, module.ID, idString(material.ID), progressModels.ActivityMaterialView, 45, 100, map[string]interface{}{"source": "web"})
	require.NoError(t, err)

	require.NotNil(t, activity.MaterialID)
	assert.Equal(t, material.ID, *activity.MaterialID)
	assert.Equal(t, 45, activity.Duration)
}

func TestTrackUserActivityInvalidMaterialID(t *testing.T) {
	setupTestDB(t)

	_, err := TrackUserActivity(1, 1, "not-a-number", progressModels.ActivityMaterialView, 0, 0, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid material id")
}

func TestUpdateVideoProgressUpsert(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	module := createTestModule(t, db, course.ID, 1)
	video := createTestMaterial(t, db, course.ID, module.ID, courseModels.MaterialTypeVideo)

	vp, err := UpdateVideoProgress(student.ID, video.ID, module.ID, 120, 300, 40)
	require.NoError(t, err)
	assert.False(t, vp.IsCompleted)

	vp, err = UpdateVideoProgress(student.ID, video.ID, module.ID, 299.7, 300, 99.9)
	require.NoError(t, err)
	assert.False(t, vp.IsCompleted)

	vp, err = UpdateVideoProgress(student.ID, video.ID, module.ID, 300, 300, 100)
	require.NoError(t, err)
	assert.True(t, vp.IsCompleted)

	var count int64
	db.Model(&progressModels.VideoProgress{}).Where("user_id = ? AND material_id = ?", student.ID, video.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecordQuizCompletionAttemptsAndAutoComplete(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	module := createTestModule(t, db, course.ID, 1)
	enrollment := createTestEnrollment(t, db, student.ID, course.ID)
	quiz := createTestQuiz(t, db, course.ID, module.ID)

	qc, err := RecordQuizCompletion(student.ID, quiz.ID, module.ID, 40, 100, false)
	require.NoError(t, err)
	assert.Equal(t, 1, qc.Attempts)
	assert.False(t, qc.Passed)

	// A failed attempt does not complete the module
	var mp progressModels.ModuleProgress
	err = db.Where("enrollment_id = ? AND module_id = ?", enrollment.ID, module.ID).First(&mp).Error
	assert.Error(t, err)

	// The latest attempt overwrites the stored result and bumps attempts
	qc, err = RecordQuizCompletion(student.ID, quiz.ID, module.ID, 80, 100, true)
	require.NoError(t, err)
	assert.Equal(t, 2, qc.Attempts)
	assert.True(t, qc.Passed)
	assert.Equal(t, 80, qc.Score)

	require.NoError(t, db.Where("enrollment_id = ? AND module_id = ?", enrollment.ID, module.ID).First(&mp).Error)
	assert.True(t, mp.Completed)
	assert.Equal(t, "Quiz passed", mp.CompletionReason)
	assert.Nil(t, mp.CompletedBy)
}

func TestMarkModuleCompletedOwnership(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	other := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	module := createTestModule(t, db, course.ID, 1)
	enrollment := createTestEnrollment(t, db, student.ID, course.ID)

	_, err := MarkModuleCompleted(enrollment.ID, module.ID, other.ID, false, "")
	assert.ErrorIs(t, err, ErrNotEnrollmentOwner)

	// A rejected call must not leave a completion record behind
	var count int64
	db.Model(&progressModels.ModuleProgress{}).Where("enrollment_id = ?", enrollment.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestMarkModuleCompletedValidationFailure(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	module := createTestModule(t, db, course.ID, 1)
	enrollment := createTestEnrollment(t, db, student.ID, course.ID)

	setRequirements(t, db, &progressModels.ModuleRequirements{
		ModuleID:     module.ID,
		MinTimeSpent: 600,
	})

	_, err := MarkModuleCompleted(enrollment.ID, module.ID, student.ID, false, "")
	require.Error(t, err)

	var vErr *ValidationFailedError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Reason, "Insufficient time spent")
}

func TestMarkModuleCompletedForce(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	module := createTestModule(t, db, course.ID, 1)
	enrollment := createTestEnrollment(t, db, student.ID, course.ID)

	setRequirements(t, db, &progressModels.ModuleRequirements{
		ModuleID:     module.ID,
		MinTimeSpent: 600,
	})

	// forceComplete skips both ownership and validation, recording who forced
	mp, err := MarkModuleCompleted(enrollment.ID, module.ID, instructor.ID, true, "Instructor override")
	require.NoError(t, err)

	assert.True(t, mp.Completed)
	require.NotNil(t, mp.CompletedBy)
	assert.Equal(t, instructor.ID, *mp.CompletedBy)
	assert.Equal(t, "Instructor override", mp.CompletionReason)
}

func TestMarkModuleCompletedIdempotent(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	module := createTestModule(t, db, course.ID, 1)
	enrollment := createTestEnrollment(t, db, student.ID, course.ID)

	_, err := MarkModuleCompleted(enrollment.ID, module.ID, student.ID, false, "")
	require.NoError(t, err)
	_, err = MarkModuleCompleted(enrollment.ID, module.ID, student.ID, false, "")
	require.NoError(t, err)

	var count int64
	db.Model(&progressModels.ModuleProgress{}).Where("enrollment_id = ? AND module_id = ?", enrollment.ID, module.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMarkCourseCompleted(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	module1 := createTestModule(t, db, course.ID, 1)
	module2 := createTestModule(t, db, course.ID, 2)
	enrollment := createTestEnrollment(t, db, student.ID, course.ID)
	quiz := createTestQuiz(t, db, course.ID, module2.ID)

	// An existing failed attempt must be overwritten to a synthetic pass
	_, err := RecordQuizCompletion(student.ID, quiz.ID, module2.ID, 30, 100, false)
	require.NoError(t, err)

	require.NoError(t, MarkCourseCompleted(enrollment.ID, student.ID))

	for _, mid := range []uint{module1.ID, module2.ID} {
		var mp progressModels.ModuleProgress
		require.NoError(t, db.Where("enrollment_id = ? AND module_id = ?", enrollment.ID, mid).First(&mp).Error)
		assert.True(t, mp.Completed)
		assert.Equal(t, "Course marked as completed", mp.CompletionReason)
	}

	var qc progressModels.QuizCompletion
	require.NoError(t, db.Where("user_id = ? AND quiz_id = ?", student.ID, quiz.ID).First(&qc).Error)
	assert.True(t, qc.Passed)
	assert.Equal(t, 100, qc.Score)
	assert.Equal(t, 100, qc.MaxScore)
}

func TestMarkCourseCompletedOwnership(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	other := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	enrollment := createTestEnrollment(t, db, student.ID, course.ID)

	assert.ErrorIs(t, MarkCourseCompleted(enrollment.ID, other.ID), ErrNotEnrollmentOwner)
}

func TestGetCourseProgressAggregates(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	module1 := createTestModule(t, db, course.ID, 1)
	module2 := createTestModule(t, db, course.ID, 2)
	enrollment := createTestEnrollment(t, db, student.ID, course.ID)
	quiz1 := createTestQuiz(t, db, course.ID, module1.ID)
	createTestQuiz(t, db, course.ID, module2.ID)

	_, err := MarkModuleCompleted(enrollment.ID, module1.ID, student.ID, false, "")
	require.NoError(t, err)
	_, err = RecordQuizCompletion(student.ID, quiz1.ID, module1.ID, 90, 100, true)
	require.NoError(t, err)

	cp, err := GetCourseProgress(enrollment.ID, student.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, cp.TotalModules)
	assert.Equal(t, 1, cp.CompletedModules)
	assert.InDelta(t, 50.0, cp.ModuleProgress, 0.001)
	assert.Equal(t, 2, cp.TotalQuizzes)
	assert.Equal(t, 1, cp.PassedQuizzes)
	assert.InDelta(t, 50.0, cp.QuizProgress, 0.001)
	assert.InDelta(t, 50.0, cp.OverallProgress, 0.001)
	assert.False(t, cp.IsCourseCompleted)
}

func TestGetCourseProgressOwnership(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	other := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	enrollment := createTestEnrollment(t, db, student.ID, course.ID)

	_, err := GetCourseProgress(enrollment.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotEnrollmentOwner)
}

func TestGetCourseProgressIgnoresUnpublishedQuizzes(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	module := createTestModule(t, db, course.ID, 1)
	enrollment := createTestEnrollment(t, db, student.ID, course.ID)
	quiz := createTestQuiz(t, db, course.ID, module.ID)

	// A draft quiz is invisible to learners and must not hold completion open
	draft := &courseModels.Quiz{CourseID: course.ID, ModuleID: module.ID, Title: "Draft quiz", PassingScore: 60}
	require.NoError(t, db.Create(draft).Error)

	_, err := RecordQuizCompletion(student.ID, quiz.ID, module.ID, 90, 100, true)
	require.NoError(t, err)

	cp, err := GetCourseProgress(enrollment.ID, student.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, cp.TotalQuizzes)
	assert.Equal(t, 1, cp.PassedQuizzes)
	assert.True(t, cp.IsCourseCompleted)
}

func TestGetCourseProgressEmptyCourseNotCompleted(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	enrollment := createTestEnrollment(t, db, student.ID, course.ID)

	cp, err := GetCourseProgress(enrollment.ID, student.ID)
	require.NoError(t, err)

	assert.False(t, cp.IsCourseCompleted)

	var certs int64
	db.Model(&courseModels.Certificate{}).Where("enrollment_id = ?", enrollment.ID).Count(&certs)
	assert.Equal(t, int64(0), certs)
}

func TestGetCourseProgressCompletionIssuesCertificateOnce(t *testing.T) {
	db := setupTestDB(t)

	student := createTestUser(t, db, "STUDENT")
	instructor := createTestUser(t, db, "INSTRUCTOR")
	course := createTestCourse(t, db, instructor.ID)
	createTestModule(t, db, course.ID, 1)
	enrollment := createTestEnrollment(t, db, student.ID, course.ID)

	require.NoError(t, MarkCourseCompleted(enrollment.ID, student.ID))

	// Two consecutive reads of a completed course must yield exactly one
	// certificate row.
	cp, err := GetCourseProgress(enrollment.ID, student.ID)
	require.NoError(t, err)
	assert.True(t, cp.IsCourseCompleted)
	assert.InDelta(t, 100.0, cp.ModuleProgress, 0.001)

	_, err = GetCourseProgress(enrollment.ID, student.ID)
	require.NoError(t, err)

	var certs []courseModels.Certificate
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).Find(&certs).Error)
	require.Len(t, certs, 1)
	assert.True(t, strings.HasPrefix(certs[0].CertificateNumber, "CERT-"))
	assert.Equal(t, student.ID, certs[0].UserID)
	assert.Equal(t, course.ID, certs[0].CourseID)
}
