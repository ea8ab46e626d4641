package utils

import (
	"fmt"
	"testing"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	progressModels "lms/models/progress"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB gives each test an isolated in-memory database and swaps it
// into the global handle the services read from.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)

	prev := database.Database
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() {
		database.Database = prev
		sqlDB.Close()
	})

	return db
}

var testUserSeq int

func createTestUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	testUserSeq++
	user := &models.User{
		Name:            "Test " + role,
		Email:           fmt.Sprintf("%s-%s-%d@example.com", t.Name(), role, testUserSeq),
		Role:            role,
		Password:        "hashed",
		IsEmailVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCourse(t *testing.T, db *gorm.DB, instructorID uint) *courseModels.Course {
	t.Helper()
	course := &courseModels.Course{
		Title:        "Intro to Databases",
		InstructorID: instructorID,
		Status:       "ACTIVE",
		IsPublished:  true,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func createTestModule(t *testing.T, db *gorm.DB, courseID uint, order int) *courseModels.Module {
	t.Helper()
	module := &courseModels.Module{
		CourseID:   courseID,
		Title:      fmt.Sprintf("Module %d", order),
		OrderIndex: order,
	}
	require.NoError(t, db.Create(module).Error)
	return module
}

func createTestMaterial(t *testing.T, db *gorm.DB, courseID, moduleID uint, contentType string) *courseModels.Material {
	t.Helper()
	material := &courseModels.Material{
		CourseID:    courseID,
		ModuleID:    moduleID,
		Title:       contentType + " material",
		ContentType: contentType,
		IsPublished: true,
	}
	require.NoError(t, db.Create(material).Error)
	return material
}

func createTestEnrollment(t *testing.T, db *gorm.DB, userID, courseID uint) *courseModels.Enrollment {
	t.Helper()
	enrollment := &courseModels.Enrollment{UserID: userID, CourseID: courseID}
	require.NoError(t, db.Create(enrollment).Error)
	return enrollment
}

func createTestQuiz(t *testing.T, db *gorm.DB, courseID, moduleID uint) *courseModels.Quiz {
	t.Helper()
	quiz := &courseModels.Quiz{
		CourseID:     courseID,
		ModuleID:     moduleID,
		Title:        "Checkpoint quiz",
		PassingScore: 60,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}

func idString(id uint) string {
	return fmt.Sprintf("%d", id)
}

func setRequirements(t *testing.T, db *gorm.DB, req *progressModels.ModuleRequirements) {
	t.Helper()
	require.NoError(t, db.Create(req).Error)
}
