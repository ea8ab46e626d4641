package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"lms/config"
	"lms/database"
	courseModels "lms/models/course"
)

// Imports a course catalog from CourseCatalog.csv. Existing courses are
// matched by title and instructor and updated in place.
func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	// Open CSV file
	file, err := os.Open("CourseCatalog.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	// Create CSV reader
	reader := csv.NewReader(file)

	// Read all records
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	// Skip header row
	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	inserted := 0
	updated := 0
	skipped := 0

	for i, row := range records[1:] {
		if i%100 == 0 {
			log.Printf("Processing row %d...", i+1)
		}

		course := courseModels.Course{
			Title:        getField(row, headerIndex, "title"),
			Description:  getField(row, headerIndex, "description"),
			InstructorID: uint(parseInt(getField(row, headerIndex, "instructorId"))),
			Category:     getField(row, headerIndex, "category"),
			Level:        strings.ToUpper(getField(row, headerIndex, "level")),
			Duration:     int64(parseInt(getField(row, headerIndex, "duration"))),
			Status:       "DRAFT",
			ThumbnailURL: getField(row, headerIndex, "thumbnailUrl"),
			IsDeleted:    false,
		}

		if course.Level == "" {
			course.Level = "BEGINNER"
		}

		// Skip if no title or instructor
		if course.Title == "" || course.InstructorID == 0 {
			skipped++
			continue
		}

		// Check if course exists by title and instructor
		var existing courseModels.Course
		result := database.Database.Db.Where("title = ? AND instructor_id = ?", course.Title, course.InstructorID).First(&existing)

		if result.Error != nil {
			// Insert new course
			if err := database.Database.Db.Create(&course).Error; err != nil {
				log.Printf("Error inserting course %q: %v", course.Title, err)
				continue
			}
			inserted++
		} else {
			// Update existing course
			existing.Description = course.Description
			existing.Category = course.Category
			existing.Level = course.Level
			existing.Duration = course.Duration
			existing.ThumbnailURL = course.ThumbnailURL

			if err := database.Database.Db.Save(&existing).Error; err != nil {
				log.Printf("Error updating course %q: %v", course.Title, err)
				continue
			}
			updated++
		}
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Inserted: %d", inserted)
	log.Printf("Updated: %d", updated)
	log.Printf("Skipped: %d", skipped)
	log.Printf("Total processed: %d", inserted+updated+skipped)
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseInt converts string to int
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return val
}
