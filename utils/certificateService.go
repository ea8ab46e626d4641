package utils

import (
	"fmt"
	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// GenerateCertificateForCourseCompletion issues the COMPLETION certificate
// for an enrollment. Idempotent: if a certificate of that type already exists
// for the enrollment it is returned as-is. Safe to invoke concurrently; the
// unique index on (enrollment_id, type) resolves the check-then-create race.
func GenerateCertificateForCourseCompletion(enrollmentID, userID uint) (*courseModels.Certificate, error) {
	db := database.Database.Db

	var existing courseModels.Certificate
	if err := db.Where("enrollment_id = ? AND type = ? AND is_deleted = ?",
		enrollmentID, courseModels.CertificateTypeCompletion, false).First(&existing).Error; err == nil {
		return &existing, nil
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return nil, ErrEnrollmentNotFound
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}

	var course courseModels.Course
	if err := db.Where("id = ?", enrollment.CourseID).First(&course).Error; err != nil {
		return nil, fmt.Errorf("course %d not found", enrollment.CourseID)
	}

	certNumber := fmt.Sprintf("CERT-%d-%s", course.ID, strings.ToUpper(uuid.NewString()[:8]))

	certificate := courseModels.Certificate{
		UserID:            userID,
		CourseID:          course.ID,
		EnrollmentID:      enrollmentID,
		Type:              courseModels.CertificateTypeCompletion,
		CertificateNumber: certNumber,
		IssuedAt:          time.Now(),
	}

	if err := db.Create(&certificate).Error; err != nil {
		// A concurrent caller may have won the unique-index race; return theirs.
		if err2 := db.Where("enrollment_id = ? AND type = ? AND is_deleted = ?",
			enrollmentID, courseModels.CertificateTypeCompletion, false).First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, err
	}

	// PDF rendering is best-effort. The certificate row is valid without a
	// rendered file; a failure here is logged and the URL stays empty.
	if url, err := renderCertificatePDF(&certificate, user.Name, course.Title); err != nil {
		log.Printf("Certificate PDF render failed for %s: %v", certNumber, err)
	} else {
		certificate.CertificateURL = url
		if err := db.Save(&certificate).Error; err != nil {
			log.Printf("Failed to save certificate URL for %s: %v", certNumber, err)
		}
	}

	go SendCertificateEmail(user.Email, user.Name, course.Title, certNumber)

	return &certificate, nil
}

// renderCertificatePDF sends the certificate HTML to the headless-browser
// render service and stores the returned PDF under the upload directory.
func renderCertificatePDF(cert *courseModels.Certificate, studentName, courseTitle string) (string, error) {
	html := certificateHTML(studentName, courseTitle, cert.CertificateNumber, cert.IssuedAt)

	client := resty.New().SetTimeout(30 * time.Second)
	req := client.R().
		SetFileReader("files", "index.html", strings.NewReader(html))
	if config.AppConfig.PdfRenderKey != "" {
		req.SetHeader("Authorization", "Bearer "+config.AppConfig.PdfRenderKey)
	}

	resp, err := req.Post(config.AppConfig.PdfRenderURL)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("render service returned %d: %s", resp.StatusCode(), resp.String())
	}

	destDir := filepath.Join(config.AppConfig.UploadDir, "certificates")
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	fileName := cert.CertificateNumber + ".pdf"
	if err := os.WriteFile(filepath.Join(destDir, fileName), resp.Body(), 0644); err != nil {
		return "", err
	}

	return "/uploads/certificates/" + fileName, nil
}

func certificateHTML(studentName, courseTitle, certNumber string, issuedAt time.Time) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Georgia', serif; margin: 0; padding: 60px; background: #FFFFFF; }
			.certificate { border: 12px double #00004D; padding: 60px; text-align: center; }
			.title { font-size: 42px; color: #00004D; letter-spacing: 3px; margin-bottom: 10px; }
			.subtitle { font-size: 18px; color: #666666; margin-bottom: 40px; }
			.student { font-size: 34px; color: #d7b56d; margin: 20px 0; }
			.course { font-size: 24px; color: #00004D; margin: 20px 0; }
			.meta { font-size: 13px; color: #999999; margin-top: 50px; }
		</style>
	</head>
	<body>
		<div class="certificate">
			<div class="title">CERTIFICATE OF COMPLETION</div>
			<div class="subtitle">This certifies that</div>
			<div class="student">%s</div>
			<div class="subtitle">has successfully completed the course</div>
			<div class="course">%s</div>
			<div class="meta">Certificate No: %s &middot; Issued on %s</div>
		</div>
	</body>
	</html>
	`, studentName, courseTitle, certNumber, issuedAt.Format("January 2, 2006"))
}
