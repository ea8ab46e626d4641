package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate types
const (
	CertificateTypeCompletion = "COMPLETION"
)

// Certificate represents an issued certificate. The unique index on
// (enrollment_id, type) closes the check-then-create race between
// concurrent progress reads.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"index;not null"`
	CourseID          uint      `json:"course_id" gorm:"index;not null"`
	EnrollmentID      uint      `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_enrollment_cert_type"`
	Type              string    `json:"type" gorm:"default:'COMPLETION';uniqueIndex:idx_enrollment_cert_type"`
	CertificateURL    string    `json:"certificate_url"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	IssuedAt          time.Time `json:"issued_at"`
	IsDeleted         bool      `gorm:"default:false"`
}
