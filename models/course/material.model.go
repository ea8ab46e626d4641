package course

import "gorm.io/gorm"

// Material content types
const (
	MaterialTypeText  = "TEXT"
	MaterialTypeVideo = "VIDEO"
	MaterialTypePDF   = "PDF"
	MaterialTypeLink  = "LINK"
)

// Material represents a learning material within a module
type Material struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type" gorm:"default:'TEXT'"` // TEXT, VIDEO, PDF, LINK
	TextContent string `json:"text_content" gorm:"type:text"`      // For TEXT type
	VideoURL    string `json:"video_url"`                          // For VIDEO type
	FileURL     string `json:"file_url"`                           // For PDF type
	ExternalURL string `json:"external_url"`                       // For LINK type
	Duration    int    `json:"duration" gorm:"default:0"`          // Estimated seconds
	OrderIndex  int    `json:"order_index" gorm:"default:0"`       // Order within module
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
