package discussion

import "gorm.io/gorm"

// Thread is a per-course discussion topic
type Thread struct {
	gorm.Model
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	Title     string `json:"title"`
	Body      string `json:"body" gorm:"type:text"`
	IsPinned  bool   `json:"is_pinned" gorm:"default:false"`
	IsLocked  bool   `json:"is_locked" gorm:"default:false"`
	IsDeleted bool   `gorm:"default:false"`
}

// Reply is a response within a thread
type Reply struct {
	gorm.Model
	ThreadID  uint   `json:"thread_id" gorm:"index;not null"`
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	Body      string `json:"body" gorm:"type:text"`
	IsDeleted bool   `gorm:"default:false"`
}

// Vote is an up/down vote on a thread or a reply. Exactly one of ThreadID
// and ReplyID is set; one vote per user per target.
type Vote struct {
	gorm.Model
	UserID    uint  `json:"user_id" gorm:"not null;uniqueIndex:idx_user_target"`
	ThreadID  *uint `json:"thread_id" gorm:"uniqueIndex:idx_user_target"`
	ReplyID   *uint `json:"reply_id" gorm:"uniqueIndex:idx_user_target"`
	Value     int   `json:"value"` // +1 or -1
	IsDeleted bool  `gorm:"default:false"`
}
