package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForumReply is a threaded response to a post. Leaf entity, no children.
type ForumReply struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	PostID        string    `gorm:"size:36;index;not null" json:"postId"`
	AuthorOrgID   string    `gorm:"size:36;not null" json:"authorOrgId"`
	AuthorOrgName string    `gorm:"size:255;not null" json:"authorOrgName"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (r *ForumReply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}
