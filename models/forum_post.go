package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForumPost is a top-level forum message. AuthorOrgName is a denormalized
// snapshot taken at posting time; renaming an organization does not rewrite
// historical posts. ReplyCount tracks forum_replies rows and is maintained by
// store.RecalculatePostReplyCount.
type ForumPost struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	ForumID       string     `gorm:"size:36;index;not null" json:"forumId"`
	AuthorOrgID   string     `gorm:"size:36;not null" json:"authorOrgId"`
	AuthorOrgName string     `gorm:"size:255;not null" json:"authorOrgName"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt"`
	ReplyCount    int        `gorm:"default:0" json:"replyCount"`
}

func (p *ForumPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return nil
}
