package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForumCategory scopes a discussion board to a topic.
type ForumCategory string

const (
	CategorySpaceSharing ForumCategory = "space_sharing"
	CategoryVolunteers   ForumCategory = "volunteers"
	CategoryEvents       ForumCategory = "events"
	CategoryPartnerships ForumCategory = "partnerships"
	CategoryResources    ForumCategory = "resources"
	CategoryGeneral      ForumCategory = "general"
)

// ValidForumCategory reports whether c is a known category.
func ValidForumCategory(c ForumCategory) bool {
	switch c {
	case CategorySpaceSharing, CategoryVolunteers, CategoryEvents,
		CategoryPartnerships, CategoryResources, CategoryGeneral:
		return true
	}
	return false
}

// Forum is a discussion board. PostCount and LastActivity are denormalized
// from forum_posts rows; the store does not enforce them, writers must call
// store.RecalculateForumCounts after inserting posts.
type Forum struct {
	ID            string        `gorm:"primaryKey;size:36" json:"id"`
	Title         string        `gorm:"size:255;not null" json:"title"`
	Category      ForumCategory `gorm:"size:32;not null" json:"category"`
	Description   string        `gorm:"type:text;not null" json:"description"`
	CreatedAt     time.Time     `json:"createdAt"`
	PostCount     int           `gorm:"default:0" json:"postCount"`
	LastActivity  time.Time     `json:"lastActivity"`
	MemberCount   int           `gorm:"default:1" json:"memberCount"`
	MessagesToday int           `gorm:"default:0" json:"messagesToday"`
}

func (f *Forum) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	if f.LastActivity.IsZero() {
		f.LastActivity = f.CreatedAt
	}
	return nil
}
