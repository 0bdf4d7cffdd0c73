package store

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cambridgeconnect/server/models"
)

// newTestDB opens an in-memory SQLite database with the full schema. The pool
// is pinned to one connection so every query sees the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Forum{},
		&models.ForumPost{},
		&models.ForumReply{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user, err := CreateUser(db, email, "$2a$10$notarealhashnotarealhashnotarealhash", "Test User")
	require.NoError(t, err)
	return user
}

func seedOrg(t *testing.T, db *gorm.DB, name string, tags ...models.OrgType) *models.Organization {
	t.Helper()
	if len(tags) == 0 {
		tags = []models.OrgType{models.OrgTypeNonprofit}
	}
	org := models.Organization{
		Name:            name,
		Type:            models.SerializeOrgTypes(tags),
		Description:     name + " description",
		ContactInternal: "ops@" + name + ".example",
	}
	require.NoError(t, db.Create(&org).Error)
	return &org
}

func seedForum(t *testing.T, db *gorm.DB, title string) *models.Forum {
	t.Helper()
	forum, err := CreateForum(db, CreateForumInput{
		Title:       title,
		Category:    models.CategoryGeneral,
		Description: title + " board",
	})
	require.NoError(t, err)
	return forum
}

// seedPost inserts a post directly with an explicit timestamp so ordering
// tests do not depend on wall-clock spacing.
func seedPost(t *testing.T, db *gorm.DB, forumID string, title string, createdAt time.Time) *models.ForumPost {
	t.Helper()
	post := models.ForumPost{
		ForumID:       forumID,
		AuthorOrgID:   "org-seed",
		AuthorOrgName: "Seed Org",
		Title:         title,
		Content:       title + " content",
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

func seedReply(t *testing.T, db *gorm.DB, postID string, content string, createdAt time.Time) *models.ForumReply {
	t.Helper()
	reply := models.ForumReply{
		PostID:        postID,
		AuthorOrgID:   "org-seed",
		AuthorOrgName: "Seed Org",
		Content:       content,
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(&reply).Error)
	return &reply
}
