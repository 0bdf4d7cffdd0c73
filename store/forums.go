package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/cambridgeconnect/server/models"
	"github.com/cambridgeconnect/server/utils"
)

// ListForums returns all forums, oldest board first.
func ListForums(db *gorm.DB) ([]models.Forum, error) {
	var forums []models.Forum
	if err := db.Order("created_at ASC").Find(&forums).Error; err != nil {
		return nil, utils.Internal("failed to list forums", err)
	}
	return forums, nil
}

// GetForum fetches one forum by ID.
func GetForum(db *gorm.DB, id string) (*models.Forum, error) {
	var forum models.Forum
	if err := db.Where("id = ?", id).First(&forum).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Forum not found")
		}
		return nil, utils.Internal("failed to load forum", err)
	}
	return &forum, nil
}

// CreateForumInput carries the fields accepted at forum creation.
type CreateForumInput struct {
	Title       string
	Category    models.ForumCategory
	Description string
}

func (in CreateForumInput) validate() error {
	if strings.TrimSpace(in.Title) == "" || in.Category == "" || strings.TrimSpace(in.Description) == "" {
		return utils.BadRequest("Missing required fields: title, category, description")
	}
	if !models.ValidForumCategory(in.Category) {
		return utils.BadRequest(fmt.Sprintf("invalid forum category: %s", in.Category))
	}
	return nil
}

// CreateForum inserts a new empty board. The creator counts as the first
// member; LastActivity starts at creation time.
func CreateForum(db *gorm.DB, input CreateForumInput) (*models.Forum, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	forum := models.Forum{
		Title:         strings.TrimSpace(input.Title),
		Category:      input.Category,
		Description:   strings.TrimSpace(input.Description),
		CreatedAt:     now,
		PostCount:     0,
		LastActivity:  now,
		MemberCount:   1,
		MessagesToday: 0,
	}
	if err := db.Create(&forum).Error; err != nil {
		return nil, utils.Internal("failed to create forum", err)
	}
	return &forum, nil
}

// InitialPostInput carries the first post created together with a forum.
type InitialPostInput struct {
	AuthorOrgID   string
	AuthorOrgName string
	Title         string
	Content       string
}

// CreateForumWithPost atomically creates a forum and its initial post, then
// aligns the forum's LastActivity with the post's CreatedAt. Either both rows
// land or neither does.
func CreateForumWithPost(db *gorm.DB, forumInput CreateForumInput, postInput InitialPostInput) (*models.Forum, *models.ForumPost, error) {
	if err := forumInput.validate(); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(postInput.Title) == "" || strings.TrimSpace(postInput.Content) == "" || postInput.AuthorOrgID == "" {
		return nil, nil, utils.BadRequest("Initial post requires author, title and content")
	}

	now := time.Now()
	forum := models.Forum{
		Title:         strings.TrimSpace(forumInput.Title),
		Category:      forumInput.Category,
		Description:   strings.TrimSpace(forumInput.Description),
		CreatedAt:     now,
		PostCount:     1, // will hold one post after creation
		LastActivity:  now,
		MemberCount:   1,
		MessagesToday: 0,
	}
	var post models.ForumPost

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&forum).Error; err != nil {
			return utils.Internal("failed to create forum", err)
		}
		post = models.ForumPost{
			ForumID:       forum.ID,
			AuthorOrgID:   postInput.AuthorOrgID,
			AuthorOrgName: postInput.AuthorOrgName,
			Title:         strings.TrimSpace(postInput.Title),
			Content:       postInput.Content,
			ReplyCount:    0,
		}
		if err := tx.Create(&post).Error; err != nil {
			return utils.Internal("failed to create initial post", err)
		}
		if err := tx.Model(&forum).Update("last_activity", post.CreatedAt).Error; err != nil {
			return utils.Internal("failed to update forum activity", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	forum.LastActivity = post.CreatedAt
	return &forum, &post, nil
}

// ListForumPosts returns a forum's posts newest first, so readers skim recent
// threads from the top.
func ListForumPosts(db *gorm.DB, forumID string) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	if err := db.Where("forum_id = ?", forumID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, utils.Internal("failed to list forum posts", err)
	}
	return posts, nil
}

// GetPost fetches one post by ID.
func GetPost(db *gorm.DB, id string) (*models.ForumPost, error) {
	var post models.ForumPost
	if err := db.Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Post not found")
		}
		return nil, utils.Internal("failed to load post", err)
	}
	return &post, nil
}

// ListPostReplies returns a post's replies oldest first: a thread reads in
// conversation order, unlike the post listing.
func ListPostReplies(db *gorm.DB, postID string) ([]models.ForumReply, error) {
	var replies []models.ForumReply
	if err := db.Where("post_id = ?", postID).Order("created_at ASC").Find(&replies).Error; err != nil {
		return nil, utils.Internal("failed to list replies", err)
	}
	return replies, nil
}

// CreatePostInput carries the fields accepted at post creation.
type CreatePostInput struct {
	ForumID       string
	AuthorOrgID   string
	AuthorOrgName string
	Title         string
	Content       string
}

// CreatePost inserts a post after verifying the forum exists. Callers must
// follow up with RecalculateForumCounts or the forum's counters drift.
func CreatePost(db *gorm.DB, input CreatePostInput) (*models.ForumPost, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, utils.BadRequest("Title and content are required")
	}
	if _, err := GetForum(db, input.ForumID); err != nil {
		return nil, err
	}
	post := models.ForumPost{
		ForumID:       input.ForumID,
		AuthorOrgID:   input.AuthorOrgID,
		AuthorOrgName: input.AuthorOrgName,
		Title:         strings.TrimSpace(input.Title),
		Content:       input.Content,
		ReplyCount:    0,
	}
	if err := db.Create(&post).Error; err != nil {
		return nil, utils.Internal("failed to create post", err)
	}
	return &post, nil
}

// CreateReplyInput carries the fields accepted at reply creation.
type CreateReplyInput struct {
	PostID        string
	AuthorOrgID   string
	AuthorOrgName string
	Content       string
}

// CreateReply inserts a reply after verifying the post exists. Callers must
// follow up with RecalculatePostReplyCount.
func CreateReply(db *gorm.DB, input CreateReplyInput) (*models.ForumReply, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, utils.BadRequest("Content is required")
	}
	if _, err := GetPost(db, input.PostID); err != nil {
		return nil, err
	}
	reply := models.ForumReply{
		PostID:        input.PostID,
		AuthorOrgID:   input.AuthorOrgID,
		AuthorOrgName: input.AuthorOrgName,
		Content:       input.Content,
	}
	if err := db.Create(&reply).Error; err != nil {
		return nil, utils.Internal("failed to create reply", err)
	}
	return &reply, nil
}

// ActivityItem pairs a post with its owning forum's metadata.
type ActivityItem struct {
	Post          models.ForumPost
	ForumTitle    string
	ForumCategory models.ForumCategory
}

// RecentActivity returns the limit most recently created posts system-wide,
// newest first, each augmented with its forum's title and category.
func RecentActivity(db *gorm.DB, limit int) ([]ActivityItem, error) {
	var posts []models.ForumPost
	if err := db.Order("created_at DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, utils.Internal("failed to load recent posts", err)
	}
	if len(posts) == 0 {
		return []ActivityItem{}, nil
	}

	forumIDs := make([]string, 0, len(posts))
	seen := make(map[string]bool, len(posts))
	for _, p := range posts {
		if !seen[p.ForumID] {
			seen[p.ForumID] = true
			forumIDs = append(forumIDs, p.ForumID)
		}
	}

	var forums []models.Forum
	if err := db.Where("id IN ?", forumIDs).Find(&forums).Error; err != nil {
		return nil, utils.Internal("failed to load forums for activity", err)
	}
	forumByID := make(map[string]models.Forum, len(forums))
	for _, f := range forums {
		forumByID[f.ID] = f
	}

	items := make([]ActivityItem, 0, len(posts))
	for _, p := range posts {
		item := ActivityItem{Post: p, ForumTitle: "Unknown Forum", ForumCategory: models.CategoryGeneral}
		if f, ok := forumByID[p.ForumID]; ok {
			item.ForumTitle = f.Title
			item.ForumCategory = f.Category
		}
		items = append(items, item)
	}
	return items, nil
}
