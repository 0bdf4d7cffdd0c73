package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cambridgeconnect/server/models"
	"github.com/cambridgeconnect/server/store"
	"github.com/cambridgeconnect/server/utils"
)

const (
	forumListCacheKey   = "cache:forums:list:all"
	forumDetailCacheKey = "cache:forum:detail:"
	activityCacheKey    = "cache:activity:recent:"

	defaultActivityLimit = 10
)

// ForumController serves the discussion boards: forums, posts, replies and
// the cross-forum activity feed.
type ForumController struct {
	db *gorm.DB
}

// NewForumController creates a ForumController.
func NewForumController(db *gorm.DB) *ForumController {
	return &ForumController{db: db}
}

// List returns all forums with their denormalized counters.
func (f *ForumController) List(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(forumListCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	forums, err := store.ListForums(f.db)
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	utils.CacheSetJSON(forumListCacheKey, gin.H{"data": models.ForumViews(forums)}, 5*time.Minute)
	utils.Success(ctx, models.ForumViews(forums))
}

// Get returns a single forum.
func (f *ForumController) Get(ctx *gin.Context) {
	id := ctx.Param("id")

	if b, ok := utils.CacheGetBytes(forumDetailCacheKey + id); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	forum, err := store.GetForum(f.db, id)
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	utils.CacheSetJSON(forumDetailCacheKey+id, gin.H{"data": forum.View()}, 5*time.Minute)
	utils.Success(ctx, forum.View())
}

type createForumRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	InitialPost *struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	} `json:"initialPost"`
}

// Create opens a new board. When the request carries an initial post the
// caller must be authenticated and linked to an organization, and the forum
// and post are created in one transaction.
func (f *ForumController) Create(ctx *gin.Context) {
	var req createForumRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "invalid request payload")
		return
	}

	forumInput := store.CreateForumInput{
		Title:       utils.SanitizePlain(req.Title),
		Category:    models.ForumCategory(req.Category),
		Description: utils.Sanitize(req.Description),
	}

	if req.InitialPost == nil {
		forum, err := store.CreateForum(f.db, forumInput)
		if err != nil {
			utils.ErrorFrom(ctx, err)
			return
		}
		utils.InvalidateByPrefix("cache:forums:")
		utils.Created(ctx, forum.View())
		return
	}

	org, appErr := f.callerOrganization(ctx)
	if appErr != nil {
		utils.ErrorFrom(ctx, appErr)
		return
	}

	postInput := store.InitialPostInput{
		AuthorOrgID:   org.ID,
		AuthorOrgName: org.Name,
		Title:         utils.SanitizePlain(req.InitialPost.Title),
		Content:       utils.Sanitize(req.InitialPost.Content),
	}

	forum, post, err := store.CreateForumWithPost(f.db, forumInput, postInput)
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:forums:")
	utils.InvalidateByPrefix("cache:activity:")
	utils.Created(ctx, gin.H{"forum": forum.View(), "initialPost": post.View()})
}

// ListPosts returns a forum's posts, newest first. An unknown forum yields an
// empty list, not a 404.
func (f *ForumController) ListPosts(ctx *gin.Context) {
	posts, err := store.ListForumPosts(f.db, ctx.Param("id"))
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	utils.Success(ctx, models.ForumPostViews(posts))
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CreatePost adds a thread to a forum. The author is the calling user's
// organization; the forum's counters are recalculated afterwards.
func (f *ForumController) CreatePost(ctx *gin.Context) {
	org, appErr := f.callerOrganization(ctx)
	if appErr != nil {
		utils.ErrorFrom(ctx, appErr)
		return
	}

	var req createPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "invalid request payload")
		return
	}

	post, err := store.CreatePost(f.db, store.CreatePostInput{
		ForumID:       ctx.Param("id"),
		AuthorOrgID:   org.ID,
		AuthorOrgName: org.Name,
		Title:         utils.SanitizePlain(req.Title),
		Content:       utils.Sanitize(req.Content),
	})
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	if _, _, err := store.RecalculateForumCounts(f.db, post.ForumID); err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:forums:")
	utils.InvalidateByPrefix("cache:forum:detail:")
	utils.InvalidateByPrefix("cache:activity:")
	utils.Created(ctx, post.View())
}

// GetPost returns a single thread.
func (f *ForumController) GetPost(ctx *gin.Context) {
	post, err := store.GetPost(f.db, ctx.Param("id"))
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}
	utils.Success(ctx, post.View())
}

// ListReplies returns a thread's replies in conversation order. As with
// ListPosts, an unknown post yields an empty list.
func (f *ForumController) ListReplies(ctx *gin.Context) {
	replies, err := store.ListPostReplies(f.db, ctx.Param("id"))
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	utils.Success(ctx, models.ForumReplyViews(replies))
}

type createReplyRequest struct {
	Content string `json:"content"`
}

// CreateReply adds a reply to a thread and refreshes the thread's reply
// counter.
func (f *ForumController) CreateReply(ctx *gin.Context) {
	org, appErr := f.callerOrganization(ctx)
	if appErr != nil {
		utils.ErrorFrom(ctx, appErr)
		return
	}

	var req createReplyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "invalid request payload")
		return
	}

	reply, err := store.CreateReply(f.db, store.CreateReplyInput{
		PostID:        ctx.Param("id"),
		AuthorOrgID:   org.ID,
		AuthorOrgName: org.Name,
		Content:       utils.Sanitize(req.Content),
	})
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	if _, err := store.RecalculatePostReplyCount(f.db, reply.PostID); err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:activity:")
	utils.Created(ctx, reply.View())
}

// RecentActivity returns the latest posts across all forums, each tagged
// with its forum's title and category. The limit defaults to 10 and must be
// a positive number.
func (f *ForumController) RecentActivity(ctx *gin.Context) {
	limit := defaultActivityLimit
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "Invalid limit parameter. Must be a positive number.")
			return
		}
		limit = parsed
	}

	cacheKey := activityCacheKey + strconv.Itoa(limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	items, err := store.RecentActivity(f.db, limit)
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	views := make([]models.ActivityItemView, 0, len(items))
	for _, item := range items {
		views = append(views, models.ActivityItemView{
			ForumPostView: item.Post.View(),
			ForumTitle:    item.ForumTitle,
			ForumCategory: item.ForumCategory,
		})
	}

	utils.CacheSetJSON(cacheKey, gin.H{"data": views}, time.Minute)
	utils.Success(ctx, views)
}

// callerOrganization resolves the authenticated user's organization. Posting
// requires a linked organization; users without one get a 400.
func (f *ForumController) callerOrganization(ctx *gin.Context) (*models.Organization, *utils.AppError) {
	userID, ok := getUserID(ctx)
	if !ok {
		return nil, utils.Unauthorized("Authentication required")
	}

	user, err := store.GetUser(f.db, userID)
	if err != nil {
		return nil, utils.AsAppError(err)
	}
	if user.OrganizationID == nil || *user.OrganizationID == "" {
		return nil, utils.BadRequest("You must belong to an organization to post")
	}

	org, err := store.GetOrganization(f.db, *user.OrganizationID)
	if err != nil {
		return nil, utils.AsAppError(err)
	}
	return org, nil
}
