package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cambridgeconnect/server/config"
	"github.com/cambridgeconnect/server/middleware"
	"github.com/cambridgeconnect/server/models"
	"github.com/cambridgeconnect/server/store"
	"github.com/cambridgeconnect/server/utils"
)

var testConfigOnce sync.Once

// newTestEnv wires an in-memory database behind the real route table. The
// Redis cache is pointed at a closed port so every request falls through to
// the database.
func newTestEnv(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()

	testConfigOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		config.SetForTesting(config.AppConfig{
			JWTSecret:          "test-secret",
			RateLimitPerMinute: 10000,
			RedisHost:          "127.0.0.1",
			RedisPort:          1,
		})
	})

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

	authCtrl := NewAuthController(db)
	orgCtrl := NewOrganizationController(db)
	forumCtrl := NewForumController(db)

	router := gin.New()
	api := router.Group("/api/v1")

	api.POST("/auth/signup", authCtrl.Signup)
	api.POST("/auth/login", authCtrl.Login)
	api.GET("/auth/me", middleware.AuthRequired(), authCtrl.Me)

	api.GET("/organizations", orgCtrl.List)
	api.GET("/organizations/:id", orgCtrl.Get)
	api.POST("/organizations", middleware.AuthRequired(), orgCtrl.Create)
	api.POST("/organizations/:id/join", middleware.AuthRequired(), orgCtrl.Join)

	api.GET("/forums", forumCtrl.List)
	api.GET("/forums/:id", forumCtrl.Get)
	api.POST("/forums", forumCtrl.Create)
	api.GET("/forums/:id/posts", forumCtrl.ListPosts)
	api.POST("/forums/:id/posts", middleware.AuthRequired(), forumCtrl.CreatePost)

	api.GET("/posts/:id", forumCtrl.GetPost)
	api.GET("/posts/:id/replies", forumCtrl.ListReplies)
	api.POST("/posts/:id/replies", middleware.AuthRequired(), forumCtrl.CreateReply)

	api.GET("/activity/recent", forumCtrl.RecentActivity)

	return db, router
}

func perform(t *testing.T, router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// dataField decodes the success envelope's data member into out.
func dataField(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data, "expected a data envelope, got %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

// errorField decodes the failure envelope.
func errorField(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorBody {
	t.Helper()
	var envelope struct {
		Error utils.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error
}

// createTestUser registers a user directly against the store and returns the
// user with a valid session token.
func createTestUser(t *testing.T, db *gorm.DB, email string) (*models.User, string) {
	t.Helper()
	hash, err := utils.HashPassword("correct-horse-battery")
	require.NoError(t, err)
	user, err := store.CreateUser(db, email, hash, "Test User")
	require.NoError(t, err)
	token, err := utils.GenerateToken(user.ID, user.Email, time.Hour)
	require.NoError(t, err)
	return user, token
}

// createTestOrgUser returns a user already linked to an organization.
func createTestOrgUser(t *testing.T, db *gorm.DB, email, orgName string) (*models.User, *models.Organization, string) {
	t.Helper()
	user, token := createTestUser(t, db, email)
	org, err := store.CreateOrganizationForUser(db, store.CreateOrganizationInput{
		Name:            orgName,
		Type:            []models.OrgType{models.OrgTypeNonprofit},
		Description:     orgName + " description",
		ContactInternal: "ops@example.org",
	}, user.ID)
	require.NoError(t, err)
	return user, org, token
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
