package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cambridgeconnect/server/config"
	"github.com/cambridgeconnect/server/controllers"
	"github.com/cambridgeconnect/server/middleware"
	"github.com/cambridgeconnect/server/utils"
)

// SetupRouter wires middleware and the versioned API surface.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()

	gin.SetMode(cfg.GinMode)
	router := gin.New()

	accessLogger, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel,
		cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err != nil {
		accessLogger = utils.Logger
	}
	router.Use(utils.Ginzap(accessLogger, time.RFC3339, true))
	router.Use(utils.RecoveryWithZap(utils.Logger, true))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authCtrl := controllers.NewAuthController(db)
	orgCtrl := controllers.NewOrganizationController(db)
	forumCtrl := controllers.NewForumController(db)

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Use(middleware.RateLimitMiddleware())
	{
		auth.POST("/signup", authCtrl.Signup)
		auth.POST("/login", authCtrl.Login)
		auth.GET("/me", middleware.AuthRequired(), authCtrl.Me)
	}

	orgs := api.Group("/organizations")
	{
		orgs.GET("", orgCtrl.List)
		orgs.GET("/:id", orgCtrl.Get)
		orgs.POST("", middleware.AuthRequired(), orgCtrl.Create)
		orgs.POST("/:id/join", middleware.AuthRequired(), orgCtrl.Join)
	}

	forums := api.Group("/forums")
	{
		forums.GET("", forumCtrl.List)
		forums.GET("/:id", forumCtrl.Get)
		forums.POST("", forumCtrl.Create)
		forums.GET("/:id/posts", forumCtrl.ListPosts)
		forums.POST("/:id/posts", middleware.AuthRequired(), forumCtrl.CreatePost)
	}

	posts := api.Group("/posts")
	{
		posts.GET("/:id", forumCtrl.GetPost)
		posts.GET("/:id/replies", forumCtrl.ListReplies)
		posts.POST("/:id/replies", middleware.AuthRequired(), forumCtrl.CreateReply)
	}

	api.GET("/activity/recent", forumCtrl.RecentActivity)

	router.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "route not found")
			return
		}
		ctx.String(http.StatusNotFound, "404 page not found")
	})

	return router
}
