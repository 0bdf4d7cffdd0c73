package controllers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cambridgeconnect/server/middleware"
	"github.com/cambridgeconnect/server/store"
	"github.com/cambridgeconnect/server/utils"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const sessionDuration = 72 * time.Hour

// AuthController handles signup, login and session introspection.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Signup creates a new user account with a bcrypt-hashed password. The
// organization link stays empty until onboarding.
func (a *AuthController) Signup(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "invalid request payload")
		return
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "Email, password, and name are required")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "Invalid email format")
		return
	}
	if len(req.Password) < utils.MinPasswordLength {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "Password must be at least 8 characters")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "Name cannot be empty")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.ErrorFrom(ctx, utils.Internal("failed to hash password", err))
		return
	}

	user, err := store.CreateUser(a.db, req.Email, hash, req.Name)
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	utils.Created(ctx, user.View())
}

// Login verifies credentials and issues a session JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "Email and password are required")
		return
	}

	user, err := store.GetUserByEmail(a.db, req.Email)
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		// Same answer for unknown email and wrong password.
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "Invalid email or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, sessionDuration)
	if err != nil {
		utils.ErrorFrom(ctx, utils.Internal("failed to generate token", err))
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user.View()})
}

// Me returns the current authenticated user's account record.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "Authentication required")
		return
	}

	user, err := store.GetUser(a.db, userID)
	if err != nil {
		utils.ErrorFrom(ctx, err)
		return
	}

	utils.Success(ctx, user.View())
}

// getUserID resolves the caller's user ID. Routes behind AuthRequired carry it
// in the context; open routes that optionally accept a session (forum creation
// with an initial post) fall back to parsing the bearer token directly.
func getUserID(ctx *gin.Context) (string, bool) {
	if value, exists := ctx.Get(middleware.ContextUserIDKey); exists {
		if id, ok := value.(string); ok && id != "" {
			return id, true
		}
		return "", false
	}

	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	claims, err := utils.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", false
	}
	return claims.UserID, true
}
