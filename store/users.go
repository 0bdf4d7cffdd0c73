package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/cambridgeconnect/server/models"
	"github.com/cambridgeconnect/server/utils"
)

// CreateUser inserts a new account with organizationId unset; onboarding
// links it later. Email uniqueness is checked first so the caller gets a
// Conflict instead of a driver error, and backed by the unique index.
func CreateUser(db *gorm.DB, email, passwordHash, name string) (*models.User, error) {
	email = strings.TrimSpace(email)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, utils.Internal("failed to check existing email", err)
	}
	if count > 0 {
		return nil, utils.Conflict(utils.CodeEmailExists, "Email already registered")
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(name),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, utils.Internal("failed to create user", err)
	}
	return &user, nil
}

// GetUserByEmail fetches an account by email.
func GetUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", strings.TrimSpace(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, utils.Internal("failed to load user", err)
	}
	return &user, nil
}

// GetUser fetches an account by ID.
func GetUser(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User not found")
		}
		return nil, utils.Internal("failed to load user", err)
	}
	return &user, nil
}
