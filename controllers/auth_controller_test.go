package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cambridgeconnect/server/utils"
)

func TestSignup(t *testing.T) {
	_, router := newTestEnv(t)

	rec := perform(t, router, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"email":    "alice@example.org",
		"password": "s3cret-enough",
		"name":     "Alice",
	}, "")
	assertStatus(t, rec, http.StatusCreated)

	var user map[string]any
	dataField(t, rec, &user)
	assert.Equal(t, "alice@example.org", user["email"])
	assert.Equal(t, "Alice", user["name"])
	assert.Nil(t, user["organizationId"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
}

func TestSignupValidation(t *testing.T) {
	_, router := newTestEnv(t)

	cases := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{
			name:    "missing fields",
			body:    map[string]string{},
			message: "Email, password, and name are required",
		},
		{
			name:    "invalid email",
			body:    map[string]string{"email": "not-an-email", "password": "s3cret-enough", "name": "Alice"},
			message: "Invalid email format",
		},
		{
			name:    "short password",
			body:    map[string]string{"email": "alice@example.org", "password": "1234567", "name": "Alice"},
			message: "Password must be at least 8 characters",
		},
		{
			name:    "blank name",
			body:    map[string]string{"email": "alice@example.org", "password": "s3cret-enough", "name": "   "},
			message: "Name cannot be empty",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := perform(t, router, http.MethodPost, "/api/v1/auth/signup", tc.body, "")
			assertStatus(t, rec, http.StatusBadRequest)
			assert.Equal(t, tc.message, errorField(t, rec).Message)
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	db, router := newTestEnv(t)
	createTestUser(t, db, "alice@example.org")

	rec := perform(t, router, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"email":    "alice@example.org",
		"password": "s3cret-enough",
		"name":     "Alice",
	}, "")
	assertStatus(t, rec, http.StatusConflict)

	body := errorField(t, rec)
	assert.Equal(t, utils.CodeEmailExists, body.Code)
	assert.Equal(t, "Email already registered", body.Message)
}

func TestLogin(t *testing.T) {
	db, router := newTestEnv(t)
	user, _ := createTestUser(t, db, "alice@example.org")

	rec := perform(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.org",
		"password": "correct-horse-battery",
	}, "")
	assertStatus(t, rec, http.StatusOK)

	var payload struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	dataField(t, rec, &payload)
	require.NotEmpty(t, payload.Token)
	assert.Equal(t, user.ID, payload.User["id"])

	claims, err := utils.ParseToken(payload.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db, router := newTestEnv(t)
	createTestUser(t, db, "alice@example.org")

	for name, body := range map[string]map[string]string{
		"wrong password": {"email": "alice@example.org", "password": "wrong-password"},
		"unknown email":  {"email": "nobody@example.org", "password": "correct-horse-battery"},
	} {
		t.Run(name, func(t *testing.T) {
			rec := perform(t, router, http.MethodPost, "/api/v1/auth/login", body, "")
			assertStatus(t, rec, http.StatusUnauthorized)
			assert.Equal(t, "Invalid email or password", errorField(t, rec).Message)
		})
	}
}

func TestLoginRequiresEmailAndPassword(t *testing.T) {
	_, router := newTestEnv(t)

	rec := perform(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "a@b.co"}, "")
	assertStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "Email and password are required", errorField(t, rec).Message)
}

func TestMe(t *testing.T) {
	db, router := newTestEnv(t)
	user, token := createTestUser(t, db, "alice@example.org")

	rec := perform(t, router, http.MethodGet, "/api/v1/auth/me", nil, token)
	assertStatus(t, rec, http.StatusOK)

	var me map[string]any
	dataField(t, rec, &me)
	assert.Equal(t, user.ID, me["id"])
	assert.Equal(t, "alice@example.org", me["email"])
}

func TestMeRequiresToken(t *testing.T) {
	_, router := newTestEnv(t)

	rec := perform(t, router, http.MethodGet, "/api/v1/auth/me", nil, "")
	assertStatus(t, rec, http.StatusUnauthorized)
	assert.Equal(t, "Authentication required", errorField(t, rec).Message)

	rec = perform(t, router, http.MethodGet, "/api/v1/auth/me", nil, "garbage-token")
	assertStatus(t, rec, http.StatusUnauthorized)
}
