package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cambridgeconnect/server/store"
)

func TestCreateForum(t *testing.T) {
	_, router := newTestEnv(t)

	rec := perform(t, router, http.MethodPost, "/api/v1/forums", map[string]any{
		"title":       "Space Sharing",
		"category":    "space_sharing",
		"description": "Offer or find rooms",
	}, "")
	assertStatus(t, rec, http.StatusCreated)

	var forum map[string]any
	dataField(t, rec, &forum)
	assert.Equal(t, "Space Sharing", forum["title"])
	assert.EqualValues(t, 0, forum["postCount"])
	assert.EqualValues(t, 1, forum["memberCount"])
}

func TestCreateForumValidation(t *testing.T) {
	_, router := newTestEnv(t)

	rec := perform(t, router, http.MethodPost, "/api/v1/forums", map[string]any{
		"title": "No Category",
	}, "")
	assertStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "Missing required fields: title, category, description", errorField(t, rec).Message)
}

func TestCreateForumWithInitialPost(t *testing.T) {
	db, router := newTestEnv(t)
	_, org, token := createTestOrgUser(t, db, "poster@example.org", "Helpers United")

	rec := perform(t, router, http.MethodPost, "/api/v1/forums", map[string]any{
		"title":       "Volunteers",
		"category":    "volunteers",
		"description": "Coordinate volunteer shifts",
		"initialPost": map[string]string{
			"title":   "Welcome",
			"content": "Introduce your organization here.",
		},
	}, token)
	assertStatus(t, rec, http.StatusCreated)

	var payload struct {
		Forum       map[string]any `json:"forum"`
		InitialPost map[string]any `json:"initialPost"`
	}
	dataField(t, rec, &payload)
	assert.EqualValues(t, 1, payload.Forum["postCount"])
	assert.Equal(t, org.ID, payload.InitialPost["authorOrgId"])
	assert.Equal(t, "Helpers United", payload.InitialPost["authorOrgName"])
}

func TestCreateForumWithInitialPostRequiresAuth(t *testing.T) {
	_, router := newTestEnv(t)

	rec := perform(t, router, http.MethodPost, "/api/v1/forums", map[string]any{
		"title":       "Volunteers",
		"category":    "volunteers",
		"description": "d",
		"initialPost": map[string]string{"title": "t", "content": "c"},
	}, "")
	assertStatus(t, rec, http.StatusUnauthorized)
}

func TestCreatePostUpdatesForumCounters(t *testing.T) {
	db, router := newTestEnv(t)
	_, org, token := createTestOrgUser(t, db, "poster@example.org", "Helpers United")
	forum, err := store.CreateForum(db, store.CreateForumInput{
		Title: "General", Category: "general", Description: "d",
	})
	require.NoError(t, err)

	rec := perform(t, router, http.MethodPost, "/api/v1/forums/"+forum.ID+"/posts", map[string]string{
		"title":   "Looking for chairs",
		"content": "We need 40 folding chairs for a weekend event.",
	}, token)
	assertStatus(t, rec, http.StatusCreated)

	var post map[string]any
	dataField(t, rec, &post)
	assert.Equal(t, org.ID, post["authorOrgId"])
	assert.EqualValues(t, 0, post["replyCount"])

	stored, err := store.GetForum(db, forum.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.PostCount)
}

func TestCreatePostRequiresOrganization(t *testing.T) {
	db, router := newTestEnv(t)
	_, token := createTestUser(t, db, "loner@example.org")
	forum, err := store.CreateForum(db, store.CreateForumInput{
		Title: "General", Category: "general", Description: "d",
	})
	require.NoError(t, err)

	rec := perform(t, router, http.MethodPost, "/api/v1/forums/"+forum.ID+"/posts", map[string]string{
		"title":   "t",
		"content": "c",
	}, token)
	assertStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "You must belong to an organization to post", errorField(t, rec).Message)
}

func TestCreatePostRequiresAuth(t *testing.T) {
	_, router := newTestEnv(t)

	rec := perform(t, router, http.MethodPost, "/api/v1/forums/any/posts", map[string]string{
		"title": "t", "content": "c",
	}, "")
	assertStatus(t, rec, http.StatusUnauthorized)
}

func TestReplyFlow(t *testing.T) {
	db, router := newTestEnv(t)
	_, _, token := createTestOrgUser(t, db, "poster@example.org", "Helpers United")
	forum, err := store.CreateForum(db, store.CreateForumInput{
		Title: "General", Category: "general", Description: "d",
	})
	require.NoError(t, err)

	rec := perform(t, router, http.MethodPost, "/api/v1/forums/"+forum.ID+"/posts", map[string]string{
		"title": "Thread", "content": "body",
	}, token)
	assertStatus(t, rec, http.StatusCreated)
	var post map[string]any
	dataField(t, rec, &post)
	postID := post["id"].(string)

	rec = perform(t, router, http.MethodPost, "/api/v1/posts/"+postID+"/replies", map[string]string{
		"content": "We can help with that.",
	}, token)
	assertStatus(t, rec, http.StatusCreated)

	stored, err := store.GetPost(db, postID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ReplyCount)

	rec = perform(t, router, http.MethodGet, "/api/v1/posts/"+postID+"/replies", nil, "")
	assertStatus(t, rec, http.StatusOK)
	var replies []map[string]any
	dataField(t, rec, &replies)
	require.Len(t, replies, 1)
	assert.Equal(t, "We can help with that.", replies[0]["content"])
}

func TestListPostsUnknownForumIsEmptyList(t *testing.T) {
	_, router := newTestEnv(t)

	rec := perform(t, router, http.MethodGet, "/api/v1/forums/missing/posts", nil, "")
	assertStatus(t, rec, http.StatusOK)

	var posts []map[string]any
	dataField(t, rec, &posts)
	assert.Empty(t, posts)
}

func TestRecentActivityLimitValidation(t *testing.T) {
	_, router := newTestEnv(t)

	for _, raw := range []string{"0", "-1", "abc", "1.5"} {
		rec := perform(t, router, http.MethodGet, "/api/v1/activity/recent?limit="+raw, nil, "")
		assertStatus(t, rec, http.StatusBadRequest)
		assert.Equal(t, "Invalid limit parameter. Must be a positive number.", errorField(t, rec).Message, "limit=%s", raw)
	}
}

func TestRecentActivity(t *testing.T) {
	db, router := newTestEnv(t)
	_, _, token := createTestOrgUser(t, db, "poster@example.org", "Helpers United")
	forum, err := store.CreateForum(db, store.CreateForumInput{
		Title: "Events", Category: "events", Description: "d",
	})
	require.NoError(t, err)

	rec := perform(t, router, http.MethodPost, "/api/v1/forums/"+forum.ID+"/posts", map[string]string{
		"title": "Block party", "content": "Saturday at the park.",
	}, token)
	assertStatus(t, rec, http.StatusCreated)

	rec = perform(t, router, http.MethodGet, "/api/v1/activity/recent", nil, "")
	assertStatus(t, rec, http.StatusOK)

	var items []map[string]any
	dataField(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Block party", items[0]["title"])
	assert.Equal(t, "Events", items[0]["forumTitle"])
	assert.Equal(t, "events", items[0]["forumCategory"])
}

func TestListForums(t *testing.T) {
	db, router := newTestEnv(t)
	_, err := store.CreateForum(db, store.CreateForumInput{
		Title: "First", Category: "general", Description: "d",
	})
	require.NoError(t, err)

	rec := perform(t, router, http.MethodGet, "/api/v1/forums", nil, "")
	assertStatus(t, rec, http.StatusOK)

	var forums []map[string]any
	dataField(t, rec, &forums)
	require.Len(t, forums, 1)
	assert.Equal(t, "First", forums[0]["title"])
}
