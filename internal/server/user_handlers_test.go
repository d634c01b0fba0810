package server

import (
	"net/http"
	"testing"

	"parley/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAllUsers(t *testing.T) {
	t.Parallel()
	_, app, db := newTestServer(t)

	_, token := createTestUser(t, db, "Yuri Ash", "yuri@example.com")
	createTestUser(t, db, "Zoe Bell", "zoe@example.com")

	resp := doJSON(t, app, http.MethodGet, "/api/users/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []map[string]any
	decodeBody(t, resp, &users)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "password", "hashes must never serialize")
	}
}

func TestGetMe(t *testing.T) {
	t.Parallel()
	_, app, db := newTestServer(t)

	user, token := createTestUser(t, db, "Abe Lund", "abe@example.com")

	resp := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		User    map[string]any `json:"user"`
		Profile map[string]any `json:"profile"`
	}
	decodeBody(t, resp, &body)
	assert.EqualValues(t, user.ID, body.User["id"])
	assert.Equal(t, "Abe Lund", body.User["username"])
	assert.EqualValues(t, user.ID, body.Profile["user_id"])
}

func TestUpdateMyProfile(t *testing.T) {
	t.Parallel()
	_, app, db := newTestServer(t)

	user, token := createTestUser(t, db, "Bea Moss", "bea@example.com")

	resp := doJSON(t, app, http.MethodPut, "/api/users/me/profile", token, map[string]any{
		"tel":         "+49 30 1234567",
		"avatar_path": "avatars/bea.png",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, "+49 30 1234567", body["tel"])
	assert.Equal(t, "avatars/bea.png", body["avatar_path"])
	// Omitted fields keep their stored values.
	assert.Equal(t, "bea@example.com", body["email"])

	var profile models.UserProfile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	require.NotNil(t, profile.Tel)
	assert.Equal(t, "+49 30 1234567", *profile.Tel)
}

func TestDeleteMe_Cascades(t *testing.T) {
	t.Parallel()
	_, app, db := newTestServer(t)

	user, token := createTestUser(t, db, "Cal Nash", "cal@example.com")
	chat := models.Chat{Title: "keeps going", Members: []models.User{*user}}
	require.NoError(t, db.Create(&chat).Error)

	post := models.Post{AuthorID: user.ID, Title: "t", Content: "c"}
	require.NoError(t, db.Create(&post).Error)
	message := models.Message{ChatID: &chat.ID, AuthorID: &user.ID, Text: "bye"}
	require.NoError(t, db.Create(&message).Error)

	resp := doJSON(t, app, http.MethodDelete, "/api/users/me", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	// Owned rows go with the account.
	var count int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.UserProfile{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.AuthToken{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&count)
	assert.Zero(t, count)

	// Authored messages remain, detached from the author.
	var stored models.Message
	require.NoError(t, db.First(&stored, message.ID).Error)
	assert.Nil(t, stored.AuthorID)

	// The token died with the user.
	resp = doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()
}
