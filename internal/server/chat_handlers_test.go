package server

import (
	"fmt"
	"net/http"
	"testing"

	"parley/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChat(t *testing.T) {
	t.Parallel()
	_, app, db := newTestServer(t)

	u1, _ := createTestUser(t, db, "Rosa Day", "rosa@example.com")
	u2, _ := createTestUser(t, db, "Saul Kim", "saul@example.com")

	t.Run("with members", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/chats/", "", map[string]any{
			"title":   "weekend plans",
			"members": []uint{u1.ID, u2.ID},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "weekend plans", body["title"])
		assert.Len(t, body["members"], 2)
		assert.NotContains(t, body, "id", "internal id must not leak")
	})

	t.Run("supplied id ignored", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/chats/", "", map[string]any{
			"id":    424242,
			"title": "ids are server business",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()

		var chat models.Chat
		require.NoError(t, db.Where("title = ?", "ids are server business").First(&chat).Error)
		assert.NotEqual(t, uint(424242), chat.ID)
	})

	t.Run("missing title", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/chats/", "", map[string]any{
			"members": []uint{u1.ID},
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "This field is required.", body["title"])
	})

	t.Run("blank title", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/chats/", "", map[string]any{
			"title": " ",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, "This field may not be blank.", body["title"])
	})

	t.Run("unknown member", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/chats/", "", map[string]any{
			"title":   "ghosts",
			"members": []uint{u1.ID, 99999},
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body map[string]string
		decodeBody(t, resp, &body)
		assert.Equal(t, `Invalid pk "99999" - object does not exist.`, body["members"])

		var count int64
		db.Model(&models.Chat{}).Where("title = ?", "ghosts").Count(&count)
		assert.Zero(t, count)
	})
}

func TestGetChats(t *testing.T) {
	t.Parallel()
	_, app, db := newTestServer(t)

	u, _ := createTestUser(t, db, "Tess Hume", "tess@example.com")
	require.NoError(t, db.Create(&models.Chat{Title: "one", Members: []models.User{*u}}).Error)
	require.NoError(t, db.Create(&models.Chat{Title: "two"}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/chats/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var chats []map[string]any
	decodeBody(t, resp, &chats)
	require.Len(t, chats, 2)
	assert.Equal(t, "one", chats[0]["title"])
	assert.Len(t, chats[0]["members"], 1)
	assert.Empty(t, chats[1]["members"])
}

func TestGetChat(t *testing.T) {
	t.Parallel()
	_, app, db := newTestServer(t)

	chat := models.Chat{Title: "solo"}
	require.NoError(t, db.Create(&chat).Error)

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/chats/%d", chat.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	assert.Equal(t, "solo", body["title"])

	resp = doJSON(t, app, http.MethodGet, "/api/chats/999", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestUpdateChat(t *testing.T) {
	t.Parallel()
	_, app, db := newTestServer(t)

	u1, _ := createTestUser(t, db, "Uma Wren", "uma@example.com")
	u2, _ := createTestUser(t, db, "Vik Tor", "vik@example.com")

	chat := models.Chat{Title: "before", Members: []models.User{*u1}}
	require.NoError(t, db.Create(&chat).Error)
	path := fmt.Sprintf("/api/chats/%d", chat.ID)

	t.Run("put replaces members", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, path, "", map[string]any{
			"title":   "after",
			"members": []uint{u2.ID},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "after", body["title"])
		assert.ElementsMatch(t, []any{float64(u2.ID)}, body["members"])
	})

	t.Run("patch title only keeps members", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, path, "", map[string]any{
			"title": "renamed",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "renamed", body["title"])
		assert.Len(t, body["members"], 1)
	})

	t.Run("patch members to empty", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, path, "", map[string]any{
			"members": []uint{},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, "renamed", body["title"])
		assert.Empty(t, body["members"])
	})

	t.Run("put unknown chat", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/chats/99999", "", map[string]any{
			"title": "x",
		})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestDeleteChat_Cascades(t *testing.T) {
	t.Parallel()
	_, app, db := newTestServer(t)

	author, _ := createTestUser(t, db, "Wes Gray", "wes@example.com")
	chat := models.Chat{Title: "doomed", Members: []models.User{*author}}
	require.NoError(t, db.Create(&chat).Error)

	post := models.Post{AuthorID: author.ID, ChatID: &chat.ID, Title: "t", Content: "c"}
	require.NoError(t, db.Create(&post).Error)
	message := models.Message{ChatID: &chat.ID, AuthorID: &author.ID, Text: "hi"}
	require.NoError(t, db.Create(&message).Error)

	resp := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/chats/%d", chat.ID), "", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	// Posts in the chat are removed with it.
	var postCount int64
	db.Model(&models.Post{}).Where("id = ?", post.ID).Count(&postCount)
	assert.Zero(t, postCount)

	// Messages survive with the chat reference cleared.
	var stored models.Message
	require.NoError(t, db.First(&stored, message.ID).Error)
	assert.Nil(t, stored.ChatID)
	assert.NotNil(t, stored.AuthorID)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/chats/%d", chat.ID), "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestChatMessages(t *testing.T) {
	t.Parallel()
	_, app, db := newTestServer(t)

	user, token := createTestUser(t, db, "Xena Ray", "xena@example.com")
	chat := models.Chat{Title: "talk", Members: []models.User{*user}}
	require.NoError(t, db.Create(&chat).Error)
	base := fmt.Sprintf("/api/chats/%d/messages", chat.ID)

	t.Run("requires auth", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, base, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("send and list", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, base, token, map[string]any{"text": "hello there"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var sent map[string]any
		decodeBody(t, resp, &sent)
		assert.Equal(t, "hello there", sent["text"])
		assert.EqualValues(t, user.ID, sent["author"])
		assert.EqualValues(t, chat.ID, sent["chat"])

		// Text defaults to empty when the body is empty.
		resp = doJSON(t, app, http.MethodPost, base, token, nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var blank map[string]any
		decodeBody(t, resp, &blank)
		assert.Equal(t, "", blank["text"])

		resp = doJSON(t, app, http.MethodGet, base, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var messages []map[string]any
		decodeBody(t, resp, &messages)
		assert.Len(t, messages, 2)
	})

	t.Run("unknown chat", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/chats/99999/messages", token, map[string]any{"text": "x"})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
