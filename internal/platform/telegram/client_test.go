package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneta-ict/moneta-backend/internal/platform/telegram"
)

func TestClient_Enabled(t *testing.T) {
	assert.True(t, telegram.NewClient("token", "chat").Enabled())
	assert.False(t, telegram.NewClient("", "chat").Enabled())
	assert.False(t, telegram.NewClient("token", "").Enabled())
}

func TestClient_SendMessage(t *testing.T) {
	var gotPath string
	var gotPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer server.Close()

	client := telegram.NewClientWithBaseURL("bot-token", "chat-1", server.URL)
	err := client.SendMessage(context.Background(), "<b>hello</b>", &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{{{Text: "Approve", CallbackData: "approve_X"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "chat-1", gotPayload["chat_id"])
	assert.Equal(t, "HTML", gotPayload["parse_mode"])
	assert.NotNil(t, gotPayload["reply_markup"])
}

func TestClient_SendPhotoRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":          false,
			"error_code":  400,
			"description": "wrong file identifier",
		})
	}))
	defer server.Close()

	client := telegram.NewClientWithBaseURL("bot-token", "chat-1", server.URL)
	err := client.SendPhoto(context.Background(), "http://nowhere/img.png", "caption", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong file identifier")
}

func TestClient_AnswerCallbackQuery(t *testing.T) {
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer server.Close()

	client := telegram.NewClientWithBaseURL("bot-token", "chat-1", server.URL)
	err := client.AnswerCallbackQuery(context.Background(), "cb1", "done")
	require.NoError(t, err)

	assert.Equal(t, "cb1", gotPayload["callback_query_id"])
	assert.Equal(t, "done", gotPayload["text"])
}
