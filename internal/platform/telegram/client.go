package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultAPIBaseURL = "https://api.telegram.org"

// Client is a minimal Telegram Bot API client covering the calls the
// operator channel needs: sendMessage, sendPhoto and answerCallbackQuery.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	chatID     string
}

// NewClient creates a bot client bound to a single operator chat. An empty
// token or chat ID yields a disabled client; callers should check Enabled.
func NewClient(token, chatID string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultAPIBaseURL,
		token:      token,
		chatID:     chatID,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a fake server.
func NewClientWithBaseURL(token, chatID, baseURL string) *Client {
	c := NewClient(token, chatID)
	c.baseURL = baseURL
	return c
}

// Enabled reports whether the client has credentials to talk to the API.
func (c *Client) Enabled() bool {
	return c.token != "" && c.chatID != ""
}

// InlineKeyboardButton is a single button on an inline keyboard.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

// InlineKeyboardMarkup is the inline keyboard attached to a message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s call failed: %w", method, err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram %s rejected: %d %s", method, apiResp.ErrorCode, apiResp.Description)
	}
	return nil
}

// SendMessage sends an HTML-formatted message to the operator chat.
func (c *Client) SendMessage(ctx context.Context, text string, markup *InlineKeyboardMarkup) error {
	payload := map[string]any{
		"chat_id":    c.chatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendMessage", payload)
}

// SendPhoto sends a photo by URL with an HTML caption. Callers fall back to
// SendMessage when Telegram cannot fetch the photo.
func (c *Client) SendPhoto(ctx context.Context, photoURL, caption string, markup *InlineKeyboardMarkup) error {
	payload := map[string]any{
		"chat_id":    c.chatID,
		"photo":      photoURL,
		"caption":    caption,
		"parse_mode": "HTML",
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	return c.call(ctx, "sendPhoto", payload)
}

// AnswerCallbackQuery acknowledges a button press so the operator's client
// stops showing a spinner.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID, text string) error {
	payload := map[string]any{
		"callback_query_id": callbackQueryID,
	}
	if text != "" {
		payload["text"] = text
	}
	return c.call(ctx, "answerCallbackQuery", payload)
}
