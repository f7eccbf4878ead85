// Package telegram is a thin client for the Telegram Bot API, covering the
// handful of methods this service calls.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIBase is the public Bot API endpoint.
const DefaultAPIBase = "https://api.telegram.org"

// Client calls Bot API methods over HTTPS.
type Client struct {
	token      string
	apiBase    string
	httpClient *http.Client
}

// NewClient creates a client. An empty apiBase falls back to the public
// endpoint.
func NewClient(token, apiBase string) *Client {
	if strings.TrimSpace(apiBase) == "" {
		apiBase = DefaultAPIBase
	}
	return &Client{
		token:   strings.TrimSpace(token),
		apiBase: strings.TrimRight(strings.TrimSpace(apiBase), "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendMessage delivers text to a chat. replyMarkup may be a
// ReplyKeyboardMarkup, a ReplyKeyboardRemove, or nil.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, replyMarkup any) error {
	body := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if replyMarkup != nil {
		body["reply_markup"] = replyMarkup
	}
	return c.call(ctx, "sendMessage", body)
}

// SetWebhook points the bot's webhook at url. A non-empty secret is echoed
// back by Telegram in the X-Telegram-Bot-Api-Secret-Token header of every
// update.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	body := map[string]any{"url": url}
	if secret != "" {
		body["secret_token"] = secret
	}
	return c.call(ctx, "setWebhook", body)
}

// DeleteWebhook removes any previously registered webhook.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.call(ctx, "deleteWebhook", map[string]any{})
}

func (c *Client) call(ctx context.Context, method string, body map[string]any) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}
	defer res.Body.Close()

	var response struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !response.OK {
		return fmt.Errorf("telegram %s failed: %s", method, response.Description)
	}
	return nil
}
