// Package notify delivers review events to the admin channel.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/accountbot/api/internal/domain"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram sends review events as Bot API messages to the admin chat.
type Telegram struct {
	baseURL string
	token   string
	chatID  string
	client  *http.Client
}

func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		baseURL: telegramAPIBase,
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewTelegramWithBase points the client at an alternate API host, for tests.
func NewTelegramWithBase(baseURL, token, chatID string) *Telegram {
	t := NewTelegram(token, chatID)
	t.baseURL = baseURL
	return t
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (t *Telegram) NotifyReview(ctx context.Context, event domain.ReviewEvent) error {
	verdict := "Working"
	if event.Outcome == domain.OutcomeNotWorking {
		verdict = "Not working"
	}
	text := fmt.Sprintf(
		"<b>New review received</b>\nUser ID: <code>%d</code>\nPlatform: <b>%s</b>\nAccount: <code>%s</code>\nReview: <b>%s</b>",
		event.UserID,
		html.EscapeString(event.Platform),
		html.EscapeString(event.Credential),
		verdict,
	)

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    t.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	var apiResp sendMessageResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&apiResp); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, apiResp.Description)
	}
	return nil
}
