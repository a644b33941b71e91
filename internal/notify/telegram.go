package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

// DefaultAPIURL is the Telegram Bot API root.
const DefaultAPIURL = "https://api.telegram.org"

// parseMode is Telegram's legacy Markdown, where *text* is bold.
const parseMode = "Markdown"

// APIError is returned when Telegram rejects a message.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("telegram returned status %d: %s", e.StatusCode, e.Description)
}

// TelegramClient posts messages through a bot's sendMessage method.
type TelegramClient struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewTelegramClient constructs a TelegramClient for the given bot token.
func NewTelegramClient(token string) *TelegramClient {
	return NewTelegramClientWithURL(DefaultAPIURL, token)
}

// NewTelegramClientWithURL constructs a TelegramClient pointing at a custom API root (for tests).
func NewTelegramClientWithURL(baseURL, token string) *TelegramClient {
	return &TelegramClient{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: httpTimeout},
	}
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers text to one chat. The bot token is part of the request path,
// so it is kept out of every returned error.
func (c *TelegramClient) Send(ctx context.Context, chatID, text string) error {
	form := url.Values{}
	form.Set("chat_id", chatID)
	form.Set("text", text)
	form.Set("parse_mode", parseMode)

	endpoint := c.baseURL + "/bot" + c.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.New("creating sendMessage request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("POST sendMessage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body sendMessageResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
			apiErr.Description = body.Description
		}
		return apiErr
	}

	return nil
}
