package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultEndpoint = "https://api.line.me"

// APIError is a non-2xx response from the Messaging API. The body is kept
// verbatim so the transport layer can surface it.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("messaging api returned %d: %s", e.StatusCode, e.Body)
}

// Client delivers replies through the Messaging API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEndpoint overrides the API base URL (used in tests).
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// NewClient creates a delivery client authenticated with the channel
// access token.
func NewClient(channelToken string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   defaultEndpoint,
		token:      channelToken,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reply sends the ordered messages correlated by the reply token.
// Delivery failures are returned as *APIError; the caller decides how to
// surface them. No retries happen here.
func (c *Client) Reply(ctx context.Context, replyToken string, messages []Message) error {
	payload, err := json.Marshal(Reply{ReplyToken: replyToken, Messages: messages})
	if err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v2/bot/message/reply", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build reply request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reply request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &APIError{StatusCode: res.StatusCode, Body: string(body)}
	}
	return nil
}
