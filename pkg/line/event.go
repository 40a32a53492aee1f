package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// Event kinds the engine reacts to. Anything else is skipped.
const (
	EventTypeMessage  = "message"
	EventTypePostback = "postback"
	EventTypeFollow   = "follow"
)

// ErrInvalidSignature is returned when the webhook body does not match
// the X-Line-Signature header.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Source identifies who triggered an event.
type Source struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

// MessageContent is the inner message of a message event.
type MessageContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Postback carries the data payload of a pressed postback button.
type Postback struct {
	Data string `json:"data"`
}

// Event is one entry of a webhook delivery.
type Event struct {
	Type       string          `json:"type"`
	ReplyToken string          `json:"replyToken"`
	Source     *Source         `json:"source"`
	Message    *MessageContent `json:"message,omitempty"`
	Postback   *Postback       `json:"postback,omitempty"`
}

type webhookBody struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// ValidateSignature checks the HMAC-SHA256 signature of body against the
// channel secret. The signature is the base64 value of the
// X-Line-Signature header.
func ValidateSignature(channelSecret string, body []byte, signature string) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return subtle.ConstantTimeCompare(decoded, mac.Sum(nil)) == 1
}

// ParseWebhook verifies the signature and decodes the webhook envelope
// into events. Returns ErrInvalidSignature when verification fails.
func ParseWebhook(channelSecret string, body []byte, signature string) ([]Event, error) {
	if !ValidateSignature(channelSecret, body, signature) {
		return nil, ErrInvalidSignature
	}
	var envelope webhookBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode webhook body: %w", err)
	}
	return envelope.Events, nil
}
