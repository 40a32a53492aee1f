package line_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizline/chatflow/pkg/line"
)

const testSecret = "channel-secret"

func sign(t *testing.T, secret string, body []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature(t *testing.T) {
	body := []byte(`{"events":[]}`)

	assert.True(t, line.ValidateSignature(testSecret, body, sign(t, testSecret, body)))
	assert.False(t, line.ValidateSignature(testSecret, body, sign(t, "other-secret", body)))
	assert.False(t, line.ValidateSignature(testSecret, []byte(`tampered`), sign(t, testSecret, body)))
	assert.False(t, line.ValidateSignature(testSecret, body, "not-base64!!!"))
}

func TestParseWebhook(t *testing.T) {
	body := []byte(`{
		"destination": "U_dest",
		"events": [
			{
				"type": "message",
				"replyToken": "rt-1",
				"source": {"type": "user", "userId": "U1"},
				"message": {"type": "text", "text": "hello"}
			},
			{
				"type": "postback",
				"replyToken": "rt-2",
				"source": {"type": "user", "userId": "U2"},
				"postback": {"data": "q=q1&a=A"}
			}
		]
	}`)

	events, err := line.ParseWebhook(testSecret, body, sign(t, testSecret, body))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, line.EventTypeMessage, events[0].Type)
	assert.Equal(t, "U1", events[0].Source.UserID)
	assert.Equal(t, "hello", events[0].Message.Text)

	assert.Equal(t, line.EventTypePostback, events[1].Type)
	assert.Equal(t, "q=q1&a=A", events[1].Postback.Data)
}

func TestParseWebhook_BadSignature(t *testing.T) {
	body := []byte(`{"events":[]}`)

	_, err := line.ParseWebhook(testSecret, body, sign(t, "wrong", body))
	assert.ErrorIs(t, err, line.ErrInvalidSignature)
}
