package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/riskibarqy/matchday-bot/internal/domain/chat"
	"github.com/riskibarqy/matchday-bot/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChannelSecret = "testsecret"

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func signedRequest(body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Line-Signature", signature)
	return req
}

const mixedPayload = `{
  "destination": "U0000000000000000000000000000000a",
  "events": [
    {
      "type": "message",
      "message": {"type": "text", "id": "14353798921116", "text": "ตารางบอล"},
      "timestamp": 1625665242211,
      "source": {"type": "user", "userId": "U80696558e1aa831b1b0b8d1e12a8a6c5"},
      "replyToken": "757913772c4646b784d4b7ce46d12671",
      "mode": "active",
      "webhookEventId": "01FZ74A0TDDPYRVKNK77XKC3ZR",
      "deliveryContext": {"isRedelivery": false}
    },
    {
      "type": "message",
      "message": {"type": "sticker", "id": "14353798921117", "packageId": "11537", "stickerId": "52002734", "stickerResourceType": "STATIC"},
      "timestamp": 1625665242212,
      "source": {"type": "group", "groupId": "Ca56f94637c0000000000000000000000", "userId": "U80696558e1aa831b1b0b8d1e12a8a6c5"},
      "replyToken": "8cf9239d56244f4197887e939187e19e",
      "mode": "active",
      "webhookEventId": "01FZ74ASS536FW97EX38NKCZQK",
      "deliveryContext": {"isRedelivery": false}
    },
    {
      "type": "follow",
      "timestamp": 1625665242213,
      "source": {"type": "user", "userId": "U80696558e1aa831b1b0b8d1e12a8a6c5"},
      "replyToken": "bb173f4d9cf64aed9d408ab4e36339ad",
      "mode": "active",
      "webhookEventId": "01FZ74B5Y0F4TNKA5SCAVKPEDM",
      "deliveryContext": {"isRedelivery": false},
      "follow": {"isUnblocked": false}
    }
  ]
}`

func TestWebhookParser_ParsesEvents(t *testing.T) {
	t.Parallel()

	parser := NewWebhookParser(testChannelSecret)
	events, err := parser.Parse(signedRequest(mixedPayload, sign(testChannelSecret, mixedPayload)))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, chat.TextMessage{
		ReplyToken:     "757913772c4646b784d4b7ce46d12671",
		Text:           "ตารางบอล",
		SourceID:       "U80696558e1aa831b1b0b8d1e12a8a6c5",
		WebhookEventID: "01FZ74A0TDDPYRVKNK77XKC3ZR",
	}, events[0])
	assert.Equal(t, chat.OtherEvent{Type: "message/sticker"}, events[1])
	assert.Equal(t, chat.OtherEvent{Type: "follow"}, events[2])
}

func TestWebhookParser_EmptyEventsVerification(t *testing.T) {
	t.Parallel()

	body := `{"destination":"U0000000000000000000000000000000a","events":[]}`
	events, err := NewWebhookParser(testChannelSecret).Parse(signedRequest(body, sign(testChannelSecret, body)))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestWebhookParser_RejectsBadSignature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		signature string
	}{
		{name: "wrong secret", signature: sign("other-secret", mixedPayload)},
		{name: "missing", signature: ""},
		{name: "garbage", signature: "not-base64!"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWebhookParser(testChannelSecret).Parse(signedRequest(mixedPayload, tc.signature))
			require.Error(t, err)
			assert.True(t, errors.Is(err, usecase.ErrInvalidSignature), "got %v", err)
		})
	}
}

func TestWebhookParser_MalformedBody(t *testing.T) {
	t.Parallel()

	body := `{"events": [`
	_, err := NewWebhookParser(testChannelSecret).Parse(signedRequest(body, sign(testChannelSecret, body)))
	require.Error(t, err)
	assert.False(t, errors.Is(err, usecase.ErrInvalidSignature))
}
