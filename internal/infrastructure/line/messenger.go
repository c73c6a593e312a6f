package line

import (
	"context"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
	"github.com/riskibarqy/matchday-bot/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout = 10 * time.Second
	// maxTextLength is the LINE limit for one text message.
	maxTextLength = 5000
	// maxMessagesPerRequest is the LINE limit for reply and broadcast.
	maxMessagesPerRequest = 5
)

type ClientConfig struct {
	HTTPClient   *http.Client
	ChannelToken string
	BaseURL      string
	Timeout      time.Duration
	Logger       *logging.Logger
}

// Messenger sends text through the LINE Messaging API.
type Messenger struct {
	api    *messaging_api.MessagingApiAPI
	logger *logging.Logger
	newKey func() string
}

func NewMessenger(cfg ClientConfig) (*Messenger, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.ChannelToken) == "" {
		return nil, crerr.New("line channel access token is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	opts := []messaging_api.MessagingApiAPIOption{messaging_api.WithHTTPClient(httpClient)}
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); baseURL != "" {
		opts = append(opts, messaging_api.WithEndpoint(baseURL))
	}

	api, err := messaging_api.NewMessagingApiAPI(cfg.ChannelToken, opts...)
	if err != nil {
		return nil, crerr.Wrap(err, "build line messaging client")
	}

	return &Messenger{
		api:    api,
		logger: logger,
		newKey: uuid.NewString,
	}, nil
}

// Reply answers one inbound event. A reply token is single use.
func (m *Messenger) Reply(ctx context.Context, replyToken, text string) error {
	_, err := m.api.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   m.textMessages(ctx, text),
	})
	if err != nil {
		return crerr.Wrapf(usecase.ErrDelivery, "reply message: %v", err)
	}
	return nil
}

// Broadcast sends text to every friend of the channel. The retry key makes a
// resend of the same request idempotent on the LINE side.
func (m *Messenger) Broadcast(ctx context.Context, text string) error {
	retryKey := m.newKey()
	_, err := m.api.WithContext(ctx).Broadcast(&messaging_api.BroadcastRequest{
		Messages: m.textMessages(ctx, text),
	}, retryKey)
	if err != nil {
		return crerr.Wrapf(usecase.ErrDelivery, "broadcast message (retry key %s): %v", retryKey, err)
	}
	return nil
}

func (m *Messenger) textMessages(ctx context.Context, text string) []messaging_api.MessageInterface {
	chunks := splitText(text, maxTextLength)
	if len(chunks) > maxMessagesPerRequest {
		m.logger.WarnContext(ctx, "report truncated to line message limit",
			"chunks", len(chunks),
			"max_messages", maxMessagesPerRequest,
		)
		chunks = chunks[:maxMessagesPerRequest]
	}

	out := make([]messaging_api.MessageInterface, 0, len(chunks))
	for _, chunk := range chunks {
		out = append(out, messaging_api.TextMessage{Text: chunk})
	}
	return out
}
