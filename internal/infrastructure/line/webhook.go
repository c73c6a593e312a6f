package line

import (
	"errors"
	"net/http"

	crerr "github.com/cockroachdb/errors"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/riskibarqy/matchday-bot/internal/domain/chat"
	"github.com/riskibarqy/matchday-bot/internal/usecase"
)

// WebhookParser verifies X-Line-Signature and converts the payload into
// chat events.
type WebhookParser struct {
	channelSecret string
}

func NewWebhookParser(channelSecret string) *WebhookParser {
	return &WebhookParser{channelSecret: channelSecret}
}

// Parse consumes r.Body. A bad signature is reported as
// usecase.ErrInvalidSignature.
func (p *WebhookParser) Parse(r *http.Request) ([]chat.Event, error) {
	cb, err := webhook.ParseRequest(p.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			return nil, crerr.WithStack(usecase.ErrInvalidSignature)
		}
		return nil, crerr.Wrap(err, "parse line webhook")
	}

	events := make([]chat.Event, 0, len(cb.Events))
	for _, ev := range cb.Events {
		events = append(events, toEvent(ev))
	}
	return events, nil
}

func toEvent(ev webhook.EventInterface) chat.Event {
	switch e := ev.(type) {
	case webhook.MessageEvent:
		text, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			if e.Message == nil {
				return chat.OtherEvent{Type: "message"}
			}
			return chat.OtherEvent{Type: "message/" + e.Message.GetType()}
		}
		return chat.TextMessage{
			ReplyToken:     e.ReplyToken,
			Text:           text.Text,
			SourceID:       sourceID(e.Source),
			WebhookEventID: e.WebhookEventId,
		}
	default:
		if ev == nil {
			return chat.OtherEvent{Type: "unknown"}
		}
		return chat.OtherEvent{Type: ev.GetType()}
	}
}

func sourceID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.GroupId
	case webhook.RoomSource:
		return s.RoomId
	default:
		return ""
	}
}
