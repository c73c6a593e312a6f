package chat

// Event is an inbound platform event. The set of implementations is closed:
// TextMessage and OtherEvent.
type Event interface {
	isEvent()
}

// TextMessage is a user-sent text message that can be answered once through
// ReplyToken.
type TextMessage struct {
	ReplyToken     string
	Text           string
	SourceID       string
	WebhookEventID string
}

// OtherEvent is any event the bot does not act on.
type OtherEvent struct {
	Type string
}

func (TextMessage) isEvent() {}
func (OtherEvent) isEvent()  {}
