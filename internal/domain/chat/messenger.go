package chat

import "context"

// Messenger delivers plain text to the chat platform.
type Messenger interface {
	Reply(ctx context.Context, replyToken, text string) error
	Broadcast(ctx context.Context, text string) error
}
