package history

import (
	"context"

	"faq-chat-be/internal/entity"
	"faq-chat-be/internal/repository/contract"
	"faq-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// Loader reads a bounded suffix of a session's conversation log. The log is
// append-only and chronological; the loader never mutates it, only trims.
type Loader struct {
	messages contract.ChatMessageRepository
	window   int
}

const defaultWindow = 20

func NewLoader(messages contract.ChatMessageRepository, window int) *Loader {
	if window <= 0 {
		window = defaultWindow
	}
	return &Loader{
		messages: messages,
		window:   window,
	}
}

// Load returns the last `window` messages of the session in chronological
// order. Shorter logs come back whole.
func (l *Loader) Load(ctx context.Context, sessionId uuid.UUID) ([]*entity.ChatMessage, error) {
	messages, err := l.messages.FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	return Bound(messages, l.window), nil
}

// Bound trims a chronological log to its last n entries, preserving order.
func Bound(messages []*entity.ChatMessage, n int) []*entity.ChatMessage {
	if n <= 0 || len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
