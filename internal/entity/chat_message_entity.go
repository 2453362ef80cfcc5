package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one entry in a session's append-only conversation log.
// ContextSnapshot carries the serialized evidence used to ground an
// assistant message, kept for audit and debugging.
type ChatMessage struct {
	Id              uuid.UUID
	Content         string
	Role            string
	ChatSessionId   uuid.UUID
	ContextSnapshot []byte
	CreatedAt       time.Time
}
