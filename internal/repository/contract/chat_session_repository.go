package contract

import (
	"context"

	"faq-chat-be/internal/entity"
	"faq-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	Update(ctx context.Context, session *entity.ChatSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	// Delete removes the session row and all of its messages atomically.
	Delete(ctx context.Context, sessionId uuid.UUID) error
}
