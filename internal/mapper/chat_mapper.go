package mapper

import (
	"faq-chat-be/internal/entity"
	"faq-chat-be/internal/model"

	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) SessionToModel(e *entity.ChatSession) *model.ChatSession {
	return &model.ChatSession{
		Id:        e.Id,
		UserId:    e.UserId,
		Title:     e.Title,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *ChatMapper) SessionToEntity(md *model.ChatSession) *entity.ChatSession {
	return &entity.ChatSession{
		Id:        md.Id,
		UserId:    md.UserId,
		Title:     md.Title,
		CreatedAt: md.CreatedAt,
		UpdatedAt: md.UpdatedAt,
	}
}

func (m *ChatMapper) MessageToModel(e *entity.ChatMessage) *model.ChatMessage {
	return &model.ChatMessage{
		Id:              e.Id,
		Content:         e.Content,
		Role:            e.Role,
		ChatSessionId:   e.ChatSessionId,
		ContextSnapshot: datatypes.JSON(e.ContextSnapshot),
		CreatedAt:       e.CreatedAt,
	}
}

func (m *ChatMapper) MessageToEntity(md *model.ChatMessage) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:              md.Id,
		Content:         md.Content,
		Role:            md.Role,
		ChatSessionId:   md.ChatSessionId,
		ContextSnapshot: []byte(md.ContextSnapshot),
		CreatedAt:       md.CreatedAt,
	}
}
