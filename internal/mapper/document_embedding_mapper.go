package mapper

import (
	"faq-chat-be/internal/entity"
	"faq-chat-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type DocumentEmbeddingMapper struct{}

func NewDocumentEmbeddingMapper() *DocumentEmbeddingMapper {
	return &DocumentEmbeddingMapper{}
}

func (m *DocumentEmbeddingMapper) ToModel(e *entity.DocumentEmbedding) *model.DocumentEmbedding {
	return &model.DocumentEmbedding{
		Id:             e.Id,
		FileName:       e.FileName,
		Content:        e.Content,
		ChatType:       e.ChatType,
		AuthExecutive:  e.AuthExecutive,
		AuthManager:    e.AuthManager,
		AuthEmployee:   e.AuthEmployee,
		AuthContract:   e.AuthContract,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *DocumentEmbeddingMapper) ToEntity(md *model.DocumentEmbedding) *entity.DocumentEmbedding {
	return &entity.DocumentEmbedding{
		Id:            md.Id,
		FileName:      md.FileName,
		Content:       md.Content,
		ChatType:      md.ChatType,
		AuthExecutive: md.AuthExecutive,
		AuthManager:   md.AuthManager,
		AuthEmployee:  md.AuthEmployee,
		AuthContract:  md.AuthContract,
		Embedding:     md.EmbeddingValue.Slice(),
		CreatedAt:     md.CreatedAt,
	}
}
