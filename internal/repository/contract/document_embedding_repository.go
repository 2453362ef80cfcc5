package contract

import (
	"context"

	"faq-chat-be/internal/entity"
	"faq-chat-be/internal/repository/specification"
	"faq-chat-be/pkg/retrieval/access"

	"github.com/google/uuid"
)

// ScoredDocumentEmbedding wraps DocumentEmbedding with its similarity score
type ScoredDocumentEmbedding struct {
	Embedding  *entity.DocumentEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.DocumentEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns documents visible through the access
	// filter, ordered by cosine similarity.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, filter access.Filter) ([]*ScoredDocumentEmbedding, error)
}
