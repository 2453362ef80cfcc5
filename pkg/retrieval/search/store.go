package search

import (
	"context"
	"fmt"

	"faq-chat-be/internal/repository/contract"
	"faq-chat-be/pkg/embedding"
	"faq-chat-be/pkg/retrieval/access"
)

// StoreSearcher serves similarity search from the local pgvector table
// instead of a remote index. The query text is embedded on the fly, then
// ranked by cosine similarity with the access filter applied in SQL.
type StoreSearcher struct {
	provider   embedding.EmbeddingProvider
	repository contract.DocumentEmbeddingRepository
}

func NewStoreSearcher(provider embedding.EmbeddingProvider, repository contract.DocumentEmbeddingRepository) *StoreSearcher {
	return &StoreSearcher{
		provider:   provider,
		repository: repository,
	}
}

func (s *StoreSearcher) Search(ctx context.Context, queryText string, topK int, filter access.Filter) ([]VectorHit, error) {
	resp, err := s.provider.Generate(queryText, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrSearchUnavailable, err)
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ErrSearchUnavailable)
	}

	scored, err := s.repository.SearchSimilarWithScore(ctx, resp.Embedding.Values, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}

	hits := make([]VectorHit, len(scored))
	for i, sc := range scored {
		hits[i] = VectorHit{
			Id:          sc.Embedding.Id.String(),
			PageContent: sc.Embedding.Content,
			Metadata:    sc.Embedding.FileName,
			Score:       sc.Similarity,
		}
	}
	return hits, nil
}
