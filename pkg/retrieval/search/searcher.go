package search

import (
	"context"
	"errors"

	"faq-chat-be/pkg/retrieval/access"
)

// VectorHit is one ranked passage from the similarity index. Score is a
// similarity measure, higher = more relevant. Hits are not deduplicated;
// distinct ids may repeat content across calls.
type VectorHit struct {
	Id          string  `json:"id"`
	PageContent string  `json:"pageContent"`
	Metadata    string  `json:"metadata"`
	Score       float64 `json:"score"`
}

// ErrSearchUnavailable wraps any transport or remote error of the vector
// search capability. The orchestrator treats it as a per-source, non-fatal
// failure.
var ErrSearchUnavailable = errors.New("vector search unavailable")

// VectorSearcher is the thin contract over the similarity search
// capability: hits come back ordered by descending score, truncated to topK.
type VectorSearcher interface {
	Search(ctx context.Context, queryText string, topK int, filter access.Filter) ([]VectorHit, error)
}
