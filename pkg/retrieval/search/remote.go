package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"faq-chat-be/pkg/retrieval/access"
)

// RemoteSearcher talks to a cognitive-search-style REST index. The access
// filter is rendered to the service's OData-style filter expression.
type RemoteSearcher struct {
	Endpoint  string
	IndexName string
	APIKey    string
	Client    *http.Client
}

var _ VectorSearcher = &RemoteSearcher{}

func NewRemoteSearcher(endpoint, indexName, apiKey string) *RemoteSearcher {
	return &RemoteSearcher{
		Endpoint:  endpoint,
		IndexName: indexName,
		APIKey:    apiKey,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type remoteSearchRequest struct {
	Search string `json:"search"`
	Filter string `json:"filter,omitempty"`
	Top    int    `json:"top"`
}

type remoteSearchDocument struct {
	Id          string  `json:"id"`
	PageContent string  `json:"pageContent"`
	Metadata    string  `json:"metadata"`
	Score       float64 `json:"@search.score"`
}

type remoteSearchResponse struct {
	Value []remoteSearchDocument `json:"value"`
}

func (s *RemoteSearcher) Search(ctx context.Context, queryText string, topK int, filter access.Filter) ([]VectorHit, error) {
	if topK <= 0 {
		topK = 10
	}

	payload := remoteSearchRequest{
		Search: queryText,
		Filter: filter.Render(),
		Top:    topK,
	}
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrSearchUnavailable, err)
	}

	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=2023-11-01", s.Endpoint, s.IndexName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrSearchUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrSearchUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrSearchUnavailable, resp.StatusCode, string(bodyBytes))
	}

	var searchResp remoteSearchResponse
	if err := json.Unmarshal(bodyBytes, &searchResp); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", ErrSearchUnavailable, err)
	}

	hits := make([]VectorHit, 0, len(searchResp.Value))
	for _, doc := range searchResp.Value {
		hits = append(hits, VectorHit{
			Id:          doc.Id,
			PageContent: doc.PageContent,
			Metadata:    doc.Metadata,
			Score:       doc.Score,
		})
	}

	// The service returns ranked results, but the contract is ours to keep
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}
