package aggregate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"faq-chat-be/internal/pkg/logger"
	"faq-chat-be/pkg/retrieval/access"
	"faq-chat-be/pkg/retrieval/extract"
	"faq-chat-be/pkg/retrieval/search"
)

// AnswerSource drives one agent conversation to completion and returns its
// free-text answer.
type AnswerSource interface {
	Answer(ctx context.Context, query string) (string, error)
}

// AggregatedEvidence is the merged output of one fan-out. AnswerText holds
// the failure notice when the agent branch failed; VectorHits is empty when
// the vector branch failed. Both empty is the "no evidence" terminal case.
type AggregatedEvidence struct {
	AnswerText    string                 `json:"answerText"`
	Citations     []extract.Citation     `json:"citations"`
	SearchResults []extract.SearchResult `json:"searchResults"`
	VectorHits    []search.VectorHit     `json:"vectorHits"`
}

// ErrNoSources signals a misconfigured aggregator, surfaced before any
// fan-out begins.
var ErrNoSources = errors.New("aggregator has no evidence sources")

const (
	agentFailureNotice   = "The search agent could not complete this request."
	vectorSupplementHead = "## Document Search Results"
)

// Aggregator runs the agent conversation and the vector search concurrently
// and merges their outcomes. Either source may be nil; that branch is then
// skipped. A branch failure degrades only that branch's contribution.
type Aggregator struct {
	agent    AnswerSource
	searcher search.VectorSearcher
	topK     int
	log      logger.ILogger
}

func NewAggregator(agent AnswerSource, searcher search.VectorSearcher, topK int, log logger.ILogger) *Aggregator {
	if topK <= 0 {
		topK = 5
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Aggregator{
		agent:    agent,
		searcher: searcher,
		topK:     topK,
		log:      log,
	}
}

type agentOutcome struct {
	answer string
	err    error
}

type vectorOutcome struct {
	hits []search.VectorHit
	err  error
}

// Aggregate fans out to both sources, waits for both to reach a terminal
// outcome, and merges. It returns an error only for configuration faults
// detected before the fan-out; per-branch failures are folded into the
// returned evidence.
func (a *Aggregator) Aggregate(ctx context.Context, query string, filter access.Filter) (*AggregatedEvidence, error) {
	if a.agent == nil && a.searcher == nil {
		return nil, ErrNoSources
	}

	var (
		wg     sync.WaitGroup
		agent  agentOutcome
		vector vectorOutcome
	)

	if a.agent != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agent.answer, agent.err = a.agent.Answer(ctx, query)
		}()
	}
	if a.searcher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vector.hits, vector.err = a.searcher.Search(ctx, query, a.topK, filter)
		}()
	}
	wg.Wait()

	evidence := &AggregatedEvidence{
		Citations:     []extract.Citation{},
		SearchResults: []extract.SearchResult{},
		VectorHits:    []search.VectorHit{},
	}

	if a.agent != nil {
		if agent.err != nil {
			a.log.Warn("aggregator", "agent branch failed", map[string]interface{}{
				"error": agent.err.Error(),
			})
			evidence.AnswerText = agentFailureNotice
		} else {
			extraction := extract.Parse(agent.answer)
			evidence.AnswerText = agent.answer
			evidence.Citations = extraction.Citations
			evidence.SearchResults = extraction.SearchResults
		}
	}

	if a.searcher != nil {
		if vector.err != nil {
			a.log.Warn("aggregator", "vector branch failed", map[string]interface{}{
				"error": vector.err.Error(),
			})
		} else {
			evidence.VectorHits = vector.hits
			if len(vector.hits) > 0 && evidence.AnswerText != "" {
				evidence.AnswerText = evidence.AnswerText + "\n\n" + vectorSupplementHead + "\n" + formatVectorHits(vector.hits)
			}
		}
	}

	a.log.Info("aggregator", "fan-out merged", map[string]interface{}{
		"citations":  len(evidence.Citations),
		"vectorHits": len(evidence.VectorHits),
	})
	return evidence, nil
}

const supplementContentLimit = 300

// formatVectorHits renders hits as the markdown supplement appended to the
// agent answer.
func formatVectorHits(hits []search.VectorHit) string {
	blocks := make([]string, len(hits))
	for i, hit := range hits {
		content := collapseWhitespace(hit.PageContent)
		if len([]rune(content)) > supplementContentLimit {
			content = string([]rune(content)[:supplementContentLimit]) + "..."
		}
		blocks[i] = fmt.Sprintf("### Document %d\n**File**: %s\n**Score**: %.3f\n\n**Content**:\n%s",
			i+1, hit.Metadata, hit.Score, content)
	}
	return strings.Join(blocks, "\n\n")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
