package retrieval

import (
	"context"
	"errors"
	"testing"

	"faq-chat-be/internal/pkg/logger"
	"faq-chat-be/pkg/llm"
	"faq-chat-be/pkg/retrieval/access"
	"faq-chat-be/pkg/retrieval/aggregate"
	"faq-chat-be/pkg/retrieval/search"
	"faq-chat-be/pkg/retrieval/window"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.response, f.err
}

type capturingSearcher struct {
	gotQuery  string
	gotFilter access.Filter
	hits      []search.VectorHit
}

func (c *capturingSearcher) Search(ctx context.Context, queryText string, topK int, filter access.Filter) ([]search.VectorHit, error) {
	c.gotQuery = queryText
	c.gotFilter = filter
	return c.hits, nil
}

func newTestOrchestrator(reformulator llm.LLMProvider, searcher search.VectorSearcher) *Orchestrator {
	agg := aggregate.NewAggregator(nil, searcher, 5, logger.NewNopLogger())
	return NewOrchestrator(reformulator, agg, logger.NewNopLogger())
}

func TestReformulateProtocolLine(t *testing.T) {
	reformulator := &fakeLLM{response: "Some preamble\nOPTIMIZED_QUERY: vacation policy carryover days"}
	searcher := &capturingSearcher{}

	o := newTestOrchestrator(reformulator, searcher)
	_, err := o.Retrieve(context.Background(), Query{
		RawText:  "how many vacation days can I carry over?",
		UserRole: access.RoleEmployee,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searcher.gotQuery != "vacation policy carryover days" {
		t.Errorf("search query = %q, want the optimized query", searcher.gotQuery)
	}
}

func TestReformulateFallsBackToRawResponse(t *testing.T) {
	// no protocol line, but a usable rewrite
	reformulator := &fakeLLM{response: "vacation day carryover rules"}
	searcher := &capturingSearcher{}

	o := newTestOrchestrator(reformulator, searcher)
	if _, err := o.Retrieve(context.Background(), Query{RawText: "original question"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searcher.gotQuery != "vacation day carryover rules" {
		t.Errorf("search query = %q", searcher.gotQuery)
	}
}

func TestReformulateFailureUsesRawText(t *testing.T) {
	reformulator := &fakeLLM{err: errors.New("model offline")}
	searcher := &capturingSearcher{}

	o := newTestOrchestrator(reformulator, searcher)
	if _, err := o.Retrieve(context.Background(), Query{RawText: "original question"}); err != nil {
		t.Fatalf("reformulation failure must not fail retrieval: %v", err)
	}
	if searcher.gotQuery != "original question" {
		t.Errorf("search query = %q, want the raw text", searcher.gotQuery)
	}
}

func TestRetrieveAppliesScopedFilter(t *testing.T) {
	searcher := &capturingSearcher{}

	o := newTestOrchestrator(nil, searcher)
	_, err := o.Retrieve(context.Background(), Query{
		RawText:   "q",
		UserRole:  access.RoleManager,
		UserID:    "user-7",
		SessionID: "session-2",
		ChatType:  "faq",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !searcher.gotFilter.Allows(access.RoleContract) || searcher.gotFilter.Allows(access.RoleExecutive) {
		t.Errorf("manager filter wrong: %+v", searcher.gotFilter)
	}
	if searcher.gotFilter.UserID != "user-7" || searcher.gotFilter.ThreadID != "session-2" || searcher.gotFilter.ChatType != "faq" {
		t.Errorf("session scope missing: %+v", searcher.gotFilter)
	}
}

func TestRetrieveNoEvidenceRendersSentinel(t *testing.T) {
	searcher := &capturingSearcher{} // returns no hits

	o := newTestOrchestrator(nil, searcher)
	result, err := o.Retrieve(context.Background(), Query{RawText: "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Context != window.NoEvidenceSentinel {
		t.Errorf("context = %q, want sentinel", result.Context)
	}
	if result.Evidence == nil {
		t.Error("evidence must be non-nil")
	}
}

func TestRetrieveWithoutAggregator(t *testing.T) {
	o := NewOrchestrator(nil, nil, logger.NewNopLogger())
	if _, err := o.Retrieve(context.Background(), Query{RawText: "q"}); !errors.Is(err, aggregate.ErrNoSources) {
		t.Errorf("err = %v, want ErrNoSources", err)
	}
}
