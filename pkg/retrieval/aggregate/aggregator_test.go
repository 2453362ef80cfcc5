package aggregate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"faq-chat-be/internal/pkg/logger"
	"faq-chat-be/pkg/retrieval/access"
	"faq-chat-be/pkg/retrieval/search"
)

type fakeAnswerSource struct {
	answer string
	err    error
}

func (f *fakeAnswerSource) Answer(ctx context.Context, query string) (string, error) {
	return f.answer, f.err
}

type fakeSearcher struct {
	hits []search.VectorHit
	err  error
}

func (f *fakeSearcher) Search(ctx context.Context, queryText string, topK int, filter access.Filter) ([]search.VectorHit, error) {
	return f.hits, f.err
}

func testFilter() access.Filter {
	return access.BuildFilter(access.RoleEmployee)
}

func TestAggregateBothSucceed(t *testing.T) {
	agent := &fakeAnswerSource{answer: "Answer with [source](https://example.com/doc)."}
	searcher := &fakeSearcher{hits: []search.VectorHit{
		{Id: "d1", PageContent: "relevant passage", Metadata: "handbook.md", Score: 0.91},
	}}

	agg := NewAggregator(agent, searcher, 5, logger.NewNopLogger())
	got, err := agg.Aggregate(context.Background(), "query", testFilter())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(got.AnswerText, "Answer with") {
		t.Errorf("answerText should start with the agent answer: %q", got.AnswerText)
	}
	if !strings.Contains(got.AnswerText, vectorSupplementHead) {
		t.Errorf("answerText should carry the vector supplement: %q", got.AnswerText)
	}
	if len(got.Citations) != 1 || got.Citations[0].Url != "https://example.com/doc" {
		t.Errorf("citations = %+v", got.Citations)
	}
	if len(got.VectorHits) != 1 {
		t.Errorf("vectorHits = %+v", got.VectorHits)
	}
}

func TestAggregateAgentFails(t *testing.T) {
	agent := &fakeAnswerSource{err: errors.New("run timed out")}
	searcher := &fakeSearcher{hits: []search.VectorHit{
		{Id: "d1", PageContent: "passage one", Metadata: "a.md", Score: 0.8},
		{Id: "d2", PageContent: "passage two", Metadata: "b.md", Score: 0.7},
	}}

	agg := NewAggregator(agent, searcher, 5, logger.NewNopLogger())
	got, err := agg.Aggregate(context.Background(), "query", testFilter())
	if err != nil {
		t.Fatalf("branch failure must not surface as error: %v", err)
	}

	if !strings.HasPrefix(got.AnswerText, agentFailureNotice) {
		t.Errorf("answerText should start with the failure notice: %q", got.AnswerText)
	}
	if !strings.Contains(got.AnswerText, vectorSupplementHead) {
		t.Errorf("vector supplement should still be appended: %q", got.AnswerText)
	}
	if len(got.Citations) != 0 || len(got.SearchResults) != 0 {
		t.Errorf("failed agent branch must contribute no evidence: %+v", got)
	}
	if len(got.VectorHits) != 2 {
		t.Errorf("vectorHits length = %d, want 2", len(got.VectorHits))
	}
}

func TestAggregateVectorFails(t *testing.T) {
	agent := &fakeAnswerSource{answer: "plain answer"}
	searcher := &fakeSearcher{err: search.ErrSearchUnavailable}

	agg := NewAggregator(agent, searcher, 5, logger.NewNopLogger())
	got, err := agg.Aggregate(context.Background(), "query", testFilter())
	if err != nil {
		t.Fatalf("branch failure must not surface as error: %v", err)
	}

	if got.AnswerText != "plain answer" {
		t.Errorf("answerText = %q, no supplement expected", got.AnswerText)
	}
	if len(got.VectorHits) != 0 {
		t.Errorf("vectorHits should be empty: %+v", got.VectorHits)
	}
}

func TestAggregateBothFail(t *testing.T) {
	agent := &fakeAnswerSource{err: errors.New("agent down")}
	searcher := &fakeSearcher{err: errors.New("index down")}

	agg := NewAggregator(agent, searcher, 5, logger.NewNopLogger())
	got, err := agg.Aggregate(context.Background(), "query", testFilter())
	if err != nil {
		t.Fatalf("both branches failing must still return evidence: %v", err)
	}
	if got == nil {
		t.Fatal("evidence must be non-nil")
	}
	if got.AnswerText != agentFailureNotice {
		t.Errorf("answerText = %q", got.AnswerText)
	}
	if len(got.Citations) != 0 || len(got.SearchResults) != 0 || len(got.VectorHits) != 0 {
		t.Errorf("all collections must be empty: %+v", got)
	}
}

func TestAggregateNoSources(t *testing.T) {
	agg := NewAggregator(nil, nil, 5, logger.NewNopLogger())
	_, err := agg.Aggregate(context.Background(), "query", testFilter())
	if !errors.Is(err, ErrNoSources) {
		t.Errorf("err = %v, want ErrNoSources", err)
	}
}

func TestAggregateVectorOnly(t *testing.T) {
	searcher := &fakeSearcher{hits: []search.VectorHit{
		{Id: "d1", PageContent: "passage", Metadata: "a.md", Score: 0.9},
	}}

	agg := NewAggregator(nil, searcher, 5, logger.NewNopLogger())
	got, err := agg.Aggregate(context.Background(), "query", testFilter())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// no agent answer means no supplement text, hits are stored verbatim
	if got.AnswerText != "" {
		t.Errorf("answerText = %q, want empty", got.AnswerText)
	}
	if len(got.VectorHits) != 1 {
		t.Errorf("vectorHits = %+v", got.VectorHits)
	}
}

func TestFormatVectorHitsTruncation(t *testing.T) {
	long := strings.Repeat("word ", 200) // well over the limit after collapsing
	formatted := formatVectorHits([]search.VectorHit{
		{Id: "d1", PageContent: long, Metadata: "big.md", Score: 0.5},
	})

	if !strings.Contains(formatted, "...") {
		t.Error("long content should be truncated with an ellipsis")
	}
	if !strings.Contains(formatted, "### Document 1") {
		t.Errorf("block header missing: %q", formatted)
	}
}
