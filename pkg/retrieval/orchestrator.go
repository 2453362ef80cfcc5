package retrieval

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"faq-chat-be/internal/constant"
	"faq-chat-be/internal/pkg/logger"
	"faq-chat-be/pkg/agent"
	"faq-chat-be/pkg/llm"
	"faq-chat-be/pkg/retrieval/access"
	"faq-chat-be/pkg/retrieval/aggregate"
	"faq-chat-be/pkg/retrieval/window"
)

// Query is one retrieval request. RawText is what the user typed; the
// orchestrator fills ReformulatedText before fan-out.
type Query struct {
	RawText          string
	ReformulatedText string
	UserRole         access.Role
	UserID           string
	SessionID        string
	ChatType         string
}

// Result pairs the bounded context string with the structured evidence it
// was rendered from.
type Result struct {
	Context  string
	Evidence *aggregate.AggregatedEvidence
}

var optimizedQueryPattern = regexp.MustCompile(`OPTIMIZED_QUERY:\s*(.+)`)

// Orchestrator sequences reformulation, filter construction, fan-out and
// context assembly into one call. Partial source failures never surface to
// the caller; only configuration faults do.
type Orchestrator struct {
	reformulator llm.LLMProvider
	aggregator   *aggregate.Aggregator
	log          logger.ILogger
}

func NewOrchestrator(reformulator llm.LLMProvider, aggregator *aggregate.Aggregator, log logger.ILogger) *Orchestrator {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Orchestrator{
		reformulator: reformulator,
		aggregator:   aggregator,
		log:          log,
	}
}

// Retrieve answers one query: reformulate, build the access filter, fan out
// to the evidence sources, assemble the context window.
func (o *Orchestrator) Retrieve(ctx context.Context, query Query) (*Result, error) {
	if o.aggregator == nil {
		return nil, aggregate.ErrNoSources
	}

	query.ReformulatedText = o.reformulate(ctx, query.RawText)

	filter := access.BuildFilter(query.UserRole).
		WithScope(query.UserID, query.SessionID, query.ChatType)

	evidence, err := o.aggregator.Aggregate(ctx, query.ReformulatedText, filter)
	if err != nil {
		return nil, err
	}

	return &Result{
		Context:  window.Assemble(evidence),
		Evidence: evidence,
	}, nil
}

// reformulate asks the generation capability for a search-optimized query.
// Any failure or protocol miss falls back to the raw text.
func (o *Orchestrator) reformulate(ctx context.Context, rawText string) string {
	if o.reformulator == nil || strings.TrimSpace(rawText) == "" {
		return rawText
	}

	prompt := fmt.Sprintf(constant.ReformulationPromptV1, rawText)
	response, err := o.reformulator.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		o.log.Warn("orchestrator", "reformulation failed, using raw query", map[string]interface{}{
			"error": err.Error(),
		})
		return rawText
	}

	if match := optimizedQueryPattern.FindStringSubmatch(response); match != nil {
		if optimized := strings.TrimSpace(match[1]); optimized != "" {
			return optimized
		}
	}
	if trimmed := strings.TrimSpace(response); trimmed != "" {
		return trimmed
	}
	return rawText
}

// AgentAnswerSource adapts an agent runner to the aggregator's source
// contract.
type AgentAnswerSource struct {
	Runner *agent.Runner
}

func (s *AgentAnswerSource) Answer(ctx context.Context, query string) (string, error) {
	answer, _, err := s.Runner.Execute(ctx, query)
	return answer, err
}
