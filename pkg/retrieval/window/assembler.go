package window

import (
	"fmt"
	"strings"

	"faq-chat-be/pkg/retrieval/aggregate"
)

// NoEvidenceSentinel is rendered when no source produced any evidence, so
// downstream prompts never see a blank context.
const NoEvidenceSentinel = "No relevant evidence was found."

const (
	contentLimit   = 300
	blockSeparator = "\n\n----------------\n\n"
)

// Block is one formatted evidence unit before joining.
type Block struct {
	Index  int
	Source string
	Body   string
}

// Assemble renders aggregated evidence as the context string handed to the
// generation step. Vector hits come first, then agent citations; each block
// carries a 1-based index, a source identifier and normalized body text.
func Assemble(evidence *aggregate.AggregatedEvidence) string {
	if evidence == nil {
		return NoEvidenceSentinel
	}

	blocks := make([]Block, 0, len(evidence.VectorHits)+len(evidence.Citations))
	for _, hit := range evidence.VectorHits {
		blocks = append(blocks, Block{
			Source: hit.Metadata,
			Body:   hit.PageContent,
		})
	}
	for _, citation := range evidence.Citations {
		source := citation.Url
		if citation.Domain != "" {
			source = citation.Domain
		}
		body := citation.Snippet
		if body == "" {
			body = citation.Title
		}
		blocks = append(blocks, Block{
			Source: source,
			Body:   body,
		})
	}

	if len(blocks) == 0 {
		return NoEvidenceSentinel
	}

	rendered := make([]string, len(blocks))
	for i, block := range blocks {
		block.Index = i + 1
		rendered[i] = formatBlock(block)
	}
	return strings.Join(rendered, blockSeparator)
}

func formatBlock(block Block) string {
	body := Normalize(block.Body)
	if len([]rune(body)) > contentLimit {
		body = string([]rune(body)[:contentLimit]) + "..."
	}
	return fmt.Sprintf("[%d] Source: %s\n%s", block.Index, block.Source, body)
}

// Normalize collapses line breaks and repeated whitespace to single spaces
// and trims the result.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
