package window

import (
	"strings"
	"testing"

	"faq-chat-be/pkg/retrieval/aggregate"
	"faq-chat-be/pkg/retrieval/extract"
	"faq-chat-be/pkg/retrieval/search"
)

func TestAssembleEmptyEvidence(t *testing.T) {
	if got := Assemble(nil); got != NoEvidenceSentinel {
		t.Errorf("nil evidence = %q, want sentinel", got)
	}

	empty := &aggregate.AggregatedEvidence{}
	if got := Assemble(empty); got != NoEvidenceSentinel {
		t.Errorf("empty evidence = %q, want sentinel", got)
	}
	if Assemble(empty) == "" {
		t.Error("assembler must never return an empty string")
	}
}

func TestAssembleIndexesAndSources(t *testing.T) {
	evidence := &aggregate.AggregatedEvidence{
		VectorHits: []search.VectorHit{
			{Id: "d1", PageContent: "first passage", Metadata: "handbook.md", Score: 0.9},
			{Id: "d2", PageContent: "second passage", Metadata: "policy.md", Score: 0.8},
		},
		Citations: []extract.Citation{
			{Title: "FAQ", Url: "https://example.com/faq", Snippet: "the faq snippet", Domain: "example.com"},
		},
	}

	got := Assemble(evidence)

	for _, want := range []string{"[1] Source: handbook.md", "[2] Source: policy.md", "[3] Source: example.com"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing block header %q in:\n%s", want, got)
		}
	}
	if strings.Count(got, blockSeparator) != 2 {
		t.Errorf("3 blocks need 2 separators:\n%s", got)
	}
}

func TestAssembleTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("a", 5000)
	evidence := &aggregate.AggregatedEvidence{
		VectorHits: []search.VectorHit{{Id: "d1", PageContent: long, Metadata: "big.md", Score: 0.5}},
	}

	got := Assemble(evidence)
	body := got[strings.Index(got, "\n")+1:]
	if len([]rune(body)) != contentLimit+3 {
		t.Errorf("body length = %d, want %d plus ellipsis", len([]rune(body)), contentLimit)
	}
	if !strings.HasSuffix(body, "...") {
		t.Error("truncated body must end with ellipsis")
	}
}

func TestAssembleShortContentUnmodified(t *testing.T) {
	content := strings.Repeat("b", 100)
	evidence := &aggregate.AggregatedEvidence{
		VectorHits: []search.VectorHit{{Id: "d1", PageContent: content, Metadata: "small.md", Score: 0.5}},
	}

	got := Assemble(evidence)
	if !strings.Contains(got, content) {
		t.Error("content under the limit must pass through unchanged")
	}
	if strings.Contains(got, "...") {
		t.Error("no ellipsis expected for short content")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a\nb\r\nc", "a b c"},
		{"  spaced   out  ", "spaced out"},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
