package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// Citation is a structured reference recovered from free-form agent text.
type Citation struct {
	Title   string `json:"title"`
	Url     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
	Domain  string `json:"domain,omitempty"`
}

// SearchResult is a citation-shaped entry extracted from labeled result
// lines, or projected from citations when no labeled line matched.
type SearchResult struct {
	Title   string `json:"title"`
	Url     string `json:"url"`
	Snippet string `json:"snippet"`
	Domain  string `json:"domain"`
}

// Extraction holds everything one pass recovered from an answer text.
type Extraction struct {
	Citations     []Citation
	SearchResults []SearchResult
}

const (
	// GenericTitle is used when neither a link label nor a host is available.
	GenericTitle = "Web page"

	snippetMaxLen = 200
)

// Extraction patterns are fixed, versioned tables: new marker phrases are
// added here without touching the merge logic.
var (
	// [label](url)
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	// bare http(s) token, stopping at whitespace or a closing parenthesis
	bareURLPattern = regexp.MustCompile(`https?://[^\s)]+`)

	// Marker phrases that label an inline result line. The Japanese markers
	// come from the agent's own answer vocabulary; English equivalents are
	// accepted alongside them.
	resultLinePatterns = []*regexp.Regexp{
		regexp.MustCompile(`検索結果[：:]\s*(.*)`),
		regexp.MustCompile(`FAQ結果[：:]\s*(.*)`),
		regexp.MustCompile(`見つかった情報[：:]\s*(.*)`),
		regexp.MustCompile(`参考情報[：:]\s*(.*)`),
		regexp.MustCompile(`社内ドキュメント[：:]\s*(.*)`),
		regexp.MustCompile(`(?i)search results?[：:]\s*(.*)`),
		regexp.MustCompile(`(?i)reference information[：:]\s*(.*)`),
		regexp.MustCompile(`(?i)related documents?[：:]\s*(.*)`),
	}
)

// Citations recovers URL-bearing references from unstructured answer text.
// Two passes: markdown-style links first, then bare URLs. Output holds at
// most one Citation per unique URL, in first-seen order. Deterministic and
// idempotent; text without URLs yields an empty (non-nil handled by caller)
// result, not an error.
func Citations(text string) []Citation {
	citations := make([]Citation, 0)
	seen := make(map[string]bool)

	// Pass 1: [label](url) spans, only http(s) targets
	for _, match := range markdownLinkPattern.FindAllStringSubmatch(text, -1) {
		label, target := match[1], match[2]
		if !strings.HasPrefix(target, "http") {
			continue
		}
		if seen[target] {
			continue
		}
		domain := ExtractDomain(target)
		citations = append(citations, Citation{
			Title:  firstNonEmpty(label, domain, GenericTitle),
			Url:    target,
			Domain: domain,
		})
		seen[target] = true
	}

	// Pass 2: bare URLs not already captured
	for _, target := range bareURLPattern.FindAllString(text, -1) {
		if seen[target] {
			continue
		}
		domain := ExtractDomain(target)
		citations = append(citations, Citation{
			Title:  firstNonEmpty(domain, GenericTitle),
			Url:    target,
			Domain: domain,
		})
		seen[target] = true
	}

	return citations
}

// Results extracts SearchResult entries from labeled result lines, with the
// marker line (truncated) as snippet. When no labeled line yielded anything
// but citations exist, the citations are projected into results so callers
// always get a usable result set alongside a non-empty citation set.
func Results(text string, citations []Citation) []SearchResult {
	results := make([]SearchResult, 0)
	seen := make(map[string]bool)

	for _, pattern := range resultLinePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			line := match[1]
			for _, target := range bareURLPattern.FindAllString(line, -1) {
				if seen[target] {
					continue
				}
				domain := ExtractDomain(target)
				results = append(results, SearchResult{
					Title:   firstNonEmpty(domain, GenericTitle),
					Url:     target,
					Snippet: truncate(line, snippetMaxLen),
					Domain:  domain,
				})
				seen[target] = true
			}
		}
	}

	if len(results) == 0 && len(citations) > 0 {
		for _, c := range citations {
			results = append(results, SearchResult{
				Title:   c.Title,
				Url:     c.Url,
				Snippet: c.Snippet,
				Domain:  c.Domain,
			})
		}
	}

	return results
}

// Parse runs both extraction stages over one answer text.
func Parse(text string) Extraction {
	citations := Citations(text)
	return Extraction{
		Citations:     citations,
		SearchResults: Results(text, citations),
	}
}

// ExtractDomain derives the host of a URL with any leading "www." stripped.
// Unparseable URLs yield an empty domain.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
