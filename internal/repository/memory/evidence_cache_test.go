package memory

import (
	"testing"

	"faq-chat-be/pkg/retrieval/aggregate"

	"github.com/stretchr/testify/assert"
)

func TestEvidenceCacheRoundTrip(t *testing.T) {
	cache := NewEvidenceCache()

	evidence := &aggregate.AggregatedEvidence{AnswerText: "answer"}
	cache.Save("session-1", evidence)

	got, found := cache.Get("session-1")
	assert.True(t, found)
	assert.Same(t, evidence, got)

	_, found = cache.Get("session-2")
	assert.False(t, found)
}

func TestEvidenceCacheDelete(t *testing.T) {
	cache := NewEvidenceCache()
	cache.Save("session-1", &aggregate.AggregatedEvidence{})
	cache.Delete("session-1")

	_, found := cache.Get("session-1")
	assert.False(t, found)
}
