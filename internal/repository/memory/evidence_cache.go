package memory

import (
	"time"

	"faq-chat-be/pkg/retrieval/aggregate"

	"github.com/patrickmn/go-cache"
)

// EvidenceCache keeps the last aggregated evidence per session so follow-up
// requests (citation lookups, debugging endpoints) can read it without
// re-running retrieval.
type EvidenceCache struct {
	cache *cache.Cache
}

func NewEvidenceCache() *EvidenceCache {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &EvidenceCache{
		cache: c,
	}
}

func (r *EvidenceCache) Save(sessionID string, evidence *aggregate.AggregatedEvidence) {
	r.cache.Set(sessionID, evidence, cache.DefaultExpiration)
}

func (r *EvidenceCache) Get(sessionID string) (*aggregate.AggregatedEvidence, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*aggregate.AggregatedEvidence), true
	}
	return nil, false
}

func (r *EvidenceCache) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
