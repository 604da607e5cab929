package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/sahos-screening-server/internal/domain"
)

// ConclusionCache memoizes conclusions by their inputs. The aggregation is
// deterministic, so identical inputs on the same day map to the same conclusion.
type ConclusionCache struct {
	cache  *lru.Cache[string, *domain.AppConclusion]
	hits   atomic.Int64
	misses atomic.Int64
}

// ConclusionCacheStats reports cache effectiveness.
type ConclusionCacheStats struct {
	Size   int   `json:"size"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// NewConclusionCache creates a cache holding up to size conclusions.
func NewConclusionCache(size int) (*ConclusionCache, error) {
	if size <= 0 {
		size = 32
	}
	cache, err := lru.New[string, *domain.AppConclusion](size)
	if err != nil {
		return nil, err
	}
	return &ConclusionCache{cache: cache}, nil
}

type conclusionInputs struct {
	Day          string                     `json:"day"`
	Demographics domain.PatientDemographics `json:"demographics"`
	Consultation domain.ConsultationData    `json:"consultation"`
	Scores       domain.QuestionnaireScores `json:"scores"`
}

// Key derives the cache key of an aggregation. The day is part of the key since
// the age depends on it.
func (c *ConclusionCache) Key(day string, demographics domain.PatientDemographics, consultation domain.ConsultationData, scores domain.QuestionnaireScores) string {
	raw, err := json.Marshal(conclusionInputs{Day: day, Demographics: demographics, Consultation: consultation, Scores: scores})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Get returns a copy of the cached conclusion for key.
func (c *ConclusionCache) Get(key string) (*domain.AppConclusion, bool) {
	if key == "" {
		return nil, false
	}
	conclusion, ok := c.cache.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return copyConclusion(conclusion), true
}

// Put stores a copy of conclusion under key.
func (c *ConclusionCache) Put(key string, conclusion *domain.AppConclusion) {
	if key == "" || conclusion == nil {
		return
	}
	c.cache.Add(key, copyConclusion(conclusion))
}

// Purge empties the cache.
func (c *ConclusionCache) Purge() {
	c.cache.Purge()
}

// Stats returns the current cache statistics.
func (c *ConclusionCache) Stats() ConclusionCacheStats {
	return ConclusionCacheStats{Size: c.cache.Len(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func copyConclusion(c *domain.AppConclusion) *domain.AppConclusion {
	out := *c
	out.Summary = append([]string(nil), c.Summary...)
	out.Recommendations = append([]string(nil), c.Recommendations...)
	return &out
}
