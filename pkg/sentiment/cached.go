package sentiment

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedScorer memoizes polarity per exact text. Errors are not cached.
type CachedScorer struct {
	next  Scorer
	cache *cache.Cache
}

// NewCachedScorer wraps next. A non-positive ttl keeps entries for the whole run.
func NewCachedScorer(next Scorer, ttl time.Duration) *CachedScorer {
	c := cache.New(cache.NoExpiration, 0)
	if ttl > 0 {
		c = cache.New(ttl, 2*ttl)
	}
	return &CachedScorer{next: next, cache: c}
}

func (s *CachedScorer) Polarity(ctx context.Context, text string) (float64, error) {
	if v, ok := s.cache.Get(text); ok {
		return v.(float64), nil
	}
	p, err := s.next.Polarity(ctx, text)
	if err != nil {
		return 0, err
	}
	s.cache.SetDefault(text, p)
	return p, nil
}

// Len reports how many distinct texts are cached.
func (s *CachedScorer) Len() int {
	return s.cache.ItemCount()
}
