package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/matchday-bot/internal/domain/match"
	basecache "github.com/riskibarqy/matchday-bot/internal/platform/cache"
)

// MatchSource serves repeated lookups of the same date from memory until
// the entry expires.
type MatchSource struct {
	next  match.Source
	cache *basecache.Store[match.MatchesByLeague]
}

func NewMatchSource(next match.Source, cache *basecache.Store[match.MatchesByLeague]) *MatchSource {
	return &MatchSource{next: next, cache: cache}
}

func (s *MatchSource) FetchMatches(ctx context.Context, date time.Time) (match.MatchesByLeague, error) {
	key := "matches:" + date.Format("2006-01-02")
	if groups, ok := s.cache.Get(ctx, key); ok {
		return groups, nil
	}

	groups, err := s.next.FetchMatches(ctx, date)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, groups)
	return groups, nil
}
