package redis

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/matchday-bot/internal/domain/match"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
)

const keyPrefix = "matchday:matches:"

// MatchSource caches fetched dates in Redis. A Redis failure is logged and
// the request falls through to the wrapped source.
type MatchSource struct {
	next   match.Source
	client redis.UniversalClient
	ttl    time.Duration
	logger *logging.Logger
}

func NewMatchSource(next match.Source, client redis.UniversalClient, ttl time.Duration, logger *logging.Logger) *MatchSource {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchSource{next: next, client: client, ttl: ttl, logger: logger}
}

func (s *MatchSource) FetchMatches(ctx context.Context, date time.Time) (match.MatchesByLeague, error) {
	key := keyPrefix + date.Format("2006-01-02")

	groups, hit, err := s.get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "match cache read failed", "key", key, "error", err)
	}
	if hit {
		return groups, nil
	}

	groups, err = s.next.FetchMatches(ctx, date)
	if err != nil {
		return nil, err
	}
	if err := s.set(ctx, key, groups); err != nil {
		s.logger.WarnContext(ctx, "match cache write failed", "key", key, "error", err)
	}
	return groups, nil
}

func (s *MatchSource) get(ctx context.Context, key string) (match.MatchesByLeague, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, crerr.Wrap(err, "redis get matches")
	}

	var payload []cachedGroup
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return nil, false, crerr.Wrap(err, "unmarshal cached matches")
	}
	return fromCache(payload), true, nil
}

func (s *MatchSource) set(ctx context.Context, key string, groups match.MatchesByLeague) error {
	if s.ttl <= 0 {
		return nil
	}

	data, err := sonic.Marshal(toCache(groups))
	if err != nil {
		return crerr.Wrap(err, "marshal matches for cache")
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return crerr.Wrap(err, "redis set matches")
	}
	return nil
}

type cachedGroup struct {
	Competition string        `json:"competition"`
	Matches     []cachedMatch `json:"matches"`
}

type cachedMatch struct {
	HomeTeam   string       `json:"home_team"`
	AwayTeam   string       `json:"away_team"`
	KickoffUTC time.Time    `json:"kickoff_utc"`
	Score      *match.Score `json:"score,omitempty"`
}

func toCache(groups match.MatchesByLeague) []cachedGroup {
	out := make([]cachedGroup, 0, len(groups))
	for _, group := range groups {
		items := make([]cachedMatch, 0, len(group.Matches))
		for _, item := range group.Matches {
			items = append(items, cachedMatch{
				HomeTeam:   item.HomeTeam,
				AwayTeam:   item.AwayTeam,
				KickoffUTC: item.KickoffUTC.UTC(),
				Score:      item.Score,
			})
		}
		out = append(out, cachedGroup{Competition: group.Competition, Matches: items})
	}
	return out
}

func fromCache(payload []cachedGroup) match.MatchesByLeague {
	if len(payload) == 0 {
		return nil
	}

	out := make(match.MatchesByLeague, 0, len(payload))
	for _, group := range payload {
		items := make([]match.Match, 0, len(group.Matches))
		for _, item := range group.Matches {
			items = append(items, match.Match{
				HomeTeam:    item.HomeTeam,
				AwayTeam:    item.AwayTeam,
				KickoffUTC:  item.KickoffUTC.UTC(),
				Competition: group.Competition,
				Score:       item.Score,
			})
		}
		out = append(out, match.LeagueGroup{Competition: group.Competition, Matches: items})
	}
	return out
}
