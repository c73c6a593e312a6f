package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/matchday-bot/internal/domain/match"
	matchmock "github.com/riskibarqy/matchday-bot/internal/mocks/domain/match"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 9, 0, 0, 0, 0, time.FixedZone("UTC+7", 7*3600))

func results() match.MatchesByLeague {
	return match.GroupByCompetition([]match.Match{
		{HomeTeam: "Persija", AwayTeam: "Persib", Competition: "Liga 1", KickoffUTC: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), Score: &match.Score{Home: 2, Away: 1}},
		{HomeTeam: "Arsenal", AwayTeam: "Chelsea", Competition: "Premier League", KickoffUTC: time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)},
		{HomeTeam: "Bali United", AwayTeam: "PSM", Competition: "Liga 1", KickoffUTC: time.Date(2024, 3, 9, 13, 0, 0, 0, time.UTC), Score: &match.Score{}},
	})
}

func newTestSource(t *testing.T, ttl time.Duration) (*MatchSource, *matchmock.Source, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	next := matchmock.NewSource(t)
	return NewMatchSource(next, client, ttl, logging.NewNop()), next, mr
}

func TestMatchSource_RoundTripsThroughRedis(t *testing.T) {
	t.Parallel()

	source, next, mr := newTestSource(t, 5*time.Minute)
	next.On("FetchMatches", mock.Anything, day).Return(results(), nil).Once()

	first, err := source.FetchMatches(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, results(), first)
	assert.True(t, mr.Exists(keyPrefix+"2024-03-09"))

	second, err := source.FetchMatches(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, results(), second)
}

func TestMatchSource_EntryExpires(t *testing.T) {
	t.Parallel()

	source, next, mr := newTestSource(t, time.Minute)
	next.On("FetchMatches", mock.Anything, day).Return(results(), nil).Twice()

	_, err := source.FetchMatches(context.Background(), day)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = source.FetchMatches(context.Background(), day)
	require.NoError(t, err)
}

func TestMatchSource_FallsBackWhenRedisIsDown(t *testing.T) {
	t.Parallel()

	source, next, mr := newTestSource(t, time.Minute)
	next.On("FetchMatches", mock.Anything, day).Return(results(), nil).Once()
	mr.Close()

	got, err := source.FetchMatches(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
}

func TestMatchSource_CorruptEntryIsRefetched(t *testing.T) {
	t.Parallel()

	source, next, mr := newTestSource(t, time.Minute)
	require.NoError(t, mr.Set(keyPrefix+"2024-03-09", "{not json"))
	next.On("FetchMatches", mock.Anything, day).Return(nil, nil).Once()

	got, err := source.FetchMatches(context.Background(), day)
	require.NoError(t, err)
	assert.True(t, got.Empty())
}
