package cache

import (
	"context"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-bot/internal/domain/match"
	matchmock "github.com/riskibarqy/matchday-bot/internal/mocks/domain/match"
	basecache "github.com/riskibarqy/matchday-bot/internal/platform/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 10, 0, 0, 0, 0, time.FixedZone("UTC+7", 7*3600))

func fixtures() match.MatchesByLeague {
	return match.GroupByCompetition([]match.Match{{
		HomeTeam:    "Arsenal",
		AwayTeam:    "Chelsea",
		Competition: "Premier League",
		KickoffUTC:  time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC),
	}})
}

func TestMatchSource_CachesPerDate(t *testing.T) {
	t.Parallel()

	next := matchmock.NewSource(t)
	source := NewMatchSource(next, basecache.NewStore[match.MatchesByLeague](time.Minute))

	next.On("FetchMatches", mock.Anything, day).Return(fixtures(), nil).Once()
	next.On("FetchMatches", mock.Anything, day.AddDate(0, 0, -1)).Return(nil, nil).Once()

	for i := 0; i < 3; i++ {
		got, err := source.FetchMatches(context.Background(), day)
		require.NoError(t, err)
		assert.Equal(t, fixtures(), got)
	}

	got, err := source.FetchMatches(context.Background(), day.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.True(t, got.Empty())
}

func TestMatchSource_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	next := matchmock.NewSource(t)
	source := NewMatchSource(next, basecache.NewStore[match.MatchesByLeague](time.Minute))

	next.On("FetchMatches", mock.Anything, day).Return(nil, crerr.New("upstream down")).Once()
	next.On("FetchMatches", mock.Anything, day).Return(fixtures(), nil).Once()

	_, err := source.FetchMatches(context.Background(), day)
	require.Error(t, err)

	got, err := source.FetchMatches(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}
