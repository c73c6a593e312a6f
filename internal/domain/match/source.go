package match

import (
	"context"
	"time"
)

// Source fetches the matches scheduled on one calendar date.
type Source interface {
	FetchMatches(ctx context.Context, date time.Time) (MatchesByLeague, error)
}
