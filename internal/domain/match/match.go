package match

import "time"

// Score is the full-time result of a finished match.
type Score struct {
	Home int
	Away int
}

// Match represents one fixture as reported by the upstream provider.
type Match struct {
	HomeTeam    string
	AwayTeam    string
	KickoffUTC  time.Time
	Competition string
	Score       *Score
}

// LeagueGroup holds the matches of one competition in provider order.
type LeagueGroup struct {
	Competition string
	Matches     []Match
}

// MatchesByLeague is an ordered grouping. Competitions appear once, in the
// order they were first seen.
type MatchesByLeague []LeagueGroup

// GroupByCompetition groups matches under their competition name without
// reordering either the competitions or the matches inside them.
func GroupByCompetition(matches []Match) MatchesByLeague {
	if len(matches) == 0 {
		return nil
	}

	index := make(map[string]int, len(matches))
	out := make(MatchesByLeague, 0, len(matches))
	for _, item := range matches {
		pos, ok := index[item.Competition]
		if !ok {
			pos = len(out)
			index[item.Competition] = pos
			out = append(out, LeagueGroup{Competition: item.Competition})
		}
		out[pos].Matches = append(out[pos].Matches, item)
	}

	return out
}

// Len returns the total number of matches across all competitions.
func (m MatchesByLeague) Len() int {
	total := 0
	for _, group := range m {
		total += len(group.Matches)
	}
	return total
}

// Empty reports the "no matches" outcome.
func (m MatchesByLeague) Empty() bool {
	return m.Len() == 0
}
