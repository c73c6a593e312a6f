package footballdata

type matchesResponse struct {
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	ID          int64          `json:"id"`
	UTCDate     string         `json:"utcDate" validate:"required"`
	Status      string         `json:"status"`
	HomeTeam    teamRef        `json:"homeTeam"`
	AwayTeam    teamRef        `json:"awayTeam"`
	Competition competitionRef `json:"competition"`
	Score       *scoreItem     `json:"score"`
}

type teamRef struct {
	Name string `json:"name" validate:"required"`
}

type competitionRef struct {
	Name string `json:"name" validate:"required"`
}

type scoreItem struct {
	FullTime goals `json:"fullTime"`
}

// goals carries both the v2 (homeTeam/awayTeam) and v4 (home/away) keys.
type goals struct {
	HomeTeam *int `json:"homeTeam"`
	AwayTeam *int `json:"awayTeam"`
	Home     *int `json:"home"`
	Away     *int `json:"away"`
}

func (g goals) resolve() (int, int, bool) {
	if g.HomeTeam != nil && g.AwayTeam != nil {
		return *g.HomeTeam, *g.AwayTeam, true
	}
	if g.Home != nil && g.Away != nil {
		return *g.Home, *g.Away, true
	}
	return 0, 0, false
}
