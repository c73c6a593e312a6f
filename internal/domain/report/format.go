package report

import (
	"strconv"
	"time"

	"github.com/riskibarqy/matchday-bot/internal/domain/match"
	"github.com/valyala/bytebufferpool"
)

// Mode selects which report is produced.
type Mode int

const (
	ModeToday Mode = iota
	ModeYesterday
)

// LocalOffset is the fixed display offset. It is applied as a plain
// addition; there is no timezone database lookup and no DST.
const LocalOffset = 7 * time.Hour

// LocalLayout is the layout used for kickoff times.
const LocalLayout = "2006-01-02 15:04:05"

const (
	todayHeader     = "Today's Football Matches:"
	yesterdayHeader = "Yesterday's Football Results:"
	noMatchesText   = "No matches found."
	noResultsText   = "No results found."
)

var localZone = time.FixedZone("UTC+7", int(LocalOffset/time.Second))

func (m Mode) String() string {
	switch m {
	case ModeToday:
		return "today"
	case ModeYesterday:
		return "yesterday"
	default:
		return "unknown"
	}
}

// Date resolves the calendar date the mode refers to, as seen at UTC+7.
func (m Mode) Date(now time.Time) time.Time {
	local := now.In(localZone)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, localZone)
	if m == ModeYesterday {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

func (m Mode) header() string {
	if m == ModeYesterday {
		return yesterdayHeader
	}
	return todayHeader
}

// EmptyText is the exact output for a date without matches.
func EmptyText(mode Mode) string {
	if mode == ModeYesterday {
		return yesterdayHeader + "\n\n" + noResultsText
	}
	return todayHeader + "\n\n" + noMatchesText
}

// LocalKickoff renders a UTC kickoff at the fixed display offset.
func LocalKickoff(kickoffUTC time.Time) string {
	return kickoffUTC.UTC().Add(LocalOffset).Format(LocalLayout)
}

// Format renders groups as one text block. The output depends only on its
// inputs.
func Format(groups match.MatchesByLeague, mode Mode) string {
	if groups.Empty() {
		return EmptyText(mode)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(mode.header())
	_, _ = buf.WriteString("\n")
	for _, group := range groups {
		if len(group.Matches) == 0 {
			continue
		}
		_, _ = buf.WriteString("\n")
		_, _ = buf.WriteString(group.Competition)
		_, _ = buf.WriteString("\n")
		for _, item := range group.Matches {
			writeLine(buf, item, mode)
			_, _ = buf.WriteString("\n")
		}
	}

	out := buf.B
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return string(out)
}

func writeLine(buf *bytebufferpool.ByteBuffer, item match.Match, mode Mode) {
	_, _ = buf.WriteString(item.HomeTeam)
	_, _ = buf.WriteString(" vs ")
	_, _ = buf.WriteString(item.AwayTeam)

	if mode == ModeToday {
		_, _ = buf.WriteString(" at ")
		_, _ = buf.WriteString(LocalKickoff(item.KickoffUTC))
		return
	}

	if item.Score == nil {
		_, _ = buf.WriteString(", no result")
		return
	}
	_, _ = buf.WriteString(", score ")
	buf.B = strconv.AppendInt(buf.B, int64(item.Score.Home), 10)
	_ = buf.WriteByte('-')
	buf.B = strconv.AppendInt(buf.B, int64(item.Score.Away), 10)
}
