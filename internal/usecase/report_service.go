package usecase

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-bot/internal/domain/match"
	"github.com/riskibarqy/matchday-bot/internal/domain/report"
	"go.opentelemetry.io/otel/attribute"
)

// ReportService turns a mode into the text block sent to users.
type ReportService struct {
	source match.Source
	now    func() time.Time
}

func NewReportService(source match.Source) *ReportService {
	return &ReportService{
		source: source,
		now:    time.Now,
	}
}

// Build fetches the matches for the mode's date and formats them.
func (s *ReportService) Build(ctx context.Context, mode report.Mode) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Build")
	defer span.End()

	date := mode.Date(s.now())
	span.SetAttributes(attribute.String("report.mode", mode.String()), attribute.String("report.date", date.Format("2006-01-02")))

	groups, err := s.source.FetchMatches(ctx, date)
	if err != nil {
		return "", crerr.Wrapf(err, "fetch %s matches for %s", mode, date.Format("2006-01-02"))
	}

	return report.Format(groups, mode), nil
}
