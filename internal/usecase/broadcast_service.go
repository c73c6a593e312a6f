package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-bot/internal/domain/chat"
	"github.com/riskibarqy/matchday-bot/internal/domain/report"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
	"github.com/riskibarqy/matchday-bot/internal/platform/metrics"
)

// BroadcastService pushes yesterday's results to every subscriber.
type BroadcastService struct {
	reports   *ReportService
	messenger chat.Messenger
	logger    *logging.Logger
	metrics   *metrics.Recorder
}

func NewBroadcastService(reports *ReportService, messenger chat.Messenger, logger *logging.Logger, recorder *metrics.Recorder) *BroadcastService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BroadcastService{
		reports:   reports,
		messenger: messenger,
		logger:    logger,
		metrics:   recorder,
	}
}

// BroadcastResults is one scheduler tick. The caller decides what to do with
// the error; nothing here retries.
func (s *BroadcastService) BroadcastResults(ctx context.Context) error {
	ctx, span := startRootSpan(ctx, "usecase.BroadcastService.BroadcastResults")
	defer span.End()

	text, err := s.reports.Build(ctx, report.ModeYesterday)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := s.messenger.Broadcast(ctx, text); err != nil {
		s.metrics.Delivery("broadcast", metrics.OutcomeFailure)
		span.RecordError(err)
		return crerr.Wrap(err, "broadcast results")
	}
	s.metrics.Delivery("broadcast", metrics.OutcomeSuccess)
	s.logger.InfoContext(ctx, "results broadcast sent", "bytes", len(text))

	return nil
}
