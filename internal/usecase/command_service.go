package usecase

import (
	"context"

	"github.com/riskibarqy/matchday-bot/internal/domain/chat"
	"github.com/riskibarqy/matchday-bot/internal/domain/report"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
	"github.com/riskibarqy/matchday-bot/internal/platform/metrics"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// EventOutcome records what happened to one inbound event.
type EventOutcome string

const (
	OutcomeReplied        EventOutcome = "replied"
	OutcomeIgnored        EventOutcome = "ignored"
	OutcomeFetchFailed    EventOutcome = "fetch_failed"
	OutcomeDeliveryFailed EventOutcome = "delivery_failed"
	OutcomePanicked       EventOutcome = "panicked"
)

type CommandServiceConfig struct {
	TodayCommand     string
	YesterdayCommand string
	MaxConcurrency   int
}

// CommandService answers recognised text commands with a report reply.
type CommandService struct {
	reports        *ReportService
	messenger      chat.Messenger
	commands       map[string]report.Mode
	maxConcurrency int
	logger         *logging.Logger
	metrics        *metrics.Recorder
}

func NewCommandService(
	cfg CommandServiceConfig,
	reports *ReportService,
	messenger chat.Messenger,
	logger *logging.Logger,
	recorder *metrics.Recorder,
) *CommandService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}

	return &CommandService{
		reports:   reports,
		messenger: messenger,
		commands: map[string]report.Mode{
			cfg.TodayCommand:     report.ModeToday,
			cfg.YesterdayCommand: report.ModeYesterday,
		},
		maxConcurrency: cfg.MaxConcurrency,
		logger:         logger,
		metrics:        recorder,
	}
}

// HandleEvents processes every event of one webhook delivery and reports the
// outcome per event, in input order. Failures are logged, never returned.
func (s *CommandService) HandleEvents(ctx context.Context, events []chat.Event) []EventOutcome {
	ctx, span := startUsecaseSpan(ctx, "usecase.CommandService.HandleEvents")
	defer span.End()

	outcomes := make([]EventOutcome, len(events))
	p := pool.New().WithMaxGoroutines(s.maxConcurrency)
	for i, ev := range events {
		p.Go(func() {
			var catcher panics.Catcher
			catcher.Try(func() { outcomes[i] = s.handleEvent(ctx, ev) })
			if rec := catcher.Recovered(); rec != nil {
				s.logger.ErrorContext(ctx, "webhook event handler panicked", "panic", rec.Value, "stack", string(rec.Stack))
				s.metrics.WebhookEvent("unknown", string(OutcomePanicked))
				outcomes[i] = OutcomePanicked
			}
		})
	}
	p.Wait()

	return outcomes
}

func (s *CommandService) handleEvent(ctx context.Context, ev chat.Event) EventOutcome {
	switch e := ev.(type) {
	case chat.TextMessage:
		outcome := s.handleText(ctx, e)
		s.metrics.WebhookEvent("text", string(outcome))
		return outcome
	case chat.OtherEvent:
		s.logger.DebugContext(ctx, "ignoring webhook event", "type", e.Type)
		s.metrics.WebhookEvent("other", string(OutcomeIgnored))
		return OutcomeIgnored
	default:
		s.logger.DebugContext(ctx, "ignoring unknown webhook event")
		s.metrics.WebhookEvent("unknown", string(OutcomeIgnored))
		return OutcomeIgnored
	}
}

func (s *CommandService) handleText(ctx context.Context, msg chat.TextMessage) EventOutcome {
	mode, ok := s.commands[msg.Text]
	if !ok {
		return OutcomeIgnored
	}

	logger := s.logger.With("mode", mode.String(), "source_id", msg.SourceID, "webhook_event_id", msg.WebhookEventID)

	text, err := s.reports.Build(ctx, mode)
	if err != nil {
		logger.ErrorContext(ctx, "build report failed", "error", err)
		return OutcomeFetchFailed
	}

	if err := s.messenger.Reply(ctx, msg.ReplyToken, text); err != nil {
		s.metrics.Delivery("reply", metrics.OutcomeFailure)
		logger.WarnContext(ctx, "reply delivery failed", "error", err)
		return OutcomeDeliveryFailed
	}
	s.metrics.Delivery("reply", metrics.OutcomeSuccess)
	logger.InfoContext(ctx, "report replied", "bytes", len(text))

	return OutcomeReplied
}
