package jobscheduler

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
	"github.com/riskibarqy/matchday-bot/internal/platform/metrics"
	"github.com/robfig/cron/v3"
)

const (
	defaultInterval = 24 * time.Hour
	defaultTimeout  = 30 * time.Second
)

type Config struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Job is one unit of scheduled work. The context carries the per-tick
// timeout and is cancelled when the scheduler stops.
type Job func(ctx context.Context) error

// Scheduler runs jobs on a fixed interval. The first tick fires one interval
// after Start.
type Scheduler struct {
	cron     *cron.Cron
	chain    cron.Chain
	interval time.Duration
	timeout  time.Duration
	logger   *logging.Logger
	metrics  *metrics.Recorder

	baseCtx context.Context
	cancel  context.CancelFunc
}

func New(cfg Config, logger *logging.Logger, recorder *metrics.Recorder) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	cronLogger := logger.Cron()
	baseCtx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cronLogger)),
		chain:    cron.NewChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger,
		metrics:  recorder,
		baseCtx:  baseCtx,
		cancel:   cancel,
	}
}

// Register adds job under name. A failing tick is logged and counted; the
// next tick runs regardless.
func (s *Scheduler) Register(name string, job Job) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return crerr.New("job name is required")
	}
	if job == nil {
		return crerr.Newf("job %s is nil", name)
	}

	s.cron.Schedule(fixedInterval(s.interval), s.chain.Then(cron.FuncJob(func() {
		s.runOnce(name, job)
	})))
	s.logger.Info("scheduled job registered", "job", name, "interval", s.interval.String())
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels in-flight ticks and waits for them to return or for ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return crerr.Wrap(ctx.Err(), "wait for scheduled jobs")
	}
}

func (s *Scheduler) runOnce(name string, job Job) {
	ctx, cancel := context.WithTimeout(s.baseCtx, s.timeout)
	defer cancel()

	startedAt := time.Now()
	err := job(ctx)
	elapsed := time.Since(startedAt)
	s.metrics.SchedulerTick(name, metrics.Outcome(err), elapsed)

	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled job failed",
			"job", name,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return
	}
	s.logger.InfoContext(ctx, "scheduled job finished",
		"job", name,
		"duration_ms", elapsed.Milliseconds(),
	)
}

// fixedInterval fires every d with no rounding, unlike cron.Every.
type fixedInterval time.Duration

func (f fixedInterval) Next(t time.Time) time.Time {
	return t.Add(time.Duration(f))
}
