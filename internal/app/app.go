package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/matchday-bot/external/footballdata"
	"github.com/riskibarqy/matchday-bot/internal/config"
	"github.com/riskibarqy/matchday-bot/internal/domain/match"
	"github.com/riskibarqy/matchday-bot/internal/infrastructure/jobscheduler"
	"github.com/riskibarqy/matchday-bot/internal/infrastructure/line"
	cacherepo "github.com/riskibarqy/matchday-bot/internal/infrastructure/repository/cache"
	redisrepo "github.com/riskibarqy/matchday-bot/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/matchday-bot/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchday-bot/internal/observability"
	basecache "github.com/riskibarqy/matchday-bot/internal/platform/cache"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
	"github.com/riskibarqy/matchday-bot/internal/platform/metrics"
	"github.com/riskibarqy/matchday-bot/internal/platform/resilience"
	"github.com/riskibarqy/matchday-bot/internal/usecase"
)

const (
	broadcastJobName       = "broadcast_results"
	defaultShutdownTimeout = 10 * time.Second
)

// App owns the dependency graph and the lifecycle of every listener and
// background task.
type App struct {
	cfg       config.Config
	logger    *logging.Logger
	metrics   *metrics.Recorder
	server    *http.Server
	scheduler *jobscheduler.Scheduler
	redis     redis.UniversalClient
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, crerr.New("http server addr cannot be empty")
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	recorder := metrics.NewRecorder()
	a := &App{cfg: cfg, logger: logger, metrics: recorder}

	var source match.Source = footballdata.NewClient(footballdata.ClientConfig{
		BaseURL: cfg.FootballBaseURL,
		Token:   cfg.FootballAPIKey,
		Timeout: cfg.FootballTimeout,
		Logger:  logger.Named("footballdata"),
		Metrics: recorder,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballCircuitEnabled,
			FailureThreshold: cfg.FootballCircuitFailureCount,
			OpenTimeout:      cfg.FootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballCircuitHalfOpenMaxReq,
		},
	})
	source = a.withCache(source)

	messenger, err := line.NewMessenger(line.ClientConfig{
		ChannelToken: cfg.LineChannelAccessToken,
		BaseURL:      cfg.LineAPIBaseURL,
		Timeout:      cfg.LineTimeout,
		Logger:       logger.Named("line"),
	})
	if err != nil {
		return nil, crerr.Wrap(err, "build line messenger")
	}

	reports := usecase.NewReportService(source)
	commands := usecase.NewCommandService(usecase.CommandServiceConfig{
		TodayCommand:     cfg.CommandToday,
		YesterdayCommand: cfg.CommandYesterday,
		MaxConcurrency:   cfg.WebhookMaxConcurrency,
	}, reports, messenger, logger, recorder)

	handler := httpapi.NewHandler(line.NewWebhookParser(cfg.LineChannelSecret), commands, cfg.CommandTimeout, logger)
	a.server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, logger),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	if cfg.BroadcastEnabled {
		broadcasts := usecase.NewBroadcastService(reports, messenger, logger, recorder)
		a.scheduler = jobscheduler.New(jobscheduler.Config{
			Interval: cfg.BroadcastInterval,
			Timeout:  cfg.BroadcastTimeout,
		}, logger.Named("scheduler"), recorder)
		if err := a.scheduler.Register(broadcastJobName, broadcasts.BroadcastResults); err != nil {
			return nil, crerr.Wrap(err, "register broadcast job")
		}
	} else {
		logger.Info("broadcast disabled", "reason", "BROADCAST_ENABLED=false")
	}

	return a, nil
}

func (a *App) withCache(source match.Source) match.Source {
	switch a.cfg.CacheBackend {
	case config.CacheBackendMemory:
		a.logger.Info("match cache enabled", "backend", config.CacheBackendMemory, "ttl", a.cfg.CacheTTL.String())
		return cacherepo.NewMatchSource(source, basecache.NewStore[match.MatchesByLeague](a.cfg.CacheTTL))
	case config.CacheBackendRedis:
		a.redis = redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		a.logger.Info("match cache enabled", "backend", config.CacheBackendRedis, "addr", a.cfg.RedisAddr, "ttl", a.cfg.CacheTTL.String())
		return redisrepo.NewMatchSource(source, a.redis, a.cfg.CacheTTL, a.logger.Named("cache"))
	default:
		return source
	}
}

// Handler exposes the webhook router.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled or the webhook listener fails, then
// shuts everything down.
func (a *App) Run(ctx context.Context) error {
	if a.redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := a.redis.Ping(pingCtx).Err(); err != nil {
			a.logger.Warn("redis unreachable, cache will fall back to live fetches", "error", err)
		}
		cancel()
	}

	metricsSrv := observability.StartMetricsServer(a.cfg, a.metrics, a.logger)
	pprofSrv := observability.StartPprofServer(a.cfg, a.logger)

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if a.scheduler != nil {
		a.scheduler.Start()
		a.logger.Info("broadcast scheduler started", "interval", a.cfg.BroadcastInterval.String())
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown requested")
	case err := <-serveErr:
		if err != nil {
			runErr = crerr.Wrap(err, "http server failed")
		}
	}

	return errors.Join(runErr, a.shutdown(metricsSrv, pprofSrv))
}

func (a *App) shutdown(sideServers ...*http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, crerr.Wrap(err, "shutdown http server"))
	} else {
		a.logger.Info("http server stopped")
	}
	if a.scheduler != nil {
		if err := a.scheduler.Stop(ctx); err != nil {
			errs = append(errs, crerr.Wrap(err, "stop scheduler"))
		}
	}
	for _, srv := range sideServers {
		if err := observability.StopServer(srv, a.logger, a.cfg.ShutdownTimeout); err != nil {
			errs = append(errs, err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, crerr.Wrap(err, "close redis client"))
		}
	}

	return errors.Join(errs...)
}
