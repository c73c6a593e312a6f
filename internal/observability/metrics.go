package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/matchday-bot/internal/config"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
	"github.com/riskibarqy/matchday-bot/internal/platform/metrics"
)

func StartMetricsServer(cfg config.Config, recorder *metrics.Recorder, logger *logging.Logger) *http.Server {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.MetricsEnabled {
		logger.Info("metrics disabled", "reason", "METRICS_ENABLED=false")
		return nil
	}

	return startSideServer("metrics", cfg.MetricsAddr, metricsHandler(recorder), logger)
}

func metricsHandler(recorder *metrics.Recorder) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(recorder.Registry(), promhttp.HandlerOpts{}))
	return mux
}
