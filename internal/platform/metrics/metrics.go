// Package metrics holds the Prometheus collectors for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "matchday_bot"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeIgnored = "ignored"
	OutcomeEmpty   = "empty"
)

// Recorder is safe to use as a nil pointer; every method becomes a no-op.
type Recorder struct {
	registry *prometheus.Registry

	webhookEvents    *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  prometheus.Histogram
	deliveries       *prometheus.CounterVec
	schedulerTicks   *prometheus.CounterVec
	tickDuration     prometheus.Histogram
}

// NewRecorder registers all collectors on a private registry, plus the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(registry)

	return &Recorder{
		registry: registry,
		webhookEvents: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Inbound webhook events by kind and outcome.",
		}, []string{"kind", "outcome"}),
		upstreamRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "football_api_requests_total",
			Help:      "Requests to the match data provider by outcome.",
		}, []string{"outcome"}),
		upstreamLatency: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "football_api_request_duration_seconds",
			Help:      "Latency of match data provider requests.",
			Buckets:   prometheus.DefBuckets,
		}),
		deliveries: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Reply and broadcast sends by outcome.",
		}, []string{"kind", "outcome"}),
		schedulerTicks: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_ticks_total",
			Help:      "Scheduled job runs by job and outcome.",
		}, []string{"job", "outcome"}),
		tickDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scheduler_tick_duration_seconds",
			Help:      "Duration of scheduled job runs.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

// Registry exposes the collectors for promhttp.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

func (r *Recorder) WebhookEvent(kind, outcome string) {
	if r == nil {
		return
	}
	r.webhookEvents.WithLabelValues(kind, outcome).Inc()
}

func (r *Recorder) UpstreamRequest(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.upstreamRequests.WithLabelValues(outcome).Inc()
	r.upstreamLatency.Observe(elapsed.Seconds())
}

func (r *Recorder) Delivery(kind, outcome string) {
	if r == nil {
		return
	}
	r.deliveries.WithLabelValues(kind, outcome).Inc()
}

func (r *Recorder) SchedulerTick(job, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.schedulerTicks.WithLabelValues(job, outcome).Inc()
	r.tickDuration.Observe(elapsed.Seconds())
}

// Outcome maps an error to a success/failure label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
