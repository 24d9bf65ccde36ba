package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	registry *prometheus.Registry

	sessionsStarted   *prometheus.CounterVec
	answers           *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	liveSessions      prometheus.Gauge
	explanations      *prometheus.CounterVec
	dailySubmissions  *prometheus.CounterVec
	explainDuration   prometheus.Histogram
	requestDuration   *prometheus.HistogramVec
}

// newMetrics registers the server metrics on a private registry, so
// several servers can coexist in one process.
func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &metrics{
		registry: reg,
		sessionsStarted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mathmaster_sessions_started_total",
				Help: "Sessions created",
			},
			[]string{"mode"},
		),
		answers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mathmaster_answers_total",
				Help: "Answers submitted",
			},
			[]string{"result"}, // correct or incorrect
		),
		sessionsCompleted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mathmaster_sessions_completed_total",
				Help: "Rounds played to completion",
			},
			[]string{"mode"},
		),
		liveSessions: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "mathmaster_live_sessions",
				Help: "Sessions currently held in memory",
			},
		),
		explanations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mathmaster_explanations_total",
				Help: "Tutor explanation requests",
			},
			[]string{"status"}, // success or failure
		),
		dailySubmissions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mathmaster_daily_submissions_total",
				Help: "Daily challenge submissions",
			},
			[]string{"status"}, // saved or duplicate
		),
		explainDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mathmaster_explain_duration_seconds",
				Help:    "Time spent waiting for the tutor model",
				Buckets: prometheus.DefBuckets,
			},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mathmaster_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

func resultLabel(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}
