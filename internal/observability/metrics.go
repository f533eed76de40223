package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PresenceTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facewell",
		Name:      "presence_ticks_total",
		Help:      "Total number of presence detection ticks",
	}, []string{"present"})

	Captures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facewell",
		Name:      "captures_total",
		Help:      "Total number of capture attempts",
	}, []string{"result"})

	CameraOpenErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facewell",
		Name:      "camera_open_errors_total",
		Help:      "Total number of camera open failures by classified cause",
	}, []string{"cause"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "facewell",
		Name:      "active_sessions",
		Help:      "Number of camera sessions currently streaming",
	})

	Analyses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "facewell",
		Name:      "analyses_total",
		Help:      "Total number of face analyses by outcome",
	}, []string{"result"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "facewell",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end duration of the analyze-face pipeline",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "facewell",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "facewell",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
