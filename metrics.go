package lottery

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelOutcome = "outcome"
	LabelStatus  = "status"

	OutcomeComplete = "complete"
	OutcomeShort    = "short"
	OutcomeRejected = "rejected"

	StatusAccepted  = "accepted"
	StatusExhausted = "exhausted"
)

var (
	// AttemptBuckets spans one attempt up to the default per-line budget
	AttemptBuckets = []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}

	// GenerationLatencyBuckets covers sub-millisecond to multi-second requests
	GenerationLatencyBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5}
)

// Metrics exports generation counters to Prometheus
type Metrics struct {
	Requests           *prometheus.CounterVec
	Lines              *prometheus.CounterVec
	Attempts           prometheus.Counter
	AttemptsPerRequest prometheus.Histogram
	Duration           prometheus.Histogram
}

// NewMetrics registers the generator collectors on reg under namespace.
// A nil reg registers on prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultMetricsNamespace
	}
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_requests_total",
				Help:      "Generation requests by outcome (complete, short, rejected).",
			},
			[]string{LabelOutcome},
		),
		Lines: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_lines_total",
				Help:      "Line slots by status (accepted, exhausted).",
			},
			[]string{LabelStatus},
		),
		Attempts: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_attempts_total",
				Help:      "Candidate combinations sampled.",
			},
		),
		AttemptsPerRequest: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_attempts_per_request",
				Help:      "Candidate combinations sampled per generation request.",
				Buckets:   AttemptBuckets,
			},
		),
		Duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Wall time of generation requests.",
				Buckets:   GenerationLatencyBuckets,
			},
		),
	}
}

// Observe records one generation request
func (m *Metrics) Observe(result *GenerationResult, err error, duration time.Duration) {
	if m == nil {
		return
	}

	m.Duration.Observe(duration.Seconds())

	switch {
	case err != nil:
		m.Requests.WithLabelValues(OutcomeRejected).Inc()
	case result != nil && result.IsComplete():
		m.Requests.WithLabelValues(OutcomeComplete).Inc()
	default:
		m.Requests.WithLabelValues(OutcomeShort).Inc()
	}

	if result == nil {
		return
	}
	m.Lines.WithLabelValues(StatusAccepted).Add(float64(len(result.Lines)))
	m.Lines.WithLabelValues(StatusExhausted).Add(float64(len(result.Diagnostics)))
	m.Attempts.Add(float64(result.TotalAttempts))
	m.AttemptsPerRequest.Observe(float64(result.TotalAttempts))
}
