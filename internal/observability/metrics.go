package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the Prometheus-backed implementation of the per-module metrics
// interfaces declared by the application services.
type Metrics struct {
	submissionsTotal   *prometheus.CounterVec
	submissionDuration prometheus.Histogram
	registrationsTotal prometheus.Counter
	keyVerifications   *prometheus.CounterVec
	snapshotsTotal     *prometheus.CounterVec
	sweepDuration      prometheus.Histogram
	sweepDecoders      prometheus.Counter
}

// NewMetrics registers all service metrics on the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "platina_lab",
			Name:      "submissions_total",
			Help:      "Decode result submissions by outcome.",
		}, []string{"outcome"}),
		submissionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "platina_lab",
			Name:      "submission_duration_seconds",
			Help:      "Time spent handling a result submission.",
			Buckets:   prometheus.DefBuckets,
		}),
		registrationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "platina_lab",
			Name:      "decoder_registrations_total",
			Help:      "Successful decoder registrations.",
		}),
		keyVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "platina_lab",
			Name:      "key_verifications_total",
			Help:      "Bearer key verifications by result.",
		}, []string{"result"}),
		snapshotsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "platina_lab",
			Name:      "progress_snapshots_total",
			Help:      "Progress snapshots appended by line label.",
		}, []string{"line"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "platina_lab",
			Name:      "progress_sweep_duration_seconds",
			Help:      "Duration of a full progress sweep over all decoders.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}),
		sweepDecoders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "platina_lab",
			Name:      "progress_sweep_decoders_total",
			Help:      "Decoders visited by progress sweeps.",
		}),
	}

	reg.MustRegister(
		m.submissionsTotal,
		m.submissionDuration,
		m.registrationsTotal,
		m.keyVerifications,
		m.snapshotsTotal,
		m.sweepDuration,
		m.sweepDecoders,
	)
	return m
}

func (m *Metrics) RecordSubmission(ctx context.Context, outcome string) {
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordSubmissionDuration(ctx context.Context, d time.Duration) {
	m.submissionDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordRegistration(ctx context.Context) {
	m.registrationsTotal.Inc()
}

func (m *Metrics) RecordKeyVerification(ctx context.Context, ok bool) {
	result := "denied"
	if ok {
		result = "ok"
	}
	m.keyVerifications.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordSnapshotAppended(ctx context.Context, lineLabel string) {
	m.snapshotsTotal.WithLabelValues(lineLabel).Inc()
}

func (m *Metrics) RecordSweepDuration(ctx context.Context, d time.Duration) {
	m.sweepDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordSweepDecoder(ctx context.Context) {
	m.sweepDecoders.Inc()
}

// NoOpMetrics satisfies every service metrics interface without recording
// anything. For tests.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordSubmission(ctx context.Context, outcome string)          {}
func (NoOpMetrics) RecordSubmissionDuration(ctx context.Context, d time.Duration) {}
func (NoOpMetrics) RecordRegistration(ctx context.Context)                        {}
func (NoOpMetrics) RecordKeyVerification(ctx context.Context, ok bool)            {}
func (NoOpMetrics) RecordSnapshotAppended(ctx context.Context, lineLabel string)  {}
func (NoOpMetrics) RecordSweepDuration(ctx context.Context, d time.Duration)      {}
func (NoOpMetrics) RecordSweepDecoder(ctx context.Context)                        {}
