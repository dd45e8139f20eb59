package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for audit runs. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Finished runs by outcome: completed, failed, cancelled
	RunOutcome *prometheus.CounterVec

	// Per-criterion reasoning latency, labelled by criterion id
	CriterionLatency *prometheus.HistogramVec

	// Readiness verdicts of completed runs
	Verdicts *prometheus.CounterVec

	// Reasoning failures by error code
	ReasoningFailures *prometheus.CounterVec
}

// New registers the audit metrics on the default Prometheus registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the audit metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qualiopi_audit_runs_total",
			Help: "Total audit runs by outcome",
		}, []string{"outcome"}),

		CriterionLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qualiopi_audit_criterion_duration_seconds",
			Help:    "Duration of one criterion reasoning round trip",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"criterion"}),

		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qualiopi_audit_verdicts_total",
			Help: "Total readiness verdicts of completed audits",
		}, []string{"verdict"}),

		ReasoningFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qualiopi_audit_reasoning_failures_total",
			Help: "Total criterion failures by error code",
		}, []string{"code"}),
	}
}

func (m *Metrics) IncrementRunOutcome(outcome string) {
	if m != nil {
		m.RunOutcome.WithLabelValues(outcome).Inc()
	}
}

// ObserveCriterionLatency records the time spent composing, reasoning and
// parsing one criterion.
func (m *Metrics) ObserveCriterionLatency(criterion string, d time.Duration) {
	if m != nil {
		m.CriterionLatency.WithLabelValues(criterion).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementVerdict(verdict string) {
	if m != nil {
		m.Verdicts.WithLabelValues(verdict).Inc()
	}
}

func (m *Metrics) IncrementReasoningFailure(code string) {
	if m != nil {
		m.ReasoningFailures.WithLabelValues(code).Inc()
	}
}
