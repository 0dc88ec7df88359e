package fermentation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/winery/pkg/validator"
)

// Operation labels.
const (
	OpCreateFermentation = "create_fermentation"
	OpRecordSample       = "record_sample"
	OpImportSamples      = "import_samples"
	OpChangeStatus       = "change_status"
)

// Metrics counts validation outcomes. A nil *Metrics records nothing.
type Metrics struct {
	validations *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	warnings    *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewMetrics registers the fermentation collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "winery",
			Subsystem: "fermentation",
			Name:      "validations_total",
			Help:      "Total number of validations by operation and outcome",
		}, []string{"operation", "outcome"}), // outcome: accepted, rejected
		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "winery",
			Subsystem: "fermentation",
			Name:      "validation_errors_total",
			Help:      "Total number of validation errors by operation and field",
		}, []string{"operation", "field"}),
		warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "winery",
			Subsystem: "fermentation",
			Name:      "validation_warnings_total",
			Help:      "Total number of validation warnings by operation and field",
		}, []string{"operation", "field"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "winery",
			Subsystem: "fermentation",
			Name:      "status_transitions_total",
			Help:      "Total number of applied status transitions",
		}, []string{"from", "to"}),
	}
}

func (m *Metrics) observe(op string, res validator.Result) {
	if m == nil {
		return
	}
	outcome := "accepted"
	if !res.IsValid() {
		outcome = "rejected"
	}
	m.validations.WithLabelValues(op, outcome).Inc()
	for _, e := range res.Errors {
		m.rejections.WithLabelValues(op, e.Field).Inc()
	}
	for _, w := range res.Warnings {
		m.warnings.WithLabelValues(op, w.Field).Inc()
	}
}

func (m *Metrics) transition(from, to Status) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}
