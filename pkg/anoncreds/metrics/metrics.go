package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons
const (
	ReasonInvalidConfig     = "invalid_config"
	ReasonInvalidDefinition = "invalid_definition"
	ReasonInvalidIndex      = "invalid_index"
	ReasonProvider          = "provider"
	ReasonStorage           = "storage"
	ReasonDuplicate         = "duplicate"
	ReasonLedger            = "ledger"
)

// Metrics provides observability for the revocation registry issuer flow.
type Metrics struct {
	RegistriesCreated      prometheus.Counter
	DeltasApplied          prometheus.Counter
	CredentialsIssued      prometheus.Counter
	CredentialsRevoked     prometheus.Counter
	Rejections             *prometheus.CounterVec
	CreateRegistryDuration prometheus.Histogram
}

// New registers the metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		RegistriesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "revreg_registries_created_total",
			Help: "Total number of revocation registries created",
		}),
		DeltasApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "revreg_deltas_applied_total",
			Help: "Total number of registry deltas applied",
		}),
		CredentialsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "revreg_credential_indices_issued_total",
			Help: "Credential indices marked issued across all deltas",
		}),
		CredentialsRevoked: factory.NewCounter(prometheus.CounterOpts{
			Name: "revreg_credential_indices_revoked_total",
			Help: "Credential indices marked revoked across all deltas",
		}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "revreg_rejections_total",
			Help: "Registry operations rejected, by reason",
		}, []string{"reason"}),
		CreateRegistryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "revreg_create_registry_duration_seconds",
			Help:    "Duration of CreateRevocationRegistry including the crypto provider call",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementRegistriesCreated records a successful registry creation.
func (m *Metrics) IncrementRegistriesCreated() {
	if m == nil {
		return
	}
	m.RegistriesCreated.Inc()
}

// RecordDelta records an applied delta and the indices it touched.
func (m *Metrics) RecordDelta(issued, revoked int) {
	if m == nil {
		return
	}
	m.DeltasApplied.Inc()
	m.CredentialsIssued.Add(float64(issued))
	m.CredentialsRevoked.Add(float64(revoked))
}

// IncrementRejection records a rejected operation.
func (m *Metrics) IncrementRejection(reason string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(reason).Inc()
}

// ObserveCreateRegistry records the duration of a registry creation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreateRegistry(start time.Time) {
	if m == nil {
		return
	}
	m.CreateRegistryDuration.Observe(time.Since(start).Seconds())
}
