package metrics

import "github.com/prometheus/client_golang/prometheus"

// SyncMetrics tracks admin reconciliation runs.
type SyncMetrics struct {
	imported      prometheus.Counter
	updated       prometheus.Counter
	discrepancies prometheus.Counter
	attempts      *prometheus.CounterVec
	documents     prometheus.Gauge
	users         prometheus.Gauge
}

// NewSyncMetrics registers the sync metrics on the provided registerer. A nil
// registerer yields a no-op collector.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	m := &SyncMetrics{
		imported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chamber122_sync_users_imported_total",
			Help: "Users created by the admin sync.",
		}),
		updated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chamber122_sync_users_updated_total",
			Help: "Existing users refreshed by the admin sync.",
		}),
		discrepancies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chamber122_sync_status_discrepancies_total",
			Help: "Local overrides that disagreed with the backend while it was reachable.",
		}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chamber122_sync_endpoint_attempts_total",
			Help: "Remote listing attempts by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		documents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chamber122_sync_documents",
			Help: "Documents in the merged admin view.",
		}),
		users: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chamber122_sync_users",
			Help: "Users in the merged admin view.",
		}),
	}
	reg.MustRegister(m.imported, m.updated, m.discrepancies, m.attempts, m.documents, m.users)
	return m
}

// ObserveImport records a completed import run.
func (m *SyncMetrics) ObserveImport(imported, updated, users, documents int) {
	if m == nil || m.imported == nil {
		return
	}
	m.imported.Add(float64(imported))
	m.updated.Add(float64(updated))
	m.users.Set(float64(users))
	m.documents.Set(float64(documents))
}

// IncDiscrepancy counts an override that lost to the backend.
func (m *SyncMetrics) IncDiscrepancy() {
	if m == nil || m.discrepancies == nil {
		return
	}
	m.discrepancies.Inc()
}

// IncAttempt counts a listing attempt against endpoint.
func (m *SyncMetrics) IncAttempt(endpoint, outcome string) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(normalizeLabel(endpoint), normalizeLabel(outcome)).Inc()
}
