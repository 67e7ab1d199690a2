// Package metrics defines and registers the custom Prometheus metrics of the
// back office. Collectors register with the default registry on import via
// promauto; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Entity metrics ────────────────────────────────────────────────────────────

// EntityMutationsTotal counts successful writes.
// Labels:
//   - entity: "user", "client" or "insurance"
//   - operation: "create", "update", "delete" or "cancel"
var EntityMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_mutations_total",
		Help:      "Total number of successful entity writes, by entity and operation.",
	},
	[]string{"entity", "operation"},
)

// InsuranceStatusTotal counts statuses assigned to policies, at creation
// ("active" or "expired") and on cancel ("canceled").
var InsuranceStatusTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "insurance_status_total",
		Help:      "Total number of insurance statuses assigned, by status.",
	},
	[]string{"status"},
)

// RecordMutation increments EntityMutationsTotal.
func RecordMutation(entity, operation string) {
	EntityMutationsTotal.WithLabelValues(entity, operation).Inc()
}
