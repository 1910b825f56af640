// Package metrics defines and registers all custom Prometheus metrics for
// the accounts API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package load; expose them by mounting promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accounts"

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: "missing_header", "bad_scheme", "malformed", "signature", "expired"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by the authentication stage.",
	},
	[]string{"reason"},
)

// AccessDeniedTotal counts authenticated requests rejected by role checks.
// Label:
//   - required_role: the role the route demanded
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of authenticated requests denied for insufficient role.",
	},
	[]string{"required_role"},
)

// CreditChecksTotal counts credit sufficiency checks.
// Label:
//   - result: "sufficient" or "insufficient"
var CreditChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credit_checks_total",
		Help:      "Total number of credit sufficiency checks, by result.",
	},
	[]string{"result"},
)

// CreditDebitsTotal counts debit attempts.
// Label:
//   - outcome: "success", "insufficient", "not_found", "error"
var CreditDebitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credit_debits_total",
		Help:      "Total number of credit debit attempts, by outcome.",
	},
	[]string{"outcome"},
)

// AuditQueueDepth tracks events waiting in each audit worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of credit events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)
