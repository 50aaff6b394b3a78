// Package metrics defines and registers all custom Prometheus metrics for
// the portfolio platform API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default registry via promauto at package
// load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "domain_not_registered",
//     "banned" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts signup attempts by outcome.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// RecoveryStepsTotal counts password recovery steps by outcome.
// Labels:
//   - step: "initiate" or "complete"
//   - result: "ok", "rejected" or "error"
var RecoveryStepsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recovery_steps_total",
		Help:      "Total number of password recovery steps, labelled by step and outcome.",
	},
	[]string{"step", "result"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// ClaimResyncsTotal counts claim resynchronizations from the credential
// store by trigger.
// Label:
//   - reason: "first_seen", "forced", "ttl"
var ClaimResyncsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "claim_resyncs_total",
		Help:      "Total number of session claim resynchronizations, labelled by trigger.",
	},
	[]string{"reason"},
)

// SessionsRejectedTotal counts requests refused by the session layer.
// Label:
//   - reason: "no_token", "invalid_token", "banned", "gone"
var SessionsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_rejected_total",
		Help:      "Total number of requests rejected by session validation.",
	},
	[]string{"reason"},
)

// ── Moderation metrics ────────────────────────────────────────────────────────

// ModerationActionsTotal counts admin moderation actions.
// Label:
//   - action: "ban", "unban", "set_role", "approve_request", "reject_request"
var ModerationActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_actions_total",
		Help:      "Total number of admin moderation actions performed.",
	},
	[]string{"action"},
)
