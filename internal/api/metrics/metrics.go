// Package metrics defines and registers all custom Prometheus metrics for
// the order-system API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at package init via promauto;
// the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orderdesk"

// ── Auth metrics ─────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "denied"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GuardDenialsTotal counts guard pipeline denials.
// Labels:
//   - reason: "missing_credential", "invalid_token", "expired_token",
//     "stale_identity", "insufficient_role"
//   - transport: "http" or "ws"
var GuardDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_denials_total",
		Help:      "Total number of requests denied by the guard pipeline.",
	},
	[]string{"reason", "transport"},
)

// IdentityCacheTotal counts identity cache lookups.
// Label:
//   - result: "hit" or "miss"
var IdentityCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_cache_total",
		Help:      "Total number of identity cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Chat metrics ─────────────────────────────────────────────────────────────

// WSConnections tracks currently open websocket connections.
var WSConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ws_connections",
		Help:      "Number of currently open chat websocket connections.",
	},
)

// MessagesSentTotal counts chat messages accepted and broadcast.
var MessagesSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of chat messages persisted and broadcast.",
	},
)

// RoomsClosedTotal counts rooms closed through the atomic close operation.
var RoomsClosedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rooms_closed_total",
		Help:      "Total number of chat rooms closed.",
	},
)
