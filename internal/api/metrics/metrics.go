// Package metrics defines and registers all custom Prometheus metrics for the
// plans API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry at package init
// through promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "plans"

// ── Plan metrics ──────────────────────────────────────────────────────────────

// PlansCreatedTotal counts newly created plans.
// Label:
//   - type: the plan type (e.g. "beach", "movie")
var PlansCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plans_created_total",
		Help:      "Total number of plans created, by plan type.",
	},
	[]string{"type"},
)

// PlanActionsTotal counts successful membership and comment mutations.
// Label:
//   - action: "join", "approve", "block", "comment" or "uncomment"
var PlanActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plan_actions_total",
		Help:      "Total number of plan mutations, by action.",
	},
	[]string{"action"},
)

// PlansDiscoveredTotal observes how many plans each discovery call returned.
var PlansDiscoveredTotal = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "plans_discovered",
		Help:      "Number of plans returned by a discovery query.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	},
)

// ── Rating metrics ────────────────────────────────────────────────────────────

// RatingsTotal counts accepted ratings.
// Label:
//   - score: the submitted score, "1" to "5"
var RatingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ratings_total",
		Help:      "Total number of ratings accepted, by score.",
	},
	[]string{"score"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsDispatchedTotal counts jobs handled by the dispatcher.
// Labels:
//   - action: the notification action (e.g. "new_request")
//   - result: "ok" or "error"
var NotificationsDispatchedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dispatched_total",
		Help:      "Total number of notification jobs processed, by action and result.",
	},
	[]string{"action", "result"},
)

// NotificationQueueDepth tracks the number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notification jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationDeliveryDuration measures how long a job takes from dequeue to
// persistence.
// Label:
//   - action: the notification action
var NotificationDeliveryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_delivery_duration_seconds",
		Help:      "Duration of notification delivery from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)
