// Package metrics exposes Prometheus counters for bot activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts processed inbound turns by selected handler.
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "charliebot_turns_total",
		Help: "Inbound turns processed, labeled by the handler that served them.",
	}, []string{"handler"})

	// RepliesTotal counts outbound replies by delivery outcome.
	RepliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "charliebot_replies_total",
		Help: "Outbound replies attempted, labeled by delivery outcome.",
	}, []string{"outcome"})

	// OrderLookupsTotal counts order lookups by outcome.
	OrderLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "charliebot_order_lookups_total",
		Help: "Order lookups performed, labeled by outcome.",
	}, []string{"outcome"})

	// BookingsTotal counts appointment bookings by outcome.
	BookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "charliebot_bookings_total",
		Help: "Appointment booking attempts, labeled by outcome.",
	}, []string{"outcome"})
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
