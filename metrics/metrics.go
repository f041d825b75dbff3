// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus collectors for the connectivity layer:
// engine lifecycle, session checkouts, transaction outcomes and health probe
// latency. Collectors register themselves with the default registry; serve
// them with promhttp from the embedding application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// EngineBuilds counts lazy engine constructions per driver.
	EngineBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlgate_engine_builds_total",
			Help: "Total number of engines constructed",
		},
		[]string{"driver"},
	)

	// EngineDisposals counts engine teardowns per driver.
	EngineDisposals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlgate_engine_disposals_total",
			Help: "Total number of engines disposed",
		},
		[]string{"driver"},
	)

	// SessionsAcquired counts successful pool checkouts per driver.
	SessionsAcquired = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlgate_sessions_acquired_total",
			Help: "Total number of sessions checked out of the pool",
		},
		[]string{"driver"},
	)

	// SessionAcquireFailures counts failed checkouts by failure class.
	SessionAcquireFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlgate_session_acquire_failures_total",
			Help: "Total number of failed session checkouts",
		},
		[]string{"driver", "reason"},
	)

	// SessionsReleased counts sessions returned to the pool per driver.
	SessionsReleased = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlgate_sessions_released_total",
			Help: "Total number of sessions released back to the pool",
		},
		[]string{"driver"},
	)

	// Transactions counts finished units of work by outcome.
	Transactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlgate_transactions_total",
			Help: "Total number of units of work by outcome",
		},
		[]string{"driver", "outcome"},
	)

	// HealthCheckDuration tracks round-trip latency of health probes.
	HealthCheckDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlgate_health_check_duration_seconds",
			Help:    "Health probe round-trip latency",
			Buckets: []float64{.001, .002, .005, .01, .02, .05, .1, .2, .5, 1},
		},
		[]string{"driver"},
	)

	// HealthChecks counts probe results by verdict.
	HealthChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlgate_health_checks_total",
			Help: "Total number of health probes by verdict",
		},
		[]string{"driver", "healthy"},
	)
)

// Transaction outcome label values.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
)

func init() {
	prometheus.MustRegister(EngineBuilds)
	prometheus.MustRegister(EngineDisposals)
	prometheus.MustRegister(SessionsAcquired)
	prometheus.MustRegister(SessionAcquireFailures)
	prometheus.MustRegister(SessionsReleased)
	prometheus.MustRegister(Transactions)
	prometheus.MustRegister(HealthCheckDuration)
	prometheus.MustRegister(HealthChecks)
}
