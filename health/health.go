// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

// Package health probes database liveness. Probes exist to be polled by
// external monitors, so they always answer and never propagate a failure:
// every problem becomes a Status with Healthy set to false.
package health

import (
	"context"
	"strconv"
	"time"

	"sqlgate/logger"
	"sqlgate/metrics"
	"sqlgate/session"
)

// probeStatement is the minimal round-trip accepted by every SQL backend.
const probeStatement = "SELECT 1"

// DefaultTimeout bounds a probe when the caller's context has no deadline.
const DefaultTimeout = 2 * time.Second

// Status is the result of one probe. Ephemeral: produced per call, never
// persisted.
type Status struct {
	Healthy   bool              `json:"healthy"`
	Latency   time.Duration     `json:"latency"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Error     string            `json:"error,omitempty"`
}

// Probe issues trivial round-trip queries through short-lived sessions. It
// borrows sessions outside any unit of work, so probing never participates
// in application transactions.
type Probe struct {
	factory *session.Factory
	timeout time.Duration
	log     *logger.Logger
}

// NewProbe creates a probe over the given factory.
func NewProbe(f *session.Factory) *Probe {
	return &Probe{
		factory: f,
		timeout: DefaultTimeout,
		log:     logger.New("health"),
	}
}

// Check acquires a session, runs one round-trip statement, measures latency
// and releases the session. It never returns an error; connectivity failures
// come back as an unhealthy Status.
func (p *Probe) Check(ctx context.Context) *Status {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	driver := p.factory.Settings().Driver
	start := time.Now()

	s, err := p.factory.NewSession(ctx)
	if err != nil {
		return p.unhealthy(driver, time.Since(start), err)
	}
	defer func() { _ = s.Release() }()

	if _, err := s.Query(ctx, probeStatement); err != nil {
		return p.unhealthy(driver, time.Since(start), err)
	}
	latency := time.Since(start)

	status := &Status{
		Healthy:   true,
		Latency:   latency,
		Timestamp: time.Now(),
	}
	if eng, err := p.factory.Engine(); err == nil {
		stats := eng.Pool().Stats()
		status.Details = map[string]string{
			"open_connections": strconv.Itoa(stats.Open),
			"in_use":           strconv.Itoa(stats.InUse),
			"idle":             strconv.Itoa(stats.Idle),
		}
	}

	metrics.HealthCheckDuration.WithLabelValues(driver).Observe(latency.Seconds())
	metrics.HealthChecks.WithLabelValues(driver, "true").Inc()
	return status
}

func (p *Probe) unhealthy(driver string, latency time.Duration, err error) *Status {
	metrics.HealthChecks.WithLabelValues(driver, "false").Inc()
	p.log.Warn("health probe failed", map[string]any{
		"driver": driver,
		"error":  err.Error(),
	})
	return &Status{
		Healthy:   false,
		Latency:   latency,
		Timestamp: time.Now(),
		Error:     err.Error(),
	}
}
