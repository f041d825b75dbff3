// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sqlgate/backend"
	"sqlgate/logger"
	"sqlgate/metrics"
)

// Engine owns one connection pool bound to one configuration. Engines are
// built lazily by the Registry and identified by the settings they were built
// from; construction performs no network round-trip.
type Engine struct {
	id        string
	settings  backend.Settings
	pool      backend.Pool
	createdAt time.Time
	log       *logger.Logger
}

func newEngine(b backend.Backend, settings backend.Settings) (*Engine, error) {
	pool, err := b.Open(settings)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		id:        uuid.NewString(),
		settings:  settings,
		pool:      pool,
		createdAt: time.Now(),
		log:       logger.New("engine"),
	}
	metrics.EngineBuilds.WithLabelValues(settings.Driver).Inc()
	e.log.Info("engine constructed", map[string]any{
		"engine_id":     e.id,
		"driver":        settings.Driver,
		"pool_max_size": settings.PoolMaxSize,
	})
	return e, nil
}

// ID returns the unique identifier assigned at construction.
func (e *Engine) ID() string { return e.id }

// Settings returns the configuration this engine was built from.
func (e *Engine) Settings() backend.Settings { return e.settings }

// Pool returns the engine's connection pool.
func (e *Engine) Pool() backend.Pool { return e.pool }

// CreatedAt returns when the engine was constructed.
func (e *Engine) CreatedAt() time.Time { return e.createdAt }

// Ping verifies reachability with a single round-trip.
func (e *Engine) Ping(ctx context.Context) error {
	return e.pool.Ping(ctx)
}

// dispose closes the pool. Sessions still checked out fail on next use;
// disposal is for shutdown and reconfiguration, not for live traffic.
func (e *Engine) dispose() error {
	err := e.pool.Close()
	metrics.EngineDisposals.WithLabelValues(e.settings.Driver).Inc()
	if err != nil {
		e.log.Error("engine disposed with error", err, map[string]any{"engine_id": e.id})
		return err
	}
	e.log.Info("engine disposed", map[string]any{"engine_id": e.id})
	return nil
}
