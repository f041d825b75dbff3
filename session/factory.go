// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"

	"sqlgate/backend"
	"sqlgate/engine"
	"sqlgate/logger"
	"sqlgate/metrics"
)

// Factory produces sessions bound to one configuration. It is stateless
// beyond the registry reference and the settings, so one factory can serve
// any number of concurrent callers; the first NewSession triggers lazy
// engine construction.
type Factory struct {
	registry *engine.Registry
	settings backend.Settings
	log      *logger.Logger
}

// NewFactory creates a factory for the given registry and settings.
func NewFactory(registry *engine.Registry, settings backend.Settings) *Factory {
	return &Factory{
		registry: registry,
		settings: settings,
		log:      logger.New("session"),
	}
}

// Settings returns the configuration this factory binds sessions to.
func (f *Factory) Settings() backend.Settings { return f.settings }

// Engine resolves the factory's engine, constructing it on first use.
func (f *Factory) Engine() (*engine.Engine, error) {
	return f.registry.GetEngine(f.settings)
}

// NewSession checks one connection out of the engine's pool. It blocks up to
// the acquire timeout while the pool is saturated and fails with
// PoolExhaustedError when the timeout expires, or ConnectivityError when the
// underlying connect fails. No transaction is started.
func (f *Factory) NewSession(ctx context.Context) (*Session, error) {
	eng, err := f.registry.GetEngine(f.settings)
	if err != nil {
		return nil, err
	}

	conn, err := eng.Pool().Acquire(ctx)
	if err != nil {
		metrics.SessionAcquireFailures.WithLabelValues(eng.Settings().Driver, failureReason(err)).Inc()
		return nil, err
	}

	s := NewFromConn(conn, eng.Settings().Driver, eng.ID())
	metrics.SessionsAcquired.WithLabelValues(eng.Settings().Driver).Inc()
	f.log.Debug("session acquired", map[string]any{
		"session_id": s.id,
		"engine_id":  eng.ID(),
	})
	return s, nil
}

// With acquires a session, passes it to fn and releases it on every exit
// path, including a panic inside fn.
func (f *Factory) With(ctx context.Context, fn func(*Session) error) error {
	s, err := f.NewSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = s.Release() }()
	return fn(s)
}

func failureReason(err error) string {
	var exhausted *backend.PoolExhaustedError
	if errors.As(err, &exhausted) {
		return "pool_exhausted"
	}
	var config *backend.ConfigurationError
	if errors.As(err, &config) {
		return "configuration"
	}
	return "connectivity"
}
