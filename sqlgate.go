// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package sqlgate

import (
	"context"

	"sqlgate/backend"
	"sqlgate/backend/mysql"
	"sqlgate/backend/postgres"
	"sqlgate/backend/sqlite"
	"sqlgate/engine"
	"sqlgate/health"
	"sqlgate/session"
	"sqlgate/uow"
)

// defaultRegistry serves the package-level entry points. Building it is
// cheap: engines only come to life on the first GetEngine call.
var defaultRegistry = engine.NewRegistry(
	postgres.New(),
	mysql.New(),
	sqlite.New(),
)

// DefaultRegistry returns the process-wide registry behind the package-level
// functions. Code that needs isolation (tests, multi-registry setups) should
// construct its own engine.NewRegistry instead.
func DefaultRegistry() *engine.Registry {
	return defaultRegistry
}

// GetEngine returns the live engine for the given settings, constructing it
// lazily on first demand.
func GetEngine(settings backend.Settings) (*engine.Engine, error) {
	return defaultRegistry.GetEngine(settings)
}

// GetSessionFactory returns a session factory bound to the engine for the
// given settings.
func GetSessionFactory(settings backend.Settings) *session.Factory {
	return session.NewFactory(defaultRegistry, settings)
}

// DisposeEngine closes every live engine and clears the default registry;
// the next GetEngine call rebuilds from scratch. Safe to call when no engine
// exists.
func DisposeEngine() error {
	return defaultRegistry.Dispose()
}

// CheckDatabaseHealth probes the database for the given settings. It never
// returns an error; failures come back as an unhealthy status.
func CheckDatabaseHealth(ctx context.Context, settings backend.Settings) *health.Status {
	return health.NewProbe(GetSessionFactory(settings)).Check(ctx)
}

// WithUnitOfWork runs fn inside a single transaction: committed when fn
// returns nil, rolled back when it returns an error, with the session
// released on every path.
func WithUnitOfWork(ctx context.Context, settings backend.Settings, fn func(ctx context.Context, u *uow.UnitOfWork) error) error {
	return uow.Run(ctx, GetSessionFactory(settings), fn)
}
