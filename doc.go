// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

/*
Package sqlgate is a database connectivity layer: lazily-built pooled
engines, request-scoped sessions, Unit of Work transaction boundaries and a
health probe, over pluggable SQL backends.

The package-level functions operate on a process-wide default registry and
are the entire public surface most applications need:

	settings, err := config.FromEnv("APP_DB")
	if err != nil {
	    log.Fatal(err)
	}

	err = sqlgate.WithUnitOfWork(ctx, settings, func(ctx context.Context, u *uow.UnitOfWork) error {
	    _, err := u.Exec(ctx, "INSERT INTO events (id, kind) VALUES ($1, $2)", id, kind)
	    return err
	})

	status := sqlgate.CheckDatabaseHealth(ctx, settings)

	_ = sqlgate.DisposeEngine() // at shutdown

Everything here delegates to the subpackages, which can be used directly
when a private registry is wanted:

  - engine  — engine lifecycle and the registry singleton semantics
  - session — pool checkout and scoped release
  - uow     — the transaction state machine and scoped Run
  - health  — liveness probing that never throws
  - config  — settings loaders (environment, YAML)
  - backend — the capability set a storage engine implements, plus the
    postgres, mysql and sqlite implementations

Query building, ORM semantics, migrations and schema management are out of
scope: sqlgate only manages connections, sessions and transaction
boundaries around an opaque SQL backend.
*/
package sqlgate
