// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

/*
Package backend defines the capability surface a storage engine must provide
to participate in SQLGate: opening a bounded connection pool, checking out
single connections, and running statements inside or outside a transaction.

The engine registry, session factory and unit of work are all written against
the Backend, Pool, Conn and Tx interfaces only. Concrete drivers live in the
subpackages:

  - backend/postgres — PostgreSQL via lib/pq
  - backend/mysql    — MySQL via go-sql-driver/mysql
  - backend/sqlite   — SQLite via modernc.org/sqlite (CGO-free)

All three are thin adapters over database/sql; OpenDB and WrapDB in this
package carry the shared pooling and scanning machinery, so a new SQL-family
backend only needs a driver registration and a DSN validator.

The package also owns the error taxonomy shared by every layer above it:

  - ConfigurationError — malformed settings, fatal
  - ConnectivityError  — transient backend failures, retryable
  - PoolExhaustedError — checkout timed out on a saturated pool
  - TransactionError   — lifecycle misuse (double begin, use after close)
  - CommitError        — failed commit, original cause preserved
  - RollbackError      — failed rollback, session still released

Errors always carry the backend's original error as their cause; nothing is
silently discarded.
*/
package backend
