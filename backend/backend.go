// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
)

// Backend opens connection pools for one driver family. Implementations live
// in the backend/postgres, backend/mysql and backend/sqlite subpackages; any
// storage engine that can satisfy Pool/Conn/Tx plugs in the same way.
type Backend interface {
	// Name is the driver identifier matched against Settings.Driver.
	Name() string

	// Validate performs driver-specific DSN checks. It must not dial.
	Validate(settings Settings) error

	// Open builds a pool for the given settings. Opening is lazy: no
	// network round-trip happens until the first checkout or ping.
	Open(settings Settings) (Pool, error)
}

// Pool is a bounded set of reusable connections. It is safe for concurrent
// use; it is the only shared mutable resource in this package.
type Pool interface {
	// Acquire checks out one connection. It blocks while the pool is
	// saturated and fails with PoolExhaustedError once the context
	// deadline expires without a free connection.
	Acquire(ctx context.Context) (Conn, error)

	// Ping verifies reachability with a single round-trip.
	Ping(ctx context.Context) error

	// Stats reports current pool occupancy.
	Stats() PoolStats

	// Close tears down the pool and its idle connections. Connections
	// still checked out fail on next use.
	Close() error
}

// Conn is a single checked-out connection. A Conn belongs to exactly one
// logical task at a time and must be released exactly once.
type Conn interface {
	// Exec runs a statement in autocommit mode and reports rows affected.
	Exec(ctx context.Context, stmt string, args ...any) (int64, error)

	// Query runs a read statement and materializes the result rows.
	Query(ctx context.Context, stmt string, args ...any) ([]map[string]any, error)

	// Begin opens a transaction on this connection.
	Begin(ctx context.Context) (Tx, error)

	// Release returns the connection to its pool.
	Release() error
}

// Tx is an open transaction bound to one Conn.
type Tx interface {
	Exec(ctx context.Context, stmt string, args ...any) (int64, error)
	Query(ctx context.Context, stmt string, args ...any) ([]map[string]any, error)
	Commit() error
	Rollback() error
}

// PoolStats is a snapshot of pool occupancy.
type PoolStats struct {
	Open  int `json:"open"`   // connections currently open
	InUse int `json:"in_use"` // connections checked out
	Idle  int `json:"idle"`   // connections parked in the pool
}
