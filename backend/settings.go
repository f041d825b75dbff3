// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"fmt"
	"time"
)

// Default pool and timeout values applied by Settings.WithDefaults.
const (
	DefaultPoolMinSize     = 2
	DefaultPoolMaxSize     = 10
	DefaultConnectTimeout  = 5 * time.Second
	DefaultAcquireTimeout  = 5 * time.Second
	DefaultConnMaxLifetime = 5 * time.Minute
)

// Settings holds everything needed to build an engine for one database.
// It is a plain comparable value: two Settings are the same configuration
// exactly when they are equal, which is what the engine registry keys on.
// Treat it as immutable after construction.
type Settings struct {
	// Driver selects the backend ("postgres", "mysql", "sqlite").
	Driver string

	// DSN is the driver-specific connection string.
	DSN string

	// PoolMinSize is the number of idle connections the pool keeps warm.
	PoolMinSize int

	// PoolMaxSize caps concurrent checkouts; callers beyond it block.
	PoolMaxSize int

	// ConnectTimeout bounds the initial dial of a new connection.
	ConnectTimeout time.Duration

	// AcquireTimeout bounds how long a checkout may wait on a saturated
	// pool before failing with PoolExhaustedError.
	AcquireTimeout time.Duration

	// StatementTimeout, when non-zero, bounds individual statement
	// execution on sessions that have no caller-supplied deadline.
	StatementTimeout time.Duration

	// ConnMaxLifetime recycles pooled connections older than this.
	ConnMaxLifetime time.Duration
}

// WithDefaults returns a copy with zero-valued tunables replaced by the
// package defaults. DSN and Driver are never defaulted.
func (s Settings) WithDefaults() Settings {
	if s.PoolMinSize == 0 {
		s.PoolMinSize = DefaultPoolMinSize
	}
	if s.PoolMaxSize == 0 {
		s.PoolMaxSize = DefaultPoolMaxSize
	}
	if s.ConnectTimeout == 0 {
		s.ConnectTimeout = DefaultConnectTimeout
	}
	if s.AcquireTimeout == 0 {
		s.AcquireTimeout = DefaultAcquireTimeout
	}
	if s.ConnMaxLifetime == 0 {
		s.ConnMaxLifetime = DefaultConnMaxLifetime
	}
	return s
}

// Validate checks the invariants that hold for every backend. Driver-specific
// DSN checks happen in the backend's own Validate.
func (s Settings) Validate() error {
	if s.Driver == "" {
		return NewConfigurationError("driver", "driver is required", nil)
	}
	if s.DSN == "" {
		return NewConfigurationError("dsn", "dsn is required", nil)
	}
	if s.PoolMinSize < 0 {
		return NewConfigurationError("pool_min_size", "pool_min_size cannot be negative", nil)
	}
	if s.PoolMaxSize < 1 {
		return NewConfigurationError("pool_max_size", "pool_max_size must be at least 1", nil)
	}
	if s.PoolMinSize > s.PoolMaxSize {
		return NewConfigurationError("pool_min_size",
			fmt.Sprintf("pool_min_size (%d) exceeds pool_max_size (%d)", s.PoolMinSize, s.PoolMaxSize), nil)
	}
	if s.ConnectTimeout < 0 || s.AcquireTimeout < 0 || s.StatementTimeout < 0 || s.ConnMaxLifetime < 0 {
		return NewConfigurationError("timeouts", "timeouts cannot be negative", nil)
	}
	return nil
}
