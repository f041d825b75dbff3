// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"fmt"
	"time"
)

// ConfigurationError reports malformed settings. It is fatal: retrying with
// the same settings cannot succeed.
type ConfigurationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration: %s: %s (cause: %v)", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Message)
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

// NewConfigurationError creates a ConfigurationError for the given field.
func NewConfigurationError(field, message string, cause error) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: message, Cause: cause}
}

// ConnectivityError reports a failure to reach or talk to the backend.
// It is transient: callers may retry with backoff.
type ConnectivityError struct {
	Driver  string
	Message string
	Cause   error
}

func (e *ConnectivityError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Driver, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Driver, e.Message)
}

func (e *ConnectivityError) Unwrap() error { return e.Cause }

// NewConnectivityError creates a ConnectivityError for the given driver.
func NewConnectivityError(driver, message string, cause error) *ConnectivityError {
	return &ConnectivityError{Driver: driver, Message: message, Cause: cause}
}

// PoolExhaustedError reports that no connection became free within the
// acquisition timeout. Transient: retry after backoff, or raise capacity.
type PoolExhaustedError struct {
	Driver  string
	Timeout time.Duration
	Cause   error
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("%s: pool exhausted after %v", e.Driver, e.Timeout)
}

func (e *PoolExhaustedError) Unwrap() error { return e.Cause }

// NewPoolExhaustedError creates a PoolExhaustedError.
func NewPoolExhaustedError(driver string, timeout time.Duration, cause error) *PoolExhaustedError {
	return &PoolExhaustedError{Driver: driver, Timeout: timeout, Cause: cause}
}

// TransactionError reports transaction lifecycle misuse: double begin,
// operations after close, commit without an open transaction. These are
// programmer errors, fatal to the operation.
type TransactionError struct {
	Message string
}

func (e *TransactionError) Error() string {
	return "transaction: " + e.Message
}

// NewTransactionError creates a TransactionError.
func NewTransactionError(message string) *TransactionError {
	return &TransactionError{Message: message}
}

// CommitError reports a failed commit. Cause is the commit failure the
// caller must act on; RollbackErr records the outcome of the best-effort
// rollback that followed and never replaces the primary cause.
type CommitError struct {
	Cause       error
	RollbackErr error
}

func (e *CommitError) Error() string {
	if e.RollbackErr != nil {
		return fmt.Sprintf("commit failed: %v (rollback also failed: %v)", e.Cause, e.RollbackErr)
	}
	return fmt.Sprintf("commit failed: %v", e.Cause)
}

func (e *CommitError) Unwrap() error { return e.Cause }

// NewCommitError creates a CommitError.
func NewCommitError(cause, rollbackErr error) *CommitError {
	return &CommitError{Cause: cause, RollbackErr: rollbackErr}
}

// RollbackError reports a failed rollback, typically a dead connection.
// The session is still released afterwards.
type RollbackError struct {
	Cause error
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("rollback failed: %v", e.Cause)
}

func (e *RollbackError) Unwrap() error { return e.Cause }

// NewRollbackError creates a RollbackError.
func NewRollbackError(cause error) *RollbackError {
	return &RollbackError{Cause: cause}
}
