// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"sqlgate/backend"
	"sqlgate/logger"
	"sqlgate/metrics"
)

// Session is one connection checked out of an engine's pool for a single
// logical operation or transaction. A session belongs to exactly one logical
// task at a time; it is never shared across concurrent callers, so the mutex
// here only guards against lifecycle misuse, not concurrent statement use.
type Session struct {
	mu sync.Mutex

	id       string
	driver   string
	engineID string
	conn     backend.Conn
	tx       backend.Tx
	released bool
	log      *logger.Logger
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// EngineID returns the identifier of the engine this session came from.
func (s *Session) EngineID() string { return s.engineID }

// Driver returns the backend driver name.
func (s *Session) Driver() string { return s.driver }

// InTx reports whether a transaction is open on this session.
func (s *Session) InTx() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx != nil
}

// Execute runs a statement. Outside a transaction it autocommits; inside one
// it becomes part of the transaction.
func (s *Session) Execute(ctx context.Context, stmt string, args ...any) (int64, error) {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return 0, backend.NewTransactionError("session already released")
	}
	tx, conn := s.tx, s.conn
	s.mu.Unlock()

	if tx != nil {
		return tx.Exec(ctx, stmt, args...)
	}
	return conn.Exec(ctx, stmt, args...)
}

// Query runs a read statement and materializes the rows.
func (s *Session) Query(ctx context.Context, stmt string, args ...any) ([]map[string]any, error) {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return nil, backend.NewTransactionError("session already released")
	}
	tx, conn := s.tx, s.conn
	s.mu.Unlock()

	if tx != nil {
		return tx.Query(ctx, stmt, args...)
	}
	return conn.Query(ctx, stmt, args...)
}

// Begin opens a transaction on the session. A session carries at most one
// open transaction; a second Begin fails with TransactionError and leaves
// the first transaction untouched. Most callers should reach for uow.Run
// instead of driving this by hand.
func (s *Session) Begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return backend.NewTransactionError("session already released")
	}
	if s.tx != nil {
		return backend.NewTransactionError("transaction already open on session " + s.id)
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return backend.NewConnectivityError(s.driver, "begin failed", err)
	}
	s.tx = tx
	return nil
}

// Commit commits the open transaction. On success the session leaves
// transactional mode. On failure the transaction handle is kept so a
// best-effort rollback can follow; the raw backend error is returned for the
// caller (normally the unit of work) to classify.
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return backend.NewTransactionError("commit without open transaction")
	}
	if err := s.tx.Commit(); err != nil {
		return err
	}
	s.tx = nil
	return nil
}

// Rollback rolls back the open transaction. The session leaves transactional
// mode whether or not the rollback itself succeeds.
func (s *Session) Rollback() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		return backend.NewTransactionError("rollback without open transaction")
	}
	err := s.tx.Rollback()
	s.tx = nil
	return err
}

// Release returns the connection to the pool. The underlying release runs at
// most once; further calls are no-ops. An open transaction is rolled back
// best-effort first.
func (s *Session) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil
	}
	s.released = true

	if s.tx != nil {
		if err := s.tx.Rollback(); err != nil {
			s.log.Warn("rollback on release failed", map[string]any{
				"session_id": s.id,
				"error":      err.Error(),
			})
		}
		s.tx = nil
	}

	err := s.conn.Release()
	metrics.SessionsReleased.WithLabelValues(s.driver).Inc()
	if err != nil {
		s.log.Error("session release failed", err, map[string]any{"session_id": s.id})
		return err
	}
	s.log.Debug("session released", map[string]any{"session_id": s.id})
	return nil
}

// released state accessor for tests in this package.
func (s *Session) isReleased() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// NewFromConn wraps an already-acquired connection as a Session. The factory
// is the normal construction path; this exists for tests and adapters that
// manage their own checkout.
func NewFromConn(conn backend.Conn, driver, engineID string) *Session {
	return &Session{
		id:       uuid.NewString(),
		driver:   driver,
		engineID: engineID,
		conn:     conn,
		log:      logger.New("session"),
	}
}
