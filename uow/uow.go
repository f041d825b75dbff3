// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package uow

import (
	"context"
	"fmt"

	"sqlgate/backend"
	"sqlgate/logger"
	"sqlgate/metrics"
	"sqlgate/session"
)

// State is the lifecycle position of a UnitOfWork.
type State int

const (
	// StateOpen means the transaction is live and accepting statements.
	StateOpen State = iota
	// StateCommitted means the transaction committed.
	StateCommitted
	// StateRolledBack means the transaction rolled back.
	StateRolledBack
	// StateClosed means the session has been released; the unit of work
	// is spent.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// UnitOfWork demarcates one transaction boundary around one session. From
// OPEN it reaches exactly one of COMMITTED or ROLLED_BACK before CLOSED, and
// closing releases the session exactly once on every path.
//
// A UnitOfWork is driven by a single logical task; it is not safe for
// concurrent use, matching the session it wraps.
type UnitOfWork struct {
	sess  *session.Session
	state State
	log   *logger.Logger
}

// Start acquires a session from the factory, begins a transaction and
// returns the unit of work in the OPEN state. If begin fails the session is
// released before the error is returned.
func Start(ctx context.Context, f *session.Factory) (*UnitOfWork, error) {
	s, err := f.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	u, err := Wrap(ctx, s)
	if err != nil {
		_ = s.Release()
		return nil, err
	}
	return u, nil
}

// Wrap begins a transaction on an existing session and takes ownership of
// it: the unit of work will release the session when closed. Beginning on a
// session that already has an open transaction fails with TransactionError
// and leaves that transaction untouched.
func Wrap(ctx context.Context, s *session.Session) (*UnitOfWork, error) {
	if err := s.Begin(ctx); err != nil {
		return nil, err
	}
	u := &UnitOfWork{
		sess:  s,
		state: StateOpen,
		log:   logger.New("uow"),
	}
	u.log.Debug("transaction opened", map[string]any{"session_id": s.ID()})
	return u, nil
}

// State returns the current lifecycle state.
func (u *UnitOfWork) State() State { return u.state }

// Session returns the wrapped session, for composing several operations in
// one transaction. Pass the unit of work (or its session) along; never nest
// a second unit of work on it.
func (u *UnitOfWork) Session() *session.Session { return u.sess }

// Exec runs a statement inside the transaction.
func (u *UnitOfWork) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	if u.state != StateOpen {
		return 0, backend.NewTransactionError("unit of work is " + u.state.String())
	}
	return u.sess.Execute(ctx, stmt, args...)
}

// Query runs a read statement inside the transaction.
func (u *UnitOfWork) Query(ctx context.Context, stmt string, args ...any) ([]map[string]any, error) {
	if u.state != StateOpen {
		return nil, backend.NewTransactionError("unit of work is " + u.state.String())
	}
	return u.sess.Query(ctx, stmt, args...)
}

// Commit commits the transaction. Valid only from OPEN. If the commit
// command itself fails, a best-effort rollback follows, the unit of work
// lands in ROLLED_BACK, and the caller gets a CommitError carrying the
// original failure: a failed commit never partially succeeded.
func (u *UnitOfWork) Commit() error {
	if u.state != StateOpen {
		return backend.NewTransactionError("commit from state " + u.state.String())
	}

	if err := u.sess.Commit(); err != nil {
		rbErr := u.sess.Rollback()
		u.state = StateRolledBack
		metrics.Transactions.WithLabelValues(u.sess.Driver(), metrics.OutcomeRolledBack).Inc()
		u.log.Error("commit failed, rolled back", err, map[string]any{
			"session_id": u.sess.ID(),
		})
		return backend.NewCommitError(err, rbErr)
	}

	u.state = StateCommitted
	metrics.Transactions.WithLabelValues(u.sess.Driver(), metrics.OutcomeCommitted).Inc()
	u.log.Debug("transaction committed", map[string]any{"session_id": u.sess.ID()})
	return nil
}

// Rollback rolls back the transaction. Valid only from OPEN. A rollback
// failure (for instance a connection that already died) is surfaced as
// RollbackError but does not stop the session from being released on Close.
func (u *UnitOfWork) Rollback() error {
	if u.state != StateOpen {
		return backend.NewTransactionError("rollback from state " + u.state.String())
	}

	err := u.sess.Rollback()
	u.state = StateRolledBack
	metrics.Transactions.WithLabelValues(u.sess.Driver(), metrics.OutcomeRolledBack).Inc()
	if err != nil {
		u.log.Error("rollback failed", err, map[string]any{"session_id": u.sess.ID()})
		return backend.NewRollbackError(err)
	}
	u.log.Debug("transaction rolled back", map[string]any{"session_id": u.sess.ID()})
	return nil
}

// Close releases the session and moves to CLOSED. A still-open transaction
// is rolled back first, so deferring Close guarantees cleanup on every exit
// path, including a panic in the enclosed work. Close is idempotent.
func (u *UnitOfWork) Close() error {
	if u.state == StateClosed {
		return nil
	}
	if u.state == StateOpen {
		if err := u.Rollback(); err != nil {
			u.log.Warn("rollback during close failed", map[string]any{"error": err.Error()})
		}
	}
	u.state = StateClosed
	return u.sess.Release()
}

// Run is the scoped entry point: it acquires a session, begins a
// transaction, calls fn, commits when fn returns nil and rolls back when it
// returns an error, re-surfacing fn's error to the caller. The session is
// released on every path. If the rollback itself also fails, its error is
// attached as context without ever replacing the original cause.
func Run(ctx context.Context, f *session.Factory, fn func(ctx context.Context, u *UnitOfWork) error) error {
	u, err := Start(ctx, f)
	if err != nil {
		return err
	}
	defer func() { _ = u.Close() }()

	if err := fn(ctx, u); err != nil {
		if rbErr := u.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (also: %v)", err, rbErr)
		}
		return err
	}
	return u.Commit()
}
