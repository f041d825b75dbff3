// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"context"
	"database/sql"
	"errors"
)

// OpenDB builds a Pool over database/sql for the given registered driver.
// sql.Open does not dial, so construction stays lazy; the first checkout or
// ping pays for the connection.
func OpenDB(driverName string, settings Settings) (Pool, error) {
	db, err := sql.Open(driverName, settings.DSN)
	if err != nil {
		return nil, NewConfigurationError("dsn", "unusable dsn for driver "+driverName, err)
	}
	return WrapDB(db, settings), nil
}

// WrapDB adapts an existing *sql.DB (e.g. one handed out by sqlmock) into a
// Pool, applying the pool sizing from settings.
func WrapDB(db *sql.DB, settings Settings) Pool {
	db.SetMaxOpenConns(settings.PoolMaxSize)
	db.SetMaxIdleConns(settings.PoolMinSize)
	db.SetConnMaxLifetime(settings.ConnMaxLifetime)
	return &sqlPool{db: db, settings: settings}
}

type sqlPool struct {
	db       *sql.DB
	settings Settings
}

func (p *sqlPool) Acquire(ctx context.Context) (Conn, error) {
	if _, ok := ctx.Deadline(); !ok && p.settings.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.settings.AcquireTimeout)
		defer cancel()
	}

	conn, err := p.db.Conn(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			// The same deadline covers waiting for a slot and dialing a
			// fresh connection. A fully checked-out pool means we were
			// waiting on a slot.
			if p.db.Stats().InUse >= p.settings.PoolMaxSize {
				return nil, NewPoolExhaustedError(p.settings.Driver, p.settings.AcquireTimeout, err)
			}
			return nil, NewConnectivityError(p.settings.Driver, "connect timed out", err)
		}
		return nil, NewConnectivityError(p.settings.Driver, "failed to acquire connection", err)
	}

	return &sqlConn{conn: conn, settings: p.settings}, nil
}

func (p *sqlPool) Ping(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok && p.settings.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.settings.ConnectTimeout)
		defer cancel()
	}
	if err := p.db.PingContext(ctx); err != nil {
		return NewConnectivityError(p.settings.Driver, "ping failed", err)
	}
	return nil
}

func (p *sqlPool) Stats() PoolStats {
	s := p.db.Stats()
	return PoolStats{
		Open:  s.OpenConnections,
		InUse: s.InUse,
		Idle:  s.Idle,
	}
}

func (p *sqlPool) Close() error {
	return p.db.Close()
}

type sqlConn struct {
	conn     *sql.Conn
	settings Settings
}

// opCtx applies the configured statement timeout when the caller supplied
// no deadline of their own.
func (c *sqlConn) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); !ok && c.settings.StatementTimeout > 0 {
		return context.WithTimeout(ctx, c.settings.StatementTimeout)
	}
	return ctx, func() {}
}

func (c *sqlConn) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	res, err := c.conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// Some drivers cannot report this; the statement still ran.
		return 0, nil
	}
	return affected, nil
}

func (c *sqlConn) Query(ctx context.Context, stmt string, args ...any) ([]map[string]any, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	rows, err := c.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	return scanRows(rows)
}

func (c *sqlConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{tx: tx, settings: c.settings}, nil
}

func (c *sqlConn) Release() error {
	err := c.conn.Close()
	if err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}

type sqlTx struct {
	tx       *sql.Tx
	settings Settings
}

func (t *sqlTx) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

func (t *sqlTx) Query(ctx context.Context, stmt string, args ...any) ([]map[string]any, error) {
	rows, err := t.tx.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	return scanRows(rows)
}

func (t *sqlTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqlTx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		// An already-finished transaction needs no rollback.
		return nil
	}
	return err
}

// scanRows materializes a result set as key-value maps. []byte columns are
// converted to strings so text values survive the round-trip.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
