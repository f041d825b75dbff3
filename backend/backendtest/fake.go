// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

// Package backendtest provides an in-memory backend.Backend with injectable
// failures and call tracking, for exercising registry, session and unit of
// work semantics without a real database.
package backendtest

import (
	"context"
	"sync"

	"sqlgate/backend"
)

// Backend is a fake backend. The zero value is not usable; construct with New.
type Backend struct {
	mu sync.Mutex

	driver string

	// Injected failures. Set before use; nil means success.
	ValidateErr error
	OpenErr     error
	AcquireErr  error
	BeginErr    error
	CommitErr   error
	RollbackErr error
	ExecErr     error

	// Pools holds every pool handed out by Open, in order.
	Pools []*Pool
}

// New creates a fake backend answering to the given driver name.
func New(driver string) *Backend {
	return &Backend{driver: driver}
}

func (b *Backend) Name() string { return b.driver }

func (b *Backend) Validate(settings backend.Settings) error {
	return b.ValidateErr
}

func (b *Backend) Open(settings backend.Settings) (backend.Pool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	p := &Pool{
		backend:  b,
		settings: settings,
		slots:    make(chan struct{}, settings.PoolMaxSize),
	}
	b.Pools = append(b.Pools, p)
	return p, nil
}

// LastPool returns the most recently opened pool, or nil.
func (b *Backend) LastPool() *Pool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.Pools) == 0 {
		return nil
	}
	return b.Pools[len(b.Pools)-1]
}

// Pool is a fake pool enforcing PoolMaxSize with a channel semaphore, so
// saturation and checkout timeouts behave like the real thing.
type Pool struct {
	mu sync.Mutex

	backend  *Backend
	settings backend.Settings
	slots    chan struct{}
	closed   bool

	// Counters.
	Acquired  int
	Released  int
	Commits   int
	Rollbacks int

	// Statements records every Exec across conns and transactions.
	Statements []string
}

func (p *Pool) Acquire(ctx context.Context) (backend.Conn, error) {
	if err := p.failure(func(b *Backend) error { return b.AcquireErr }); err != nil {
		return nil, err
	}
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, backend.NewConnectivityError(p.settings.Driver, "pool is closed", nil)
	}

	if _, ok := ctx.Deadline(); !ok && p.settings.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.settings.AcquireTimeout)
		defer cancel()
	}

	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, backend.NewPoolExhaustedError(p.settings.Driver, p.settings.AcquireTimeout, ctx.Err())
	}

	p.mu.Lock()
	p.Acquired++
	p.mu.Unlock()
	return &Conn{pool: p}, nil
}

func (p *Pool) Ping(ctx context.Context) error {
	if err := p.failure(func(b *Backend) error { return b.AcquireErr }); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return backend.NewConnectivityError(p.settings.Driver, "pool is closed", nil)
	}
	return nil
}

func (p *Pool) Stats() backend.PoolStats {
	return backend.PoolStats{
		Open:  len(p.slots),
		InUse: len(p.slots),
	}
}

func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (p *Pool) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Pool) failure(pick func(*Backend) error) error {
	p.backend.mu.Lock()
	defer p.backend.mu.Unlock()
	return pick(p.backend)
}

func (p *Pool) record(stmt string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Statements = append(p.Statements, stmt)
}

// Conn is a fake checked-out connection.
type Conn struct {
	mu       sync.Mutex
	pool     *Pool
	released bool
}

func (c *Conn) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	if err := c.pool.failure(func(b *Backend) error { return b.ExecErr }); err != nil {
		return 0, err
	}
	c.pool.record(stmt)
	return 1, nil
}

func (c *Conn) Query(ctx context.Context, stmt string, args ...any) ([]map[string]any, error) {
	if err := c.pool.failure(func(b *Backend) error { return b.ExecErr }); err != nil {
		return nil, err
	}
	c.pool.record(stmt)
	return []map[string]any{{"result": int64(1)}}, nil
}

func (c *Conn) Begin(ctx context.Context) (backend.Tx, error) {
	if err := c.pool.failure(func(b *Backend) error { return b.BeginErr }); err != nil {
		return nil, err
	}
	return &Tx{pool: c.pool}, nil
}

func (c *Conn) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return backend.NewTransactionError("connection released twice")
	}
	c.released = true
	<-c.pool.slots
	c.pool.mu.Lock()
	c.pool.Released++
	c.pool.mu.Unlock()
	return nil
}

// Tx is a fake transaction.
type Tx struct {
	mu   sync.Mutex
	pool *Pool
	done bool
}

func (t *Tx) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	if err := t.pool.failure(func(b *Backend) error { return b.ExecErr }); err != nil {
		return 0, err
	}
	t.pool.record(stmt)
	return 1, nil
}

func (t *Tx) Query(ctx context.Context, stmt string, args ...any) ([]map[string]any, error) {
	if err := t.pool.failure(func(b *Backend) error { return b.ExecErr }); err != nil {
		return nil, err
	}
	t.pool.record(stmt)
	return []map[string]any{{"result": int64(1)}}, nil
}

func (t *Tx) Commit() error {
	if err := t.pool.failure(func(b *Backend) error { return b.CommitErr }); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return backend.NewTransactionError("transaction already finished")
	}
	t.done = true
	t.pool.mu.Lock()
	t.pool.Commits++
	t.pool.mu.Unlock()
	return nil
}

func (t *Tx) Rollback() error {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		// An already-finished transaction needs no rollback.
		return nil
	}
	t.done = true
	t.mu.Unlock()

	if err := t.pool.failure(func(b *Backend) error { return b.RollbackErr }); err != nil {
		return err
	}
	t.pool.mu.Lock()
	t.pool.Rollbacks++
	t.pool.mu.Unlock()
	return nil
}
