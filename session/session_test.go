// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlgate/backend"
	"sqlgate/backend/backendtest"
	"sqlgate/engine"
)

func fakeSettings() backend.Settings {
	return backend.Settings{
		Driver:         "fake",
		DSN:            "fake://primary",
		PoolMaxSize:    2,
		AcquireTimeout: 50 * time.Millisecond,
	}
}

func newFixture(t *testing.T) (*backendtest.Backend, *Factory) {
	t.Helper()
	fake := backendtest.New("fake")
	reg := engine.NewRegistry(fake)
	t.Cleanup(func() { _ = reg.Dispose() })
	return fake, NewFactory(reg, fakeSettings())
}

func TestNewSessionChecksOutOneConnection(t *testing.T) {
	fake, f := newFixture(t)

	s, err := f.NewSession(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, "fake", s.Driver())
	assert.False(t, s.InTx(), "a fresh session carries no transaction")
	assert.Equal(t, 1, fake.LastPool().Acquired)

	require.NoError(t, s.Release())
	assert.Equal(t, 1, fake.LastPool().Released)
}

func TestReleaseExactlyOnce(t *testing.T) {
	fake, f := newFixture(t)

	s, err := f.NewSession(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Release())
	assert.True(t, s.isReleased())
	require.NoError(t, s.Release())
	require.NoError(t, s.Release())

	assert.Equal(t, 1, fake.LastPool().Released, "underlying release ran once")
}

func TestExecuteAfterReleaseFails(t *testing.T) {
	_, f := newFixture(t)

	s, err := f.NewSession(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Release())

	_, err = s.Execute(context.Background(), "SELECT 1")
	var txErr *backend.TransactionError
	require.ErrorAs(t, err, &txErr)
}

func TestDoubleBeginFails(t *testing.T) {
	_, f := newFixture(t)

	s, err := f.NewSession(context.Background())
	require.NoError(t, err)
	defer func() { _ = s.Release() }()

	require.NoError(t, s.Begin(context.Background()))
	assert.True(t, s.InTx())

	err = s.Begin(context.Background())
	var txErr *backend.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.True(t, s.InTx(), "the first transaction stays open")
}

func TestExecuteRoutesThroughOpenTransaction(t *testing.T) {
	fake, f := newFixture(t)

	s, err := f.NewSession(context.Background())
	require.NoError(t, err)
	defer func() { _ = s.Release() }()

	require.NoError(t, s.Begin(context.Background()))
	_, err = s.Execute(context.Background(), "INSERT INTO t VALUES (1)")
	require.NoError(t, err)
	require.NoError(t, s.Commit())

	assert.Equal(t, 1, fake.LastPool().Commits)
	assert.False(t, s.InTx())
}

func TestReleaseRollsBackOpenTransaction(t *testing.T) {
	fake, f := newFixture(t)

	s, err := f.NewSession(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Begin(context.Background()))

	require.NoError(t, s.Release())
	assert.Equal(t, 1, fake.LastPool().Rollbacks)
	assert.Equal(t, 0, fake.LastPool().Commits)
}

func TestCommitWithoutTransactionFails(t *testing.T) {
	_, f := newFixture(t)

	s, err := f.NewSession(context.Background())
	require.NoError(t, err)
	defer func() { _ = s.Release() }()

	var txErr *backend.TransactionError
	require.ErrorAs(t, s.Commit(), &txErr)
	require.ErrorAs(t, s.Rollback(), &txErr)
}

func TestPoolExhaustionBlocksThenFails(t *testing.T) {
	_, f := newFixture(t)
	ctx := context.Background()

	// Saturate the pool (PoolMaxSize = 2), then one caller too many.
	first, err := f.NewSession(ctx)
	require.NoError(t, err)
	defer func() { _ = first.Release() }()
	second, err := f.NewSession(ctx)
	require.NoError(t, err)
	defer func() { _ = second.Release() }()

	start := time.Now()
	_, err = f.NewSession(ctx)
	waited := time.Since(start)

	var exhausted *backend.PoolExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.GreaterOrEqual(t, waited, 50*time.Millisecond, "the extra caller blocked until the timeout")
}

func TestPoolSlotFreedByRelease(t *testing.T) {
	_, f := newFixture(t)
	ctx := context.Background()

	first, err := f.NewSession(ctx)
	require.NoError(t, err)
	second, err := f.NewSession(ctx)
	require.NoError(t, err)
	defer func() { _ = second.Release() }()

	require.NoError(t, first.Release())

	third, err := f.NewSession(ctx)
	require.NoError(t, err, "a released slot is immediately reusable")
	require.NoError(t, third.Release())
}

func TestNewSessionConnectivityFailure(t *testing.T) {
	fake, f := newFixture(t)
	fake.AcquireErr = backend.NewConnectivityError("fake", "connection refused", nil)

	_, err := f.NewSession(context.Background())
	var connErr *backend.ConnectivityError
	require.ErrorAs(t, err, &connErr)
}

func TestWithReleasesOnEveryPath(t *testing.T) {
	fake, f := newFixture(t)

	err := f.With(context.Background(), func(s *Session) error {
		_, err := s.Query(context.Background(), "SELECT 1")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fake.LastPool().Released)

	require.Panics(t, func() {
		_ = f.With(context.Background(), func(s *Session) error {
			panic("boom")
		})
	})
	assert.Equal(t, 2, fake.LastPool().Released, "release also runs when fn panics")
}
