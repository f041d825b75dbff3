// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package sqlgate

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlgate/backend"
	"sqlgate/uow"
)

// sqliteSettings points at a throwaway on-disk database, exercising the full
// stack against a real driver.
func sqliteSettings(t *testing.T) backend.Settings {
	t.Helper()
	t.Cleanup(func() { _ = DisposeEngine() })
	return backend.Settings{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "app.db"),
	}
}

func TestGetEngineIsSingletonPerSettings(t *testing.T) {
	settings := sqliteSettings(t)

	first, err := GetEngine(settings)
	require.NoError(t, err)
	second, err := GetEngine(settings)
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, first.Ping(context.Background()))
}

func TestDisposeEngineRebuilds(t *testing.T) {
	settings := sqliteSettings(t)

	first, err := GetEngine(settings)
	require.NoError(t, err)

	require.NoError(t, DisposeEngine())
	require.NoError(t, DisposeEngine(), "disposing twice is a no-op")

	second, err := GetEngine(settings)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID(), "a fresh engine replaces the disposed one")
	require.NoError(t, second.Ping(context.Background()))
}

func TestWithUnitOfWorkCommitPersists(t *testing.T) {
	settings := sqliteSettings(t)
	ctx := context.Background()

	err := WithUnitOfWork(ctx, settings, func(ctx context.Context, u *uow.UnitOfWork) error {
		if _, err := u.Exec(ctx, "CREATE TABLE accounts (id INTEGER PRIMARY KEY, balance INTEGER NOT NULL)"); err != nil {
			return err
		}
		_, err := u.Exec(ctx, "INSERT INTO accounts (id, balance) VALUES (?, ?)", 1, 100)
		return err
	})
	require.NoError(t, err)

	var rows []map[string]any
	err = WithUnitOfWork(ctx, settings, func(ctx context.Context, u *uow.UnitOfWork) error {
		var qErr error
		rows, qErr = u.Query(ctx, "SELECT id, balance FROM accounts")
		return qErr
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 1, rows[0]["id"])
	assert.EqualValues(t, 100, rows[0]["balance"])
}

func TestWithUnitOfWorkErrorRollsBackAllWrites(t *testing.T) {
	settings := sqliteSettings(t)
	ctx := context.Background()

	err := WithUnitOfWork(ctx, settings, func(ctx context.Context, u *uow.UnitOfWork) error {
		_, err := u.Exec(ctx, "CREATE TABLE accounts (id INTEGER PRIMARY KEY, balance INTEGER NOT NULL)")
		return err
	})
	require.NoError(t, err)

	cause := errors.New("insufficient funds")
	err = WithUnitOfWork(ctx, settings, func(ctx context.Context, u *uow.UnitOfWork) error {
		if _, err := u.Exec(ctx, "INSERT INTO accounts (id, balance) VALUES (?, ?)", 1, 100); err != nil {
			return err
		}
		if _, err := u.Exec(ctx, "INSERT INTO accounts (id, balance) VALUES (?, ?)", 2, 200); err != nil {
			return err
		}
		return cause
	})
	require.ErrorIs(t, err, cause)

	// Neither write survived: the transaction is all-or-nothing.
	err = WithUnitOfWork(ctx, settings, func(ctx context.Context, u *uow.UnitOfWork) error {
		rows, err := u.Query(ctx, "SELECT COUNT(*) AS n FROM accounts")
		if err != nil {
			return err
		}
		assert.EqualValues(t, 0, rows[0]["n"])
		return nil
	})
	require.NoError(t, err)
}

func TestSessionFactoryExplicitLifecycle(t *testing.T) {
	settings := sqliteSettings(t)
	ctx := context.Background()

	f := GetSessionFactory(settings)
	s, err := f.NewSession(ctx)
	require.NoError(t, err)
	defer func() { _ = s.Release() }()

	_, err = s.Execute(ctx, "CREATE TABLE notes (body TEXT)")
	require.NoError(t, err)

	require.NoError(t, s.Begin(ctx))
	n, err := s.Execute(ctx, "INSERT INTO notes (body) VALUES (?)", "hello")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	require.NoError(t, s.Commit())

	rows, err := s.Query(ctx, "SELECT body FROM notes")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "hello", rows[0]["body"])
}

func TestCheckDatabaseHealth(t *testing.T) {
	settings := sqliteSettings(t)

	status := CheckDatabaseHealth(context.Background(), settings)
	require.NotNil(t, status)
	assert.True(t, status.Healthy, "error: %s", status.Error)
	assert.Empty(t, status.Error)
	assert.Contains(t, status.Details, "open_connections")
}

func TestCheckDatabaseHealthBadSettings(t *testing.T) {
	t.Cleanup(func() { _ = DisposeEngine() })

	status := CheckDatabaseHealth(context.Background(), backend.Settings{
		Driver: "oracle",
		DSN:    "oracle://db/app",
	})
	require.NotNil(t, status)
	assert.False(t, status.Healthy)
	assert.NotEmpty(t, status.Error)
}
