// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlgate/backend"
)

func TestValidate(t *testing.T) {
	b := New()

	require.NoError(t, b.Validate(backend.Settings{Driver: DriverName, DSN: "/var/lib/app/app.db"}))
	require.NoError(t, b.Validate(backend.Settings{Driver: DriverName, DSN: "file:app.db?mode=ro"}))
	require.NoError(t, b.Validate(backend.Settings{Driver: DriverName, DSN: ":memory:"}))

	err := b.Validate(backend.Settings{Driver: DriverName, DSN: "postgres://db/app"})
	var cfgErr *backend.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "dsn", cfgErr.Field)
}

func TestWithPragmas(t *testing.T) {
	assert.Equal(t, "app.db?_pragma=foreign_keys(1)", withPragmas("app.db", "_pragma=foreign_keys(1)"))
	assert.Equal(t, "file:app.db?mode=ro&_pragma=foreign_keys(1)",
		withPragmas("file:app.db?mode=ro", "_pragma=foreign_keys(1)"))
}
