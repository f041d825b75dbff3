// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsWithDefaults(t *testing.T) {
	s := Settings{Driver: "postgres", DSN: "host=db"}.WithDefaults()

	assert.Equal(t, DefaultPoolMinSize, s.PoolMinSize)
	assert.Equal(t, DefaultPoolMaxSize, s.PoolMaxSize)
	assert.Equal(t, DefaultConnectTimeout, s.ConnectTimeout)
	assert.Equal(t, DefaultAcquireTimeout, s.AcquireTimeout)
	assert.Equal(t, DefaultConnMaxLifetime, s.ConnMaxLifetime)
	assert.Zero(t, s.StatementTimeout, "statement timeout stays opt-in")
}

func TestSettingsWithDefaultsKeepsExplicitValues(t *testing.T) {
	in := Settings{
		Driver:         "postgres",
		DSN:            "host=db",
		PoolMinSize:    1,
		PoolMaxSize:    3,
		ConnectTimeout: time.Second,
		AcquireTimeout: 2 * time.Second,
	}
	out := in.WithDefaults()

	assert.Equal(t, 1, out.PoolMinSize)
	assert.Equal(t, 3, out.PoolMaxSize)
	assert.Equal(t, time.Second, out.ConnectTimeout)
	assert.Equal(t, 2*time.Second, out.AcquireTimeout)
}

func TestSettingsValidate(t *testing.T) {
	valid := Settings{Driver: "postgres", DSN: "host=db"}.WithDefaults()

	tests := []struct {
		name      string
		mutate    func(*Settings)
		wantField string
	}{
		{"valid", func(s *Settings) {}, ""},
		{"missing driver", func(s *Settings) { s.Driver = "" }, "driver"},
		{"missing dsn", func(s *Settings) { s.DSN = "" }, "dsn"},
		{"negative min", func(s *Settings) { s.PoolMinSize = -1 }, "pool_min_size"},
		{"zero max", func(s *Settings) { s.PoolMaxSize = 0 }, "pool_max_size"},
		{"min above max", func(s *Settings) { s.PoolMinSize = 20; s.PoolMaxSize = 5 }, "pool_min_size"},
		{"negative timeout", func(s *Settings) { s.AcquireTimeout = -time.Second }, "timeouts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestSettingsIdentity(t *testing.T) {
	a := Settings{Driver: "postgres", DSN: "host=db"}.WithDefaults()
	b := Settings{Driver: "postgres", DSN: "host=db"}.WithDefaults()
	c := Settings{Driver: "postgres", DSN: "host=other"}.WithDefaults()

	assert.Equal(t, a, b, "equal settings share one identity")
	assert.NotEqual(t, a, c)
}
