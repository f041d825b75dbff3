// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"sqlgate/backend"
)

// FromEnv loads connection settings from environment variables sharing a
// prefix. With prefix "APP_DB" the variables are:
//
//	APP_DB_DRIVER            required ("postgres", "mysql", "sqlite")
//	APP_DB_DSN               required
//	APP_DB_POOL_MIN_SIZE     optional int
//	APP_DB_POOL_MAX_SIZE     optional int
//	APP_DB_CONNECT_TIMEOUT   optional duration ("5s")
//	APP_DB_ACQUIRE_TIMEOUT   optional duration
//	APP_DB_STATEMENT_TIMEOUT optional duration
//
// Unset tunables keep the backend defaults. The result is validated.
func FromEnv(prefix string) (backend.Settings, error) {
	p := prefix + "_"

	settings := backend.Settings{
		Driver: os.Getenv(p + "DRIVER"),
		DSN:    os.Getenv(p + "DSN"),
	}
	if settings.Driver == "" {
		return backend.Settings{}, backend.NewConfigurationError("driver",
			"missing required environment variable "+p+"DRIVER", nil)
	}
	if settings.DSN == "" {
		return backend.Settings{}, backend.NewConfigurationError("dsn",
			"missing required environment variable "+p+"DSN", nil)
	}

	var err error
	if settings.PoolMinSize, err = envInt(p + "POOL_MIN_SIZE"); err != nil {
		return backend.Settings{}, err
	}
	if settings.PoolMaxSize, err = envInt(p + "POOL_MAX_SIZE"); err != nil {
		return backend.Settings{}, err
	}
	if settings.ConnectTimeout, err = envDuration(p + "CONNECT_TIMEOUT"); err != nil {
		return backend.Settings{}, err
	}
	if settings.AcquireTimeout, err = envDuration(p + "ACQUIRE_TIMEOUT"); err != nil {
		return backend.Settings{}, err
	}
	if settings.StatementTimeout, err = envDuration(p + "STATEMENT_TIMEOUT"); err != nil {
		return backend.Settings{}, err
	}

	settings = settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return backend.Settings{}, err
	}
	return settings, nil
}

func envInt(key string) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, backend.NewConfigurationError(key, fmt.Sprintf("invalid integer %q", raw), err)
	}
	return v, nil
}

func envDuration(key string) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, backend.NewConfigurationError(key, fmt.Sprintf("invalid duration %q", raw), err)
	}
	return d, nil
}
