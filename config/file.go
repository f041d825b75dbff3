// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sqlgate/backend"
)

// fileSettings is the YAML shape of one database block. Durations are
// strings in time.ParseDuration format.
type fileSettings struct {
	Driver           string `yaml:"driver"`
	DSN              string `yaml:"dsn"`
	PoolMinSize      int    `yaml:"pool_min_size,omitempty"`
	PoolMaxSize      int    `yaml:"pool_max_size,omitempty"`
	ConnectTimeout   string `yaml:"connect_timeout,omitempty"`
	AcquireTimeout   string `yaml:"acquire_timeout,omitempty"`
	StatementTimeout string `yaml:"statement_timeout,omitempty"`
}

type configFile struct {
	Database fileSettings `yaml:"database"`
}

// LoadFile reads connection settings from a YAML file of the form:
//
//	database:
//	  driver: postgres
//	  dsn: postgres://app@db/app
//	  pool_max_size: 20
//	  connect_timeout: 5s
//
// Unset tunables keep the backend defaults. The result is validated.
func LoadFile(path string) (backend.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return backend.Settings{}, backend.NewConfigurationError("file",
			"cannot read settings file "+path, err)
	}

	var cf configFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return backend.Settings{}, backend.NewConfigurationError("file",
			"cannot parse settings file "+path, err)
	}

	settings := backend.Settings{
		Driver:      cf.Database.Driver,
		DSN:         cf.Database.DSN,
		PoolMinSize: cf.Database.PoolMinSize,
		PoolMaxSize: cf.Database.PoolMaxSize,
	}
	if settings.ConnectTimeout, err = parseFileDuration("connect_timeout", cf.Database.ConnectTimeout); err != nil {
		return backend.Settings{}, err
	}
	if settings.AcquireTimeout, err = parseFileDuration("acquire_timeout", cf.Database.AcquireTimeout); err != nil {
		return backend.Settings{}, err
	}
	if settings.StatementTimeout, err = parseFileDuration("statement_timeout", cf.Database.StatementTimeout); err != nil {
		return backend.Settings{}, err
	}

	settings = settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return backend.Settings{}, err
	}
	return settings, nil
}

func parseFileDuration(field, raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, backend.NewConfigurationError(field, "invalid duration "+raw, err)
	}
	return d, nil
}
