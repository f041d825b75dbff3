// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

// Package mysql provides the MySQL backend via go-sql-driver/mysql.
package mysql

import (
	"github.com/go-sql-driver/mysql"

	"sqlgate/backend"
)

// DriverName matches Settings.Driver for this backend.
const DriverName = "mysql"

// Backend is the MySQL implementation of backend.Backend.
type Backend struct{}

// New creates the MySQL backend.
func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return DriverName }

// Validate parses the DSN with the driver's own parser, so malformed
// settings fail at construction instead of on first checkout.
func (b *Backend) Validate(settings backend.Settings) error {
	if _, err := mysql.ParseDSN(settings.DSN); err != nil {
		return backend.NewConfigurationError("dsn", "unparsable mysql dsn", err)
	}
	return nil
}

func (b *Backend) Open(settings backend.Settings) (backend.Pool, error) {
	return backend.OpenDB(DriverName, settings)
}
