// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

// Package postgres provides the PostgreSQL backend via lib/pq.
package postgres

import (
	"strings"

	"github.com/lib/pq"

	"sqlgate/backend"
)

// DriverName matches Settings.Driver for this backend.
const DriverName = "postgres"

// Backend is the PostgreSQL implementation of backend.Backend.
type Backend struct{}

// New creates the PostgreSQL backend.
func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return DriverName }

// Validate checks the DSN shape without dialing. Both URL form
// (postgres://user@host/db) and keyword form (host=... dbname=...) are
// accepted, matching what lib/pq takes at connect time.
func (b *Backend) Validate(settings backend.Settings) error {
	dsn := settings.DSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if _, err := pq.ParseURL(dsn); err != nil {
			return backend.NewConfigurationError("dsn", "unparsable postgres url", err)
		}
		return nil
	}
	if !strings.Contains(dsn, "=") {
		return backend.NewConfigurationError("dsn",
			"postgres dsn must be a postgres:// url or keyword=value pairs", nil)
	}
	return nil
}

func (b *Backend) Open(settings backend.Settings) (backend.Pool, error) {
	return backend.OpenDB(DriverName, settings)
}
