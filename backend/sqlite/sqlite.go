// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

// Package sqlite provides the SQLite backend via modernc.org/sqlite, which
// is CGO-free. Useful for tests and single-node deployments.
package sqlite

import (
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"sqlgate/backend"
)

// DriverName matches Settings.Driver for this backend.
const DriverName = "sqlite"

// Backend is the SQLite implementation of backend.Backend.
type Backend struct{}

// New creates the SQLite backend.
func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return DriverName }

// Validate accepts file paths and file: URIs; other URI schemes are a
// misconfiguration.
func (b *Backend) Validate(settings backend.Settings) error {
	dsn := settings.DSN
	if idx := strings.Index(dsn, "://"); idx >= 0 && !strings.HasPrefix(dsn, "file:") {
		return backend.NewConfigurationError("dsn",
			"sqlite dsn must be a file path or file: uri, got scheme "+dsn[:idx], nil)
	}
	return nil
}

func (b *Backend) Open(settings backend.Settings) (backend.Pool, error) {
	// WAL keeps concurrent readers from blocking on the writer; the busy
	// timeout covers writer contention across pooled connections.
	settings.DSN = withPragmas(settings.DSN,
		"_pragma=journal_mode(WAL)",
		"_pragma=busy_timeout(5000)",
		"_pragma=foreign_keys(1)",
	)
	return backend.OpenDB(DriverName, settings)
}

func withPragmas(dsn string, pragmas ...string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(pragmas, "&")
}
