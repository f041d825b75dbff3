// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

/*
Package session checks connections out of an engine's pool and scopes their
lifetime to one logical operation.

A Factory binds a registry and one configuration; NewSession performs the
checkout and Release returns the connection, exactly once, no matter how many
times it is called:

	f := session.NewFactory(reg, settings)

	s, err := f.NewSession(ctx)
	if err != nil {
	    return err
	}
	defer s.Release()

	_, err = s.Execute(ctx, "UPDATE jobs SET state = $1 WHERE id = $2", "done", id)

For reads that need no transaction, With handles the release path:

	err := f.With(ctx, func(s *session.Session) error {
	    rows, err := s.Query(ctx, "SELECT id FROM jobs WHERE state = $1", "pending")
	    ...
	})

Write transactions belong under a unit of work; see package uow.
*/
package session
