// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

/*
Package engine manages the lifecycle of pooled database engines.

# Overview

A Registry holds at most one live Engine per settings identity. Engines are
built lazily on the first GetEngine call and torn down by Dispose:

	reg := engine.NewRegistry(postgres.New())

	eng, err := reg.GetEngine(backend.Settings{
	    Driver: "postgres",
	    DSN:    "postgres://app@db/app",
	})

	// ... hand the registry to session factories ...

	_ = reg.Dispose() // at shutdown

GetEngine with equal settings always returns the same instance; after Dispose
the next call constructs a fresh engine with a fresh pool. Dispose with no
live engines is a no-op, and the registry mutex serializes disposal against
concurrent lookups.
*/
package engine
