// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"sync"

	"sqlgate/backend"
	"sqlgate/logger"
)

// Registry holds at most one live engine per settings identity. It is the
// only process-wide mutable state in the layer; every read-modify-write runs
// under one mutex so disposal cannot race a concurrent GetEngine.
//
// Construct isolated registries in tests; share one per process in
// applications (the sqlgate facade package keeps a default).
type Registry struct {
	mu       sync.Mutex
	backends map[string]backend.Backend
	engines  map[backend.Settings]*Engine
	log      *logger.Logger
}

// NewRegistry creates a registry that can build engines with the given
// backends. Backends with duplicate names overwrite earlier ones.
func NewRegistry(backends ...backend.Backend) *Registry {
	r := &Registry{
		backends: make(map[string]backend.Backend, len(backends)),
		engines:  make(map[backend.Settings]*Engine),
		log:      logger.New("registry"),
	}
	for _, b := range backends {
		r.backends[b.Name()] = b
	}
	return r
}

// GetEngine returns the live engine for the given settings, constructing one
// on first demand. Construction is lazy: the backend is not dialed, so an
// unreachable database surfaces on first use rather than here. Repeated calls
// with equal settings return the same instance until Dispose.
func (r *Registry) GetEngine(settings backend.Settings) (*Engine, error) {
	settings = settings.WithDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[settings]; ok {
		return e, nil
	}

	b, ok := r.backends[settings.Driver]
	if !ok {
		return nil, backend.NewConfigurationError("driver", "unsupported driver "+settings.Driver, nil)
	}
	if err := b.Validate(settings); err != nil {
		return nil, err
	}

	e, err := newEngine(b, settings)
	if err != nil {
		return nil, err
	}
	r.engines[settings] = e
	return e, nil
}

// Engines returns a snapshot of all live engines.
func (r *Registry) Engines() []*Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Engine, 0, len(r.engines))
	for _, e := range r.engines {
		out = append(out, e)
	}
	return out
}

// Count returns the number of live engines.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

// Dispose closes every live engine's pool and clears the registry, so the
// next GetEngine rebuilds from scratch. Calling it with no engines is a
// no-op. Sessions still in flight when their engine is disposed fail on next
// use; that trade-off confines Dispose to shutdown and reconfiguration.
func (r *Registry) Dispose() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for settings, e := range r.engines {
		if err := e.dispose(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.engines, settings)
	}
	return firstErr
}
