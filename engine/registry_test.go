// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlgate/backend"
	"sqlgate/backend/backendtest"
)

func fakeSettings() backend.Settings {
	return backend.Settings{Driver: "fake", DSN: "fake://primary"}
}

func TestGetEngineIsSingletonPerSettings(t *testing.T) {
	reg := NewRegistry(backendtest.New("fake"))

	first, err := reg.GetEngine(fakeSettings())
	require.NoError(t, err)
	second, err := reg.GetEngine(fakeSettings())
	require.NoError(t, err)

	assert.Same(t, first, second, "equal settings return the same engine")
	assert.Equal(t, 1, reg.Count())
}

func TestGetEngineDistinguishesSettings(t *testing.T) {
	reg := NewRegistry(backendtest.New("fake"))

	a, err := reg.GetEngine(fakeSettings())
	require.NoError(t, err)

	other := fakeSettings()
	other.DSN = "fake://replica"
	b, err := reg.GetEngine(other)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, reg.Count())
}

func TestDisposeRebuildsFromScratch(t *testing.T) {
	fake := backendtest.New("fake")
	reg := NewRegistry(fake)

	first, err := reg.GetEngine(fakeSettings())
	require.NoError(t, err)

	require.NoError(t, reg.Dispose())
	assert.Equal(t, 0, reg.Count())
	assert.True(t, fake.Pools[0].IsClosed(), "dispose closes the old pool")

	second, err := reg.GetEngine(fakeSettings())
	require.NoError(t, err)
	assert.NotSame(t, first, second, "post-dispose lookup constructs a fresh engine")
	assert.NotEqual(t, first.ID(), second.ID())
	assert.False(t, fake.Pools[1].IsClosed(), "the fresh engine gets a fresh pool")
}

func TestDisposeWithoutEnginesIsNoop(t *testing.T) {
	reg := NewRegistry(backendtest.New("fake"))
	assert.NoError(t, reg.Dispose())
	assert.NoError(t, reg.Dispose())
}

func TestGetEngineUnknownDriver(t *testing.T) {
	reg := NewRegistry(backendtest.New("fake"))

	s := fakeSettings()
	s.Driver = "oracle"
	_, err := reg.GetEngine(s)

	var cfgErr *backend.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "driver", cfgErr.Field)
}

func TestGetEngineInvalidSettings(t *testing.T) {
	reg := NewRegistry(backendtest.New("fake"))

	s := fakeSettings()
	s.DSN = ""
	_, err := reg.GetEngine(s)

	var cfgErr *backend.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestGetEngineBackendValidateError(t *testing.T) {
	fake := backendtest.New("fake")
	fake.ValidateErr = backend.NewConfigurationError("dsn", "unparsable dsn", nil)
	reg := NewRegistry(fake)

	_, err := reg.GetEngine(fakeSettings())
	var cfgErr *backend.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 0, reg.Count(), "failed construction stores nothing")
}

func TestGetEngineConstructionIsLazy(t *testing.T) {
	fake := backendtest.New("fake")
	reg := NewRegistry(fake)

	eng, err := reg.GetEngine(fakeSettings())
	require.NoError(t, err)

	// Construction performed no round-trip; the pool has seen no checkout.
	assert.Equal(t, 0, fake.Pools[0].Acquired)
	assert.NoError(t, eng.Ping(context.Background()))
}

func TestGetEngineConcurrent(t *testing.T) {
	reg := NewRegistry(backendtest.New("fake"))

	const callers = 16
	engines := make([]*Engine, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := reg.GetEngine(fakeSettings())
			assert.NoError(t, err)
			engines[i] = e
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		assert.Same(t, engines[0], engines[i])
	}
	assert.Equal(t, 1, reg.Count())
}
