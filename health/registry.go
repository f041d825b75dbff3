// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

package health

import (
	"context"
	"strconv"
	"time"

	"sqlgate/engine"
)

// CheckRegistry pings every live engine in the registry and reports a status
// per engine ID. Engines that fail the ping come back unhealthy; like Check,
// this never returns an error.
func CheckRegistry(ctx context.Context, reg *engine.Registry) map[string]*Status {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	results := make(map[string]*Status)
	for _, eng := range reg.Engines() {
		start := time.Now()
		err := eng.Ping(ctx)
		latency := time.Since(start)

		if err != nil {
			results[eng.ID()] = &Status{
				Healthy:   false,
				Latency:   latency,
				Timestamp: time.Now(),
				Error:     err.Error(),
			}
			continue
		}

		stats := eng.Pool().Stats()
		results[eng.ID()] = &Status{
			Healthy:   true,
			Latency:   latency,
			Timestamp: time.Now(),
			Details: map[string]string{
				"driver":           eng.Settings().Driver,
				"open_connections": strconv.Itoa(stats.Open),
				"in_use":           strconv.Itoa(stats.InUse),
				"idle":             strconv.Itoa(stats.Idle),
			},
		}
	}
	return results
}
