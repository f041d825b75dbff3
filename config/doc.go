// Copyright 2026 SQLGate
// SPDX-License-Identifier: Apache-2.0

// Package config loads connection settings from the environment or from a
// YAML file. Both loaders apply the backend defaults to unset tunables and
// validate the result, so a settings value obtained here is ready to hand to
// the engine registry.
package config
