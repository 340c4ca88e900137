// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package provider holds the error taxonomy shared by the external
// provider clients (model, discovery, images).
package provider

import "errors"

// ConfigError reports a missing or unusable credential or setting.
// It is returned at client construction or when an operation cannot
// resolve required configuration, and is never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// ProviderError wraps a transport or API failure from an external
// provider so callers can tell it apart from configuration problems.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsConfig reports whether err is (or wraps) a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
