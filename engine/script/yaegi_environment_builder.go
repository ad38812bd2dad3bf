package script

import (
	"log/slog"
	"reflect"
)

// YaegiEnvironmentBuilderOption is a functional option for configuring a YaegiEnvironment.
type YaegiEnvironmentBuilderOption func(*YaegiEnvironment)

// WithLogger sets the logger for compile diagnostics and host.Log output.
//
// Parameters:
//   - logger: the logger (nil falls back to the package logger)
//
// Returns:
//   - YaegiEnvironmentBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) YaegiEnvironmentBuilderOption {
	return func(e *YaegiEnvironment) {
		e.logger = logger
	}
}

// WithSymbols makes an extra package importable by scripts.
//
// Parameters:
//   - importPath: the import path scripts use, e.g. "game/world"
//   - name: the package name, usually the last path element
//   - symbols: exported identifiers mapped to their values
//
// Returns:
//   - YaegiEnvironmentBuilderOption: option function to apply
func WithSymbols(importPath, name string, symbols map[string]any) YaegiEnvironmentBuilderOption {
	return func(e *YaegiEnvironment) {
		m := make(map[string]reflect.Value, len(symbols))
		for k, v := range symbols {
			m[k] = reflect.ValueOf(v)
		}
		e.exports[importPath+"/"+name] = m
	}
}
