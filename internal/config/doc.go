// Package config loads, normalizes, and validates winnow configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// reads TOML files, and resolves string settings such as the keep policy
// or PII kinds into their typed forms once, at load time, so the pipeline
// never parses configuration strings itself.
package config
