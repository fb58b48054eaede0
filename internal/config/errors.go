package config

import "errors"

// Validation errors returned when the merged configuration is incomplete or
// inconsistent.
var (
	// ErrUnsupportedDBDriver indicates that the configured database driver
	// is neither "pgx" nor "sqlite3".
	ErrUnsupportedDBDriver = errors.New("unsupported database driver")

	// ErrMissingDSN indicates that the configured driver requires a DSN and
	// none was provided by any configuration source.
	ErrMissingDSN = errors.New("database DSN is required")

	// ErrInvalidTTL indicates a non-positive session or challenge lifetime.
	ErrInvalidTTL = errors.New("session and challenge lifetimes must be positive")

	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing server address or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
)
