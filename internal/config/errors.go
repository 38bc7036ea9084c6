package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAuthConfigs indicates missing server security material
	// (token sign key or credential hash key).
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings (for
	// example, empty server DSN or an in-memory client cache path).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidClientConfigs indicates invalid client transport settings
	// (for example, missing server URL).
	ErrInvalidClientConfigs = errors.New("invalid client configuration")
)
