package config

import "strings"

// validate fills in defaults for operational knobs and checks the invariants
// that cannot be defaulted. Secrets are deliberately not defaulted: a server
// without a token sign key must refuse to start, not run with a guessable
// one. Secret presence is checked by the per-binary views, since the client
// never needs them.
func (cfg *StructuredConfig) validate() error {
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Client.RequestTimeout == 0 {
		cfg.Client.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Client.LogPath == "" {
		cfg.Client.LogPath = DefaultClientLogPath
	}
	if cfg.Auth.TokenDuration == 0 {
		cfg.Auth.TokenDuration = DefaultTokenDuration
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = DefaultSyncInterval
	}
	if cfg.Sync.AutolockTimeout == 0 {
		cfg.Sync.AutolockTimeout = DefaultAutolockTimeout
	}

	return nil
}

// validateServer checks the fields the server binary cannot run without.
func (cfg *StructuredConfig) validateServer() error {
	if cfg.Auth.TokenSignKey == "" || cfg.Auth.CredentialHashKey == "" {
		return ErrInvalidAuthConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.ServerURL == "" {
		return ErrInvalidClientConfigs
	}

	// The cache is the offline copy of the vault; an in-memory cache would
	// silently lose it on every exit.
	if cfg.Storage.CachePath == "" || strings.Contains(cfg.Storage.CachePath, "memory") {
		return ErrInvalidStorageConfigs
	}

	return nil
}
