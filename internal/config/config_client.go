package config

import (
	"fmt"
	"time"
)

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// ServerURL is the base URL of the zpass server.
	ServerURL string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
}

// ClientStorage groups client persistence settings.
type ClientStorage struct {
	// CachePath is the SQLite file holding the encrypted vault cache.
	CachePath string
}

// ClientSync contains background synchronization and autolock settings.
type ClientSync struct {
	// Interval defines how often the background sync job runs.
	Interval time.Duration
	// AutolockTimeout is the inactivity window before the vault locks.
	AutolockTimeout time.Duration
}

// ClientConfig is the client-specific view assembled from
// [StructuredConfig].
type ClientConfig struct {
	// Adapter contains transport addresses and timeouts.
	Adapter ClientAdapter
	// Storage contains the local cache settings.
	Storage ClientStorage
	// Sync contains background job settings.
	Sync ClientSync
	// LogPath is the client log file.
	LogPath string
}

// GetClientConfig builds and validates the client view of the merged
// configuration: only the fields the client runtime needs, with client
// invariants enforced.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		Adapter: ClientAdapter{
			ServerURL:      cfg.Client.ServerURL,
			RequestTimeout: cfg.Client.RequestTimeout,
		},
		Storage: ClientStorage{
			CachePath: cfg.Storage.Cache.Path,
		},
		Sync: ClientSync{
			Interval:        cfg.Sync.Interval,
			AutolockTimeout: cfg.Sync.AutolockTimeout,
		},
		LogPath: cfg.Client.LogPath,
	}

	return clientCfg, clientCfg.validate()
}

// GetServerConfig loads the merged configuration and enforces the server
// binary's invariants on it.
func GetServerConfig() (*StructuredConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return cfg, cfg.validateServer()
}
