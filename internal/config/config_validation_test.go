package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AppliesDefaults(t *testing.T) {
	cfg := &StructuredConfig{}
	require.NoError(t, cfg.validate())

	assert.Equal(t, DefaultHTTPAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
	assert.Equal(t, DefaultRequestTimeout, cfg.Client.RequestTimeout)
	assert.Equal(t, DefaultTokenDuration, cfg.Auth.TokenDuration)
	assert.Equal(t, DefaultSyncInterval, cfg.Sync.Interval)
	assert.Equal(t, DefaultAutolockTimeout, cfg.Sync.AutolockTimeout)
}

func TestValidate_KeepsExplicitValues(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.Server.HTTPAddress = "0.0.0.0:9000"
	require.NoError(t, cfg.validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.HTTPAddress)
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{
			name:   "complete config passes",
			mutate: func(cfg *StructuredConfig) {},
		},
		{
			name:    "missing token sign key",
			mutate:  func(cfg *StructuredConfig) { cfg.Auth.TokenSignKey = "" },
			wantErr: ErrInvalidAuthConfigs,
		},
		{
			name:    "missing credential hash key",
			mutate:  func(cfg *StructuredConfig) { cfg.Auth.CredentialHashKey = "" },
			wantErr: ErrInvalidAuthConfigs,
		},
		{
			name:    "missing DSN",
			mutate:  func(cfg *StructuredConfig) { cfg.Storage.DB.DSN = "" },
			wantErr: ErrInvalidStorageConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &StructuredConfig{}
			cfg.Auth.TokenSignKey = "sign"
			cfg.Auth.CredentialHashKey = "hash"
			cfg.Storage.DB.DSN = "postgres://localhost/zpass"
			tt.mutate(cfg)

			err := cfg.validateServer()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClientConfigValidate(t *testing.T) {
	valid := func() *ClientConfig {
		return &ClientConfig{
			Adapter: ClientAdapter{ServerURL: "http://localhost:8080"},
			Storage: ClientStorage{CachePath: "/home/u/.zpass/cache.db"},
		}
	}

	t.Run("complete config passes", func(t *testing.T) {
		assert.NoError(t, valid().validate())
	})

	t.Run("missing server URL", func(t *testing.T) {
		cfg := valid()
		cfg.Adapter.ServerURL = ""
		assert.ErrorIs(t, cfg.validate(), ErrInvalidClientConfigs)
	})

	t.Run("in-memory cache path rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.CachePath = ":memory:"
		assert.ErrorIs(t, cfg.validate(), ErrInvalidStorageConfigs)
	})

	t.Run("empty cache path rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.CachePath = ""
		assert.ErrorIs(t, cfg.validate(), ErrInvalidStorageConfigs)
	})
}
