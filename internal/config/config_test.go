package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigPoolDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}

func TestValidateRequiresCoreSettings(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	cfg.Identity.URL = "https://identity.example"
	require.NoError(t, cfg.Validate())

	cfg.Database.URL = ""
	require.Error(t, cfg.Validate())
}
