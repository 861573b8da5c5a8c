package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Environment:     "development",
		JWTSecret:       "your-secret-key-change-in-production",
		BackendBaseURL:  "http://localhost:8000",
		RefreshStrategy: "authoritative",
	}
}

func TestValidate_DevelopmentWithDefaultSecret_OK(t *testing.T) {
	assert.NoError(t, validConfig().validate())
}

func TestValidate_ProductionWithDefaultSecret_Error(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET must be changed")
	assert.Contains(t, err.Error(), "production")
}

func TestValidate_ProductionWithCustomSecret_OK(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	cfg.JWTSecret = "rotated-production-secret"

	assert.NoError(t, cfg.validate())
}

func TestValidate_UnknownRefreshStrategy_Error(t *testing.T) {
	cfg := validConfig()
	cfg.RefreshStrategy = "eager"

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CART_REFRESH_STRATEGY")
}

func TestValidate_EmptyStrategyAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.RefreshStrategy = ""

	assert.NoError(t, cfg.validate())
}

func TestValidate_MissingBackendURL_Error(t *testing.T) {
	cfg := validConfig()
	cfg.BackendBaseURL = ""

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_BASE_URL")
}
