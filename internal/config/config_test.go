package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "pedlop", cfg.MongoDatabase)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "pedlop_oauth_", cfg.CookiePrefix)
	assert.False(t, cfg.Production())
}

func TestLoadProductionEnvironment(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")
	t.Setenv("ENV", "production")
	t.Setenv("DOMAIN", "api.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, "api.example.com", cfg.CookieDomain)
}

func TestValidate(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "")
		t.Setenv("MONGODB_URL", "mongodb://localhost:27017")

		_, err := Load()
		assert.ErrorContains(t, err, "SECRET_KEY")
	})

	t.Run("missing mongo url", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "test-secret")
		t.Setenv("MONGODB_URL", "")

		_, err := Load()
		assert.ErrorContains(t, err, "MONGODB_URL")
	})
}
