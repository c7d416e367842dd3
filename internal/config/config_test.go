package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "atelier.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ATELIER_DB", "/tmp/agency.db")
	t.Setenv("ATELIER_ADDR", "127.0.0.1:9000")
	t.Setenv("ATELIER_TOKEN_TTL", "15m")
	t.Setenv("ATELIER_LOG_FORMAT", "JSON")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/agency.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_RejectsUnknownLogFormat(t *testing.T) {
	t.Setenv("ATELIER_LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
}

func TestRequireSecret(t *testing.T) {
	require.Error(t, Config{}.RequireSecret())
	require.NoError(t, Config{JWTSecret: "s3cret"}.RequireSecret())
}
