package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "5000")
	t.Setenv("DATABASE_DSN", "postgres://db")
	t.Setenv("MONGODB_URI", "mongodb://mongo")
	t.Setenv("MONGODB_DATABASE", "shop")
	t.Setenv("REDIS_URL", "redis://cache:6379/0")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("LOG_BACKEND", "zap")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
	assert.Equal(t, "mongodb://mongo", cfg.MongoURI)
	assert.Equal(t, "shop", cfg.MongoDatabase)
	assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
	assert.Equal(t, "env-secret", cfg.SecretKey)
	assert.Equal(t, "zap", cfg.LogBackend)
}

func TestParseEnv_EmptyKeepsCurrent(t *testing.T) {
	clearEnv(t)

	cfg := &Config{HTTPAddr: ":1", SecretKey: "keep"}
	parseEnv(cfg)

	assert.Equal(t, ":1", cfg.HTTPAddr)
	assert.Equal(t, "keep", cfg.SecretKey)
}

func TestParseEnv_LoadsDotEnv(t *testing.T) {
	clearEnv(t)

	called := false
	loadDotEnv = func() { called = true }

	parseEnv(&Config{})
	assert.True(t, called)
}
