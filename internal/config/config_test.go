package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, SessionBackendMemory, cfg.SessionBackend)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "MIA", cfg.DefaultEmbarkPort)
	assert.Equal(t, "3055595135", cfg.FallbackPhone)
	assert.Equal(t, 2, cfg.GuestPartySize)
	assert.False(t, cfg.EventsEnabled)
	assert.Nil(t, cfg.CORSOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("OUTBOUND_RPS", "2.5")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("GUEST_PARTY_SIZE", "4")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, SessionBackendRedis, cfg.SessionBackend)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 2.5, cfg.OutboundRPS)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, 4, cfg.GuestPartySize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestValidate(t *testing.T) {
	t.Setenv("ESTIMATE_API_KEY", "key")
	cfg := Load()
	require.NoError(t, cfg.Validate())

	cfg.SessionBackend = "etcd"
	cfg.GuestPartySize = 0
	cfg.EstimateAPIKey = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_BACKEND")
	assert.Contains(t, err.Error(), "GUEST_PARTY_SIZE")
	assert.Contains(t, err.Error(), "ESTIMATE_API_KEY")
}
