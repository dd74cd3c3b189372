package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PRESENCE_BACKEND", "rtdb")
	t.Setenv("NOTIFICATIONS_MAX", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "rtdb", cfg.PresenceBackend)
	assert.Equal(t, 50, cfg.NotificationsMax)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PRESENCE_BACKEND", "redis")
	t.Setenv("NOTIFICATION_BACKEND", "redis")
	t.Setenv("NOTIFICATIONS_MAX", "20")
	t.Setenv("PROMPT_TIMEOUT", "5s")
	t.Setenv("CHAT_RATE_PER_MINUTE", "3")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "redis", cfg.PresenceBackend)
	assert.Equal(t, "redis", cfg.NotificationBackend)
	assert.Equal(t, 20, cfg.NotificationsMax)
	assert.Equal(t, 5*time.Second, cfg.PromptTimeout)
	assert.Equal(t, 3, cfg.ChatRatePerMinute)
	assert.False(t, cfg.IsDevelopment())
}

func TestDurationAcceptsSeconds(t *testing.T) {
	t.Setenv("PROMPT_TIMEOUT", "12")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, cfg.PromptTimeout)
}
