package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "devtracker", cfg.Name)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 30, cfg.Slots.DefaultDuration)
	assert.Equal(t, 30*time.Second, cfg.Slots.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.Reminder.Lead)
	assert.Equal(t, time.Minute, cfg.Reminder.CheckInterval)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "US", cfg.Phone.DefaultRegion)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.IsProduction())
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SIGNING_KEY", "a-real-secret")
	t.Setenv("APP_TIMEZONE", "Europe/Berlin")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REMINDER_LEAD", "2h")
	t.Setenv("REMINDER_ENABLED", "false")
	t.Setenv("SLOTS_DEFAULT_DURATION", "45")
	t.Setenv("PHONE_DEFAULT_REGION", "DE")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "a-real-secret", cfg.JWT.SigningKey)
	assert.Equal(t, "Europe/Berlin", cfg.Location.String())
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Reminder.Lead)
	assert.False(t, cfg.Reminder.Enabled)
	assert.Equal(t, 45, cfg.Slots.DefaultDuration)
	assert.Equal(t, "DE", cfg.Phone.DefaultRegion)
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{name: "timezone", key: "APP_TIMEZONE", val: "Mars/Olympus", want: "APP_TIMEZONE"},
		{name: "duration", key: "REMINDER_LEAD", val: "tomorrow", want: "REMINDER_LEAD"},
		{name: "slot duration", key: "SLOTS_DEFAULT_DURATION", val: "0", want: "SLOTS_DEFAULT_DURATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := NewConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewConfig_ProductionSigningKey(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	for _, key := range []string{"", defaultSigningKey} {
		t.Setenv("JWT_SIGNING_KEY", key)

		_, err := NewConfig()
		require.Error(t, err, "key %q", key)
		assert.Contains(t, err.Error(), "JWT_SIGNING_KEY")
	}

	t.Setenv("APP_ENV", "development")
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, defaultSigningKey, cfg.JWT.SigningKey)
}
