package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseAndRedis(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://league@localhost/league")
	t.Setenv("REDIS_ADDR", "")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ADDR")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://league@localhost/league")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("OTP_TTL_SECONDS", "")
	t.Setenv("LOGIN_REQUIRE_OTP", "")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("LOG_LEVEL", "loud")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 120*time.Second, cfg.OTPTTL)
	assert.True(t, cfg.LoginRequireOTP)
	assert.Equal(t, 6, cfg.OTPLength)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.R2Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://league@localhost/league")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("OTP_LENGTH", "8")
	t.Setenv("LOGIN_REQUIRE_OTP", "false")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("DEFAULT_PHONE_REGION", "us")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.OTPLength)
	assert.False(t, cfg.LoginRequireOTP)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "US", cfg.DefaultPhoneRegion)
}
