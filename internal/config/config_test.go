package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("SYSTEM_FEE_ACCOUNT", "")
	t.Setenv("COURSE_FEE_RATE", "")

	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "test-secret", cfg.JWT.SecretKey)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "0000000001", cfg.Platform.FeeAccountNumber)
	assert.True(t, cfg.Platform.FeeRate.Equal(decimal.RequireFromString("0.05")))
	assert.Equal(t, uint32(64*1024), cfg.Argon2.Memory)
	assert.Equal(t, uint8(4), cfg.Argon2.Threads)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("SYSTEM_FEE_ACCOUNT", "9999999999")
	t.Setenv("COURSE_FEE_RATE", "0.1")
	t.Setenv("ADMIN_USERNAME", "root")
	t.Setenv("ADMIN_PASSWORD", "changeme")

	cfg, err := load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "9999999999", cfg.Platform.FeeAccountNumber)
	assert.True(t, cfg.Platform.FeeRate.Equal(decimal.RequireFromString("0.1")))
	assert.Equal(t, "root", cfg.Admin.Username)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("PORT", "")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET_KEY=from-file\nPORT=7070\n"), 0o600))

	cfg, err := load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWT.SecretKey)
	assert.Equal(t, "7070", cfg.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing jwt secret", env: map[string]string{}, want: "jwt.secret_key is required"},
		{name: "fee rate out of range", env: map[string]string{"JWT_SECRET_KEY": "s", "COURSE_FEE_RATE": "1.5"}, want: "fee_rate must be between 0 and 1"},
		{name: "fee rate not a number", env: map[string]string{"JWT_SECRET_KEY": "s", "COURSE_FEE_RATE": "five"}, want: "invalid platform.fee_rate"},
		{name: "admin without password", env: map[string]string{"JWT_SECRET_KEY": "s", "ADMIN_USERNAME": "root"}, want: "admin.password is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := load(viper.New(), "")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
