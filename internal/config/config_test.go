package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, "*/5 * * * *", cfg.Scheduler.Cron)
	assert.Equal(t, 2*time.Minute, cfg.Scheduler.Timeout)
	assert.Equal(t, 4, cfg.Scheduler.TenantConcurrency)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.True(t, cfg.Escalation.AdminFallback)
	assert.Equal(t, time.Minute, cfg.Escalation.PolicyCacheTTL)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestFromEnv_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")

	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	_, err = FromEnv()
	assert.Error(t, err)

	t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.example.com , https://admin.example.com")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestFromEnv_RejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"STORAGE_DRIVER":               "sqlite",
		"RECOMPUTE_TIMEOUT":            "soon",
		"RECOMPUTE_TENANT_CONCURRENCY": "0",
		"ESCALATION_ADMIN_FALLBACK":    "maybe",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("APP_ENV", "development")
			t.Setenv(key, value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
