package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("CARGODESK_HTTP_ADDR", ":9999")
	t.Setenv("CARGODESK_ACCESS_TOKEN_VALIDITY_DURATION", "2h")
	t.Setenv("CARGODESK_IMPORT_LOCK_TTL", "45s")
	t.Setenv("CARGODESK_MAX_UPLOAD_SIZE", "1024")
	t.Setenv("CARGODESK_LOG_DEBUG", "true")
	t.Setenv("CARGODESK_VAULT_PASSPHRASE", "pass")
	t.Setenv("CARGODESK_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,,")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, ":9999", c.HTTPAddr)
	assert.Equal(t, 2*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 45*time.Second, c.ImportLockTTL)
	assert.Equal(t, int64(1024), c.MaxUploadSize)
	assert.True(t, c.LogDebug)
	assert.Equal(t, "pass", c.VaultPassphrase)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSAllowedOrigins)
}

func TestParseEnv_InvalidValuesPanic(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := map[string]string{
		"CARGODESK_IMPORT_LOCK_TTL": "ten minutes",
		"CARGODESK_MAX_UPLOAD_SIZE": "big",
		"CARGODESK_LOG_DEBUG":       "maybe",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			c := &Config{}
			require.Panics(t, func() { parseEnv(c) })
		})
	}
}
