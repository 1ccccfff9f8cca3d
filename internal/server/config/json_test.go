package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"http_addr":                      "www.example:9000",
		"database_driver":                "sqlite",
		"database_dsn":                   "file:cargo.db",
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "1m",
		"max_upload_size":                2048,
		"s3_root_user":                   "user",
		"s3_root_password":               "password",
		"s3_bucket":                      "bucket",
		"s3_region":                      "region",
		"s3_base_endpoint":               "base_endpoint",
		"vault_passphrase":               "sealed",
		"redis_address":                  "redis:6379",
		"import_lock_ttl":                int64(30 * time.Second),
		"log_backend":                    "zap",
		"log_debug":                      true,
		"cors_allowed_origins":           []string{"https://ops.example"},
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		parseJson(cfg, path)

		assert.Equal(t, "www.example:9000", cfg.HTTPAddr)
		assert.Equal(t, "sqlite", cfg.DatabaseDriver)
		assert.Equal(t, "file:cargo.db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, int64(2048), cfg.MaxUploadSize)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, "sealed", cfg.VaultPassphrase)
		assert.Equal(t, "redis:6379", cfg.RedisAddress)
		assert.Equal(t, 30*time.Second, cfg.ImportLockTTL)
		assert.Equal(t, "zap", cfg.LogBackend)
		assert.True(t, cfg.LogDebug)
		assert.Equal(t, []string{"https://ops.example"}, cfg.CORSAllowedOrigins)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"http_addr": ":1234"})

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, partial)

		assert.Equal(t, ":1234", cfg.HTTPAddr)
		assert.Equal(t, "pgx", cfg.DatabaseDriver)
		assert.Equal(t, 10*time.Minute, cfg.ImportLockTTL)
	})

	t.Run("no path -> no changes", func(t *testing.T) {
		cfg := &Config{HTTPAddr: "defaults:1234", SecretKey: "key"}
		parseJson(cfg, "")

		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
		assert.Equal(t, "key", cfg.SecretKey)
	})

	t.Run("invalid JSON -> panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg, bad) })
	})

	t.Run("missing file -> panics", func(t *testing.T) {
		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg, filepath.Join(dir, "nope.json")) })
	})
}
