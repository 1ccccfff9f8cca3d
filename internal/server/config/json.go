package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cargodesk/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so they may be written as "30s" or integer nanoseconds.
//
// The struct is pre-filled from the current Config before unmarshalling,
// so keys absent from the file keep their previous values.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	DatabaseDriver              string         `json:"database_driver"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	MaxUploadSize               int64          `json:"max_upload_size"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	VaultPassphrase             string         `json:"vault_passphrase"`
	RedisAddress                string         `json:"redis_address"`
	ImportLockTTL               timex.Duration `json:"import_lock_ttl"`
	LogBackend                  string         `json:"log_backend"`
	LogDebug                    bool           `json:"log_debug"`
	CORSAllowedOrigins          []string       `json:"cors_allowed_origins"`
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:                    c.HTTPAddr,
		DatabaseDriver:              c.DatabaseDriver,
		DatabaseDSN:                 c.DatabaseDSN,
		SecretKey:                   c.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: c.AccessTokenValidityDuration},
		MaxUploadSize:               c.MaxUploadSize,
		S3RootUser:                  c.S3RootUser,
		S3RootPassword:              c.S3RootPassword,
		S3Bucket:                    c.S3Bucket,
		S3Region:                    c.S3Region,
		S3BaseEndpoint:              c.S3BaseEndpoint,
		VaultPassphrase:             c.VaultPassphrase,
		RedisAddress:                c.RedisAddress,
		ImportLockTTL:               timex.Duration{Duration: c.ImportLockTTL},
		LogBackend:                  c.LogBackend,
		LogDebug:                    c.LogDebug,
		CORSAllowedOrigins:          c.CORSAllowedOrigins,
	}
}

// parseJson overlays values from the JSON file at path onto config.
// An empty path is a no-op. If the file cannot be read or contains invalid
// JSON, the function panics: a broken config file must stop startup.
func parseJson(config *Config, path string) {
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.HTTPAddr = c.HTTPAddr
	config.DatabaseDriver = c.DatabaseDriver
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.MaxUploadSize = c.MaxUploadSize
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.VaultPassphrase = c.VaultPassphrase
	config.RedisAddress = c.RedisAddress
	config.ImportLockTTL = c.ImportLockTTL.Duration
	config.LogBackend = c.LogBackend
	config.LogDebug = c.LogDebug
	config.CORSAllowedOrigins = c.CORSAllowedOrigins
}
