package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "CARGODESK_"

// parseEnv overlays CARGODESK_* environment variables onto config. A .env
// file in the working directory is loaded first; variables already present
// in the process environment win over it. Malformed numeric or duration
// values panic.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
			}
			*dst = d
		}
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("DATABASE_DRIVER", &config.DatabaseDriver)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	dur("ACCESS_TOKEN_VALIDITY_DURATION", &config.AccessTokenValidityDuration)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("VAULT_PASSPHRASE", &config.VaultPassphrase)
	str("REDIS_ADDRESS", &config.RedisAddress)
	dur("IMPORT_LOCK_TTL", &config.ImportLockTTL)
	str("LOG_BACKEND", &config.LogBackend)

	if v, ok := os.LookupEnv(envPrefix + "MAX_UPLOAD_SIZE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(fmt.Errorf("%sMAX_UPLOAD_SIZE: %w", envPrefix, err))
		}
		config.MaxUploadSize = n
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%sLOG_DEBUG: %w", envPrefix, err))
		}
		config.LogDebug = b
	}
	if v, ok := os.LookupEnv(envPrefix + "CORS_ALLOWED_ORIGINS"); ok {
		config.CORSAllowedOrigins = splitList(v)
	}
}

func splitList(v string) []string {
	out := []string{}
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
