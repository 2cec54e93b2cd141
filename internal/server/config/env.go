package config

import (
	"os"
	"strings"
)

// parseEnv overlays values from the process environment. Only variables
// that are set and non-empty are applied.
//
//	EDUPASS_HTTP_ADDR, EDUPASS_GRPC_ADDR, EDUPASS_DB_DRIVER, DATABASE_URL,
//	JWT_SECRET, ENCRYPTION_KEY, EDUPASS_LOG_LEVEL, EDUPASS_ALLOWED_ORIGINS,
//	REDIS_ADDR, REDIS_PASSWORD
func parseEnv(config *Config) {
	lookup(&config.EndpointAddrHTTP, "EDUPASS_HTTP_ADDR")
	lookup(&config.EndpointAddrGRPC, "EDUPASS_GRPC_ADDR")
	lookup(&config.DatabaseDriver, "EDUPASS_DB_DRIVER")
	lookup(&config.DatabaseDSN, "DATABASE_URL")
	lookup(&config.SecretKey, "JWT_SECRET")
	lookup(&config.EncryptionKey, "ENCRYPTION_KEY")
	lookup(&config.LogLevel, "EDUPASS_LOG_LEVEL")
	lookup(&config.RedisAddr, "REDIS_ADDR")
	lookup(&config.RedisPassword, "REDIS_PASSWORD")

	var origins string
	lookup(&origins, "EDUPASS_ALLOWED_ORIGINS")
	if origins != "" {
		config.AllowedOrigins = splitList(origins)
	}
}

func lookup(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
