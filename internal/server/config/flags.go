package config

import (
	"flag"
	"strings"
	"time"

	"github.com/dmitrijs2005/edupass/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-g string   gRPC bind address (e.g., ":50051")
//	-D string   database driver ("pgx" or "sqlite")
//	-d string   database DSN or SQLite file path
//	-s string   JWT HMAC secret key
//	-k string   credential encryption passphrase
//	-t int      access token validity, minutes
//	-bc int     bcrypt cost
//	-l string   log level (debug, info, warn, error)
//	-o string   comma-separated CORS origins
//	-ra string  redis address; empty disables the site cache
//	-rp string  redis password
//	-rt int     site cache TTL, seconds
//	-bd string  backup driver ("s3", "minio" or empty)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-r string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-ssl bool   use TLS for MinIO
//
// Only the flags above are picked out of args via flagx.ParseKnown, so
// cobra subcommand arguments and -c/-config do not collide. A parse error
// panics.
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port for health checks")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	fs.StringVar(&config.EncryptionKey, "k", config.EncryptionKey, "credential encryption key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	fs.IntVar(&config.BcryptCost, "bc", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	allowedOrigins := fs.String("o", strings.Join(config.AllowedOrigins, ","), "allowed CORS origins, comma separated")

	fs.StringVar(&config.RedisAddr, "ra", config.RedisAddr, "redis address")
	fs.StringVar(&config.RedisPassword, "rp", config.RedisPassword, "redis password")
	sitesCacheTTL := fs.Int("rt", int(config.SitesCacheTTL.Seconds()), "sites cache TTL (in seconds)")

	fs.StringVar(&config.BackupDriver, "bd", config.BackupDriver, "backup driver (s3|minio)")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.BoolVar(&config.MinioUseSSL, "ssl", config.MinioUseSSL, "use TLS for MinIO")

	if err := flagx.ParseKnown(fs, args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "rt":
			config.SitesCacheTTL = time.Duration(*sitesCacheTTL) * time.Second
		}
	})
	config.AllowedOrigins = splitList(*allowedOrigins)
}
