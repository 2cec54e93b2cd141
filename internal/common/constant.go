package common

const (
	// AuthorizationHeader carries the bearer token on API requests.
	AuthorizationHeader = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"
)

// Database drivers accepted by the server configuration.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Backup sinks accepted by the server configuration.
const (
	BackupDriverS3    = "s3"
	BackupDriverMinio = "minio"
)
