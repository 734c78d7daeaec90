package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for discovery.
const EnvPrefix = "mazao"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "MAZAO_DB_DSN"
	EnvDBHost = "MAZAO_DB_HOST"
	EnvDBUser = "MAZAO_DB_USER"
	EnvDBName = "MAZAO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
