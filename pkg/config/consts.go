package config

// EnvPrefix is empty because every envconfig tag carries the full AQARLINK_ name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "AQARLINK_DB_DSN"
	EnvDBHost = "AQARLINK_DB_HOST"
	EnvDBUser = "AQARLINK_DB_USER"
	EnvDBName = "AQARLINK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
