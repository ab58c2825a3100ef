package config

const (
	// EnvPrefix scopes every environment variable this service reads.
	EnvPrefix = "PIZZERIA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PIZZERIA_DB_DSN"
	EnvDBHost = "PIZZERIA_DB_HOST"
	EnvDBUser = "PIZZERIA_DB_USER"
	EnvDBName = "PIZZERIA_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
