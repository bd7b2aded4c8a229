package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "MEDSUP"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
	AppEnvTest = "test"
)

const (
	EnvDBDSN  = "MEDSUP_DB_DSN"
	EnvDBHost = "MEDSUP_DB_HOST"
	EnvDBUser = "MEDSUP_DB_USER"
	EnvDBName = "MEDSUP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
