package config

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
}

type EnvConfig interface {
	GetHost() string
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigin() string
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type OAuthConfig interface {
	GetAuthorizeURL() string
	GetClientID() string
	GetScopes() []string
	GetAccessKeyHeader() string
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
}

func New() Config {
	return mainConfig{}
}
