package config

import "os"

const (
	hostEnvVar    = "RELAY_HOST"
	portEnvVar    = "RELAY_PORT"
	appNameEnvVar = "APP_NAME"
)

// Defaults match the original access-server deployment: the listener binds
// every interface on a fixed high port so a companion browser on the same
// network can reach it.
const (
	defaultHost = "0.0.0.0"
	defaultPort = "49983"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetHost() string {
	return GetEnv(hostEnvVar, defaultHost)
}

func (EnvVars) GetPort() string {
	return GetEnv(portEnvVar, defaultPort)
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameEnvVar, "Go Auth Relay")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
