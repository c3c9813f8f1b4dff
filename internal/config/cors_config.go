package config

// Cors provides the cross-origin policy for the relay's HTTP surface.
// The relay is a short-lived localhost listener talked to by a companion
// web UI running on an arbitrary origin, so the policy is permissive.
type Cors struct{}

var _ CorsConfig = Cors{}

func (Cors) GetAllowedOrigin() string {
	return GetEnv("CORS_ALLOWED_ORIGIN", "*")
}

func (Cors) GetAllowedMethods() string {
	return GetEnv("CORS_ALLOWED_METHODS", "GET, OPTIONS")
}

func (c Cors) GetAllowedHeaders() string {
	return GetEnv("CORS_ALLOWED_HEADERS", OAuth{}.GetAccessKeyHeader()+", Content-Type")
}
