package backend

import "time"

type ServerConfig struct {
	port     int32
	database string
	loglevel string
	auth     *AuthConfig
}

func (c *ServerConfig) Port() int32 {
	return c.port
}

// Connection string for database.
func (c *ServerConfig) Database() string {
	return c.database
}

// Log level of the server. default = "info"
func (c *ServerConfig) LogLevel() string {
	return c.loglevel
}

func (c *ServerConfig) Auth() *AuthConfig {
	return c.auth
}

type AuthConfig struct {
	tokenSecret string
	tokenTTL    time.Duration
}

// Secret for signing and verifying session tokens.
func (a *AuthConfig) TokenSecret() []byte {
	return []byte(a.tokenSecret)
}

// Lifetime of issued tokens. default = 24h
func (a *AuthConfig) TokenTTL() time.Duration {
	return a.tokenTTL
}
