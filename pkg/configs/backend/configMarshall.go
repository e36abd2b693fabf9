package backend

import (
	"fmt"
	"time"
)

type Marshalled[S any] interface {
	trySeal(string) S
}

// seal marshalled object.
//
// this function CAN CAUSE PANIC if misconfiguration is found.
//
// All types named `pkg/configs/backend.XxxMarshall` are `Marshalled[*Xxx]` .
func TrySeal[S any](conf Marshalled[S]) S {
	return conf.trySeal("(root)")
}

type ServerConfigMarshall struct {
	Port     int32               `yaml:"port"`
	Database string              `yaml:"database"`
	LogLevel string              `yaml:"loglevel,omitempty"`
	Auth     *AuthConfigMarshall `yaml:"auth"`
}

var _ Marshalled[*ServerConfig] = &ServerConfigMarshall{}

func (m *ServerConfigMarshall) trySeal(path string) *ServerConfig {
	loglevel := m.LogLevel
	if loglevel == "" {
		loglevel = "info"
	}
	return &ServerConfig{
		port:     required(m.Port, path+".port"),
		database: required(m.Database, path+".database"),
		loglevel: loglevel,
		auth:     nonnil(m.Auth, path+".auth").trySeal(path + ".auth"),
	}
}

type AuthConfigMarshall struct {
	TokenSecret string `yaml:"tokenSecret"`
	TokenTTL    string `yaml:"tokenTTL,omitempty"`
}

func (m *AuthConfigMarshall) trySeal(path string) *AuthConfig {
	ttl := 24 * time.Hour
	if m.TokenTTL != "" {
		parsed, err := time.ParseDuration(m.TokenTTL)
		if err != nil {
			panic(fmt.Errorf("%s.tokenTTL can not be parsed: %w", path, err))
		}
		ttl = parsed
	}
	return &AuthConfig{
		tokenSecret: required(m.TokenSecret, path+".tokenSecret"),
		tokenTTL:    ttl,
	}
}

func nonnil[T any](v *T, path string) *T {
	if v == nil {
		panic(path + " is required")
	}
	return v
}

func required[T comparable](v T, path string) T {
	if v == *new(T) {
		panic(path + " is required")
	}
	return v
}
