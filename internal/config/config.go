// Package config loads the gqlcore server configuration from YAML.
//
// A file only needs the keys it changes; everything else keeps the value
// from Default. Command-line flags are applied on top by the CLI.
//
//	server:
//	  addr: ":8080"
//	  timeout: 10s
//	  corsOrigins: ["*"]
//	graphql:
//	  introspection: false
//	  concurrency: 16
//	log:
//	  level: debug
//	  format: json
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hanpama/gqlcore/internal/logging"
	"gopkg.in/yaml.v3"
)

var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrInvalidYAML  = errors.New("invalid YAML")
	ErrInvalid      = errors.New("invalid configuration")
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	GraphQL GraphQLConfig `yaml:"graphql"`
	Log     LogConfig     `yaml:"log"`
	Otel    OtelConfig    `yaml:"otel"`
}

type ServerConfig struct {
	Addr    string        `yaml:"addr"`
	Timeout time.Duration `yaml:"timeout"`
	Pretty  bool          `yaml:"pretty"`

	// MaxBodyBytes limits POST bodies. 0 means unlimited.
	MaxBodyBytes int64 `yaml:"maxBodyBytes"`

	// CORSOrigins enables CORS for the listed origins; "*" allows any.
	CORSOrigins []string `yaml:"corsOrigins"`

	// MetadataHeaders are forwarded from HTTP requests into outgoing gRPC
	// metadata visible to resolvers.
	MetadataHeaders []string `yaml:"metadataHeaders"`
}

type GraphQLConfig struct {
	Introspection bool `yaml:"introspection"`
	Validation    bool `yaml:"validation"`

	// Concurrency bounds how many sibling fields resolve at once.
	Concurrency int `yaml:"concurrency"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type OtelConfig struct {
	// Endpoint is an OTLP/gRPC collector address. Empty disables tracing.
	Endpoint string `yaml:"endpoint"`
	Service  string `yaml:"service"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			Timeout:      10 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		GraphQL: GraphQLConfig{
			Introspection: true,
			Validation:    true,
			Concurrency:   8,
		},
		Log:  LogConfig{Level: "info", Format: "text"},
		Otel: OtelConfig{Service: "gqlcore"},
	}
}

// Load reads path and overlays it on Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML overlaid on Default. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return fmt.Errorf("%w: server.addr must not be empty", ErrInvalid)
	case c.Server.Timeout < 0:
		return fmt.Errorf("%w: server.timeout must not be negative", ErrInvalid)
	case c.Server.MaxBodyBytes < 0:
		return fmt.Errorf("%w: server.maxBodyBytes must not be negative", ErrInvalid)
	case c.GraphQL.Concurrency < 1:
		return fmt.Errorf("%w: graphql.concurrency must be at least 1", ErrInvalid)
	}
	return nil
}

// Logging converts the log section for logging.New.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:  logging.ParseLevel(c.Log.Level),
		Format: logging.ParseFormat(c.Log.Format),
	}
}
