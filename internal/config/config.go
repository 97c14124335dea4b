// Package config loads the CLI configuration file (HCL).
package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config is the top-level CLI configuration.
//
// Example config.hcl:
//
//	log_level = "info"
//
//	service {
//	  base_url = "https://storage.example.com"
//	  tenant   = "acme"
//	  key      = "shared-signing-secret"
//	}
type Config struct {
	// LogLevel sets the CLI log level (trace, debug, info, warn, error).
	LogLevel string `hcl:"log_level,optional"`

	// Service describes the storage service to talk to.
	Service *Service `hcl:"service,block"`
}

// Service holds the storage service connection settings.
type Service struct {
	// BaseURL is the storage service endpoint.
	BaseURL string `hcl:"base_url"`

	// Tenant is the tenant all commands operate under.
	Tenant string `hcl:"tenant"`

	// Key is the shared secret used to mint access tokens.
	Key string `hcl:"key"`

	// TokenLifetime bounds minted tokens, as a Go duration string.
	// Default: 1h.
	TokenLifetime string `hcl:"token_lifetime,optional"`

	// TLSVerify controls TLS certificate verification.
	TLSVerify *bool `hcl:"tls_verify,optional"`
}

// FromFile loads and validates a configuration file.
func FromFile(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("decoding config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Service == nil {
		return fmt.Errorf("config requires a service block")
	}
	if err := validation.ValidateStruct(c.Service,
		validation.Field(&c.Service.BaseURL, validation.Required),
		validation.Field(&c.Service.Tenant, validation.Required),
		validation.Field(&c.Service.Key, validation.Required),
	); err != nil {
		return fmt.Errorf("service config validation error: %w", err)
	}
	if _, err := c.Service.ParsedTokenLifetime(); err != nil {
		return err
	}
	return nil
}

// ParsedTokenLifetime returns the configured token lifetime, defaulting to
// one hour.
func (s *Service) ParsedTokenLifetime() (time.Duration, error) {
	if s.TokenLifetime == "" {
		return time.Hour, nil
	}
	d, err := time.ParseDuration(s.TokenLifetime)
	if err != nil {
		return 0, fmt.Errorf("invalid token_lifetime %q: %w", s.TokenLifetime, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("token_lifetime must be positive, got %s", s.TokenLifetime)
	}
	return d, nil
}
