package gitstore

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/go-hclog"
)

// Config contains configuration for the storage client.
//
// Example configuration (HCL):
//
//	service {
//	  base_url = "https://storage.example.com"
//	  token    = env("SCRIBE_TOKEN")
//	}
type Config struct {
	// BaseURL is the base URL of the storage service.
	BaseURL string `hcl:"base_url" json:"baseUrl"`

	// Token is the bearer token presented on every request. Keep it out
	// of config files that get committed.
	Token string `hcl:"token" json:"-"`

	// TLSVerify controls TLS certificate verification. Disable only for
	// development against self-signed certs.
	TLSVerify *bool `hcl:"tls_verify,optional" json:"tlsVerify,omitempty"`

	// Timeout bounds each HTTP request. Default: 30 seconds.
	Timeout time.Duration `json:"timeout,omitempty"`

	// MaxRetries is the number of retries after a retryable failure
	// (transport error or 5xx). Default: 3.
	MaxRetries int `hcl:"max_retries,optional" json:"maxRetries,omitempty"`

	// InitialRetryInterval seeds the exponential backoff between retries.
	// Default: 500ms.
	InitialRetryInterval time.Duration `json:"initialRetryInterval,omitempty"`

	// DriverVersion is advertised in the x-driver-version header.
	DriverVersion string `hcl:"driver_version,optional" json:"driverVersion,omitempty"`

	// Encoder optionally rewrites outgoing requests for constrained
	// transports. Nil sends requests unmodified.
	Encoder RequestEncoder `json:"-"`

	// Logger receives request-level debug logging. Defaults to a null
	// logger.
	Logger hclog.Logger `json:"-"`
}

// defaultDriverVersion is sent when the config does not override it.
const defaultDriverVersion = "scribe/0.1"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		TLSVerify:            &tlsVerify,
		Timeout:              30 * time.Second,
		MaxRetries:           3,
		InitialRetryInterval: 500 * time.Millisecond,
		DriverVersion:        defaultDriverVersion,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Token, validation.Required),
		validation.Field(&c.MaxRetries, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base_url must use http or https scheme, got: %s", parsed.Scheme)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got: %v", c.Timeout)
	}
	return nil
}

// NewHTTPClient creates the HTTP client used for storage requests.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
