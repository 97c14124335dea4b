// Package gitstore is the REST client for the Git-like content-addressable
// document/summary storage service. It exposes the service's git-provider
// surface (blobs, trees, commits, refs) and its whole-summary endpoints.
package gitstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/scribe/pkg/docid"
	"github.com/hashicorp-forge/scribe/pkg/neterror"
)

// Request headers recognized by the service.
const (
	headerCorrelationID = "x-correlation-id"
	headerDriverVersion = "x-driver-version"
)

// Client talks to the storage service. It is safe for concurrent use; each
// request operates on independently owned state.
type Client struct {
	config  *Config
	client  *http.Client
	encoder RequestEncoder
	logger  hclog.Logger
}

// NewClient creates a storage client from cfg, applying defaults for unset
// fields.
func NewClient(cfg *Config) (*Client, error) {
	defaults := DefaultConfig()
	if cfg.TLSVerify == nil {
		cfg.TLSVerify = defaults.TLSVerify
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.InitialRetryInterval == 0 {
		cfg.InitialRetryInterval = defaults.InitialRetryInterval
	}
	if cfg.DriverVersion == "" {
		cfg.DriverVersion = defaults.DriverVersion
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage client config: %w", err)
	}

	return &Client{
		config:  cfg,
		client:  cfg.NewHTTPClient(),
		encoder: cfg.Encoder,
		logger:  cfg.Logger.Named("gitstore"),
	}, nil
}

// Document returns a view of the client scoped to one document. All git and
// summary operations hang off this view.
func (c *Client) Document(id docid.DocumentID) *DocumentClient {
	return &DocumentClient{
		client: c,
		id:     id,
		logger: c.logger.With("tenant", id.Tenant(), "document", id.Document()),
	}
}

// doRequest executes one JSON request against the service with retry on
// transport errors and 5xx responses. Non-2xx responses become
// neterror.NetworkError. 4xx responses are never retried.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	endpoint := c.config.BaseURL + path
	correlationID := uuid.NewString()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}

	operation := func() error {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}

		req.Header.Set("Authorization", "Bearer "+c.config.Token)
		req.Header.Set("Accept", "application/json")
		req.Header.Set(headerCorrelationID, correlationID)
		req.Header.Set(headerDriverVersion, c.config.DriverVersion)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		if c.encoder != nil {
			req, err = c.encoder.Encode(req)
			if err != nil {
				return backoff.Permanent(fmt.Errorf("encoding request: %w", err))
			}
		}

		resp, err := c.client.Do(req)
		if err != nil {
			// Transport failure, retryable.
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return neterror.FromResponse(resp)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(neterror.FromResponse(resp))
		}

		if result != nil {
			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("reading response: %w", err)
			}
			if len(respBody) > 0 {
				if err := json.Unmarshal(respBody, result); err != nil {
					return backoff.Permanent(fmt.Errorf("decoding response: %w", err))
				}
			}
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialRetryInterval
	bo.MaxInterval = 10 * time.Second

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(c.config.MaxRetries)), ctx))
	if err != nil {
		c.logger.Debug("request failed",
			"method", method,
			"path", path,
			"correlation_id", correlationID,
			"error", err,
		)
		return err
	}

	c.logger.Debug("request succeeded",
		"method", method,
		"path", path,
		"correlation_id", correlationID,
	)
	return nil
}
