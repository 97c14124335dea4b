// Package base carries the state shared by all CLI commands.
package base

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/scribe/internal/config"
	"github.com/hashicorp-forge/scribe/pkg/auth"
	"github.com/hashicorp-forge/scribe/pkg/docid"
	"github.com/hashicorp-forge/scribe/pkg/gitstore"
)

// Command is embedded by all CLI commands.
type Command struct {
	// UI is the command's user interface.
	UI cli.Ui

	// Log is the root logger.
	Log hclog.Logger
}

// UIErrorWriter routes flag.FlagSet error output through the command UI.
func (c *Command) UIErrorWriter() io.Writer {
	return &uiErrorWriter{ui: c.UI}
}

type uiErrorWriter struct{ ui cli.Ui }

func (w *uiErrorWriter) Write(p []byte) (int, error) {
	w.ui.Error(string(p))
	return len(p), nil
}

// DocumentSession is everything a command needs to operate on one document:
// a scoped storage client and the config it came from.
type DocumentSession struct {
	Config *config.Config
	Doc    *gitstore.DocumentClient
	ID     docid.DocumentID
}

// OpenDocument loads the config file, mints an access token with the given
// scopes, and returns a storage client scoped to the document.
func (c *Command) OpenDocument(configPath, document string, scopes []auth.Scope) (*DocumentSession, error) {
	cfg, err := config.FromFile(configPath)
	if err != nil {
		return nil, err
	}

	id, err := docid.New(cfg.Service.Tenant, document)
	if err != nil {
		return nil, err
	}

	lifetime, err := cfg.Service.ParsedTokenLifetime()
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(id.Tenant(), id.Document(), cfg.Service.Key, scopes, nil, lifetime)
	if err != nil {
		return nil, fmt.Errorf("minting access token: %w", err)
	}

	client, err := gitstore.NewClient(&gitstore.Config{
		BaseURL:   cfg.Service.BaseURL,
		Token:     token,
		TLSVerify: cfg.Service.TLSVerify,
		Timeout:   30 * time.Second,
		Logger:    c.Log,
	})
	if err != nil {
		return nil, err
	}

	return &DocumentSession{
		Config: cfg,
		Doc:    client.Document(id),
		ID:     id,
	}, nil
}
