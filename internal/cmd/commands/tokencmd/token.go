// Package tokencmd implements "scribe token".
package tokencmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/scribe/internal/cmd/base"
	"github.com/hashicorp-forge/scribe/internal/config"
	"github.com/hashicorp-forge/scribe/pkg/auth"
)

// Command mints an access token for a document.
type Command struct {
	*base.Command

	flagConfig   string
	flagDocument string
	flagScopes   string
	flagUser     string
}

func (c *Command) Synopsis() string {
	return "Mint an access token for a document"
}

func (c *Command) Help() string {
	return `Usage: scribe token [options]

  Mints a JWT granting access to a document and prints it.

Options:

  -config=<path>    Path to the config file (default: config.hcl).
  -document=<name>  Document the token grants access to. Required.
  -scopes=<list>    Comma-separated scopes (default: doc:read,doc:write,summary:write).
  -user=<id>        User id recorded in the token.
`
}

func (c *Command) Run(args []string) int {
	f := flag.NewFlagSet("token", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "config.hcl", "config file path")
	f.StringVar(&c.flagDocument, "document", "", "document name")
	f.StringVar(&c.flagScopes, "scopes", "", "comma-separated scopes")
	f.StringVar(&c.flagUser, "user", "", "user id")
	f.SetOutput(c.UIErrorWriter())
	if err := f.Parse(args); err != nil {
		return 1
	}
	if c.flagDocument == "" {
		c.UI.Error("-document is required")
		return 1
	}

	cfg, err := config.FromFile(c.flagConfig)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}

	scopes := auth.DefaultScopes
	if c.flagScopes != "" {
		scopes = nil
		for _, s := range strings.Split(c.flagScopes, ",") {
			scopes = append(scopes, auth.Scope(strings.TrimSpace(s)))
		}
	}

	var user *auth.User
	if c.flagUser != "" {
		user = &auth.User{ID: c.flagUser}
	}

	lifetime, err := cfg.Service.ParsedTokenLifetime()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	token, err := auth.GenerateToken(cfg.Service.Tenant, c.flagDocument, cfg.Service.Key, scopes, user, lifetime)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error minting token: %v", err))
		return 1
	}

	c.UI.Output(token)
	return 0
}
