// Package versioncmd implements "scribe version".
package versioncmd

import (
	"github.com/hashicorp-forge/scribe/internal/cmd/base"
	"github.com/hashicorp-forge/scribe/internal/version"
)

// Command prints the CLI version.
type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the scribe version"
}

func (c *Command) Help() string {
	return "Usage: scribe version\n\n  Prints the scribe version.\n"
}

func (c *Command) Run([]string) int {
	c.UI.Output(version.Version)
	return 0
}
