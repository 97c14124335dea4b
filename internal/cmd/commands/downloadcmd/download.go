// Package downloadcmd implements "scribe download".
package downloadcmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/spf13/afero"

	"github.com/hashicorp-forge/scribe/internal/cmd/base"
	"github.com/hashicorp-forge/scribe/pkg/auth"
	"github.com/hashicorp-forge/scribe/pkg/summary"
)

// Command downloads a document's latest summary into a directory.
type Command struct {
	*base.Command

	flagConfig   string
	flagDocument string
	flagPrefix   string
}

func (c *Command) Synopsis() string {
	return "Download a document's latest summary into a directory"
}

func (c *Command) Help() string {
	return `Usage: scribe download [options] <dir>

  Fetches the latest committed summary, normalizes it, and writes its
  files under <dir>.

Options:

  -config=<path>    Path to the config file (default: config.hcl).
  -document=<name>  Document to download. Required.
  -prefix=<p>       Tree prefix stripped from summary paths
                    (default: ` + summary.DefaultTreePrefix + `).
`
}

func (c *Command) Run(args []string) int {
	f := flag.NewFlagSet("download", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "config.hcl", "config file path")
	f.StringVar(&c.flagDocument, "document", "", "document name")
	f.StringVar(&c.flagPrefix, "prefix", summary.DefaultTreePrefix, "tree prefix to strip")
	f.SetOutput(c.UIErrorWriter())
	if err := f.Parse(args); err != nil {
		return 1
	}
	if c.flagDocument == "" {
		c.UI.Error("-document is required")
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("exactly one directory argument is required")
		return 1
	}
	dir := f.Arg(0)

	session, err := c.OpenDocument(c.flagConfig, c.flagDocument, []auth.Scope{auth.ScopeDocRead})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error opening document: %v", err))
		return 1
	}

	normalized, err := session.Doc.DownloadSummary(context.Background(), c.flagPrefix)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error downloading summary: %v", err))
		return 1
	}

	if err := summary.WriteSnapshot(afero.NewOsFs(), dir, normalized); err != nil {
		c.UI.Error(fmt.Sprintf("error writing snapshot: %v", err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("downloaded summary at sequence number %d to %s",
		normalized.SequenceNumber, dir))
	return 0
}
