// Package uploadcmd implements "scribe upload".
package uploadcmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/spf13/afero"

	"github.com/hashicorp-forge/scribe/internal/cmd/base"
	"github.com/hashicorp-forge/scribe/pkg/auth"
	"github.com/hashicorp-forge/scribe/pkg/gitstore/upload"
	"github.com/hashicorp-forge/scribe/pkg/summary"
)

// Command uploads a local directory as a document summary.
type Command struct {
	*base.Command

	flagConfig   string
	flagDocument string
	flagStrategy string
	flagMessage  string
	flagParent   string
	flagSeq      int64
	flagInitial  bool
}

func (c *Command) Synopsis() string {
	return "Upload a directory as a document summary"
}

func (c *Command) Help() string {
	return `Usage: scribe upload [options] <dir>

  Reads <dir> into a summary tree and uploads it to the storage service.

Options:

  -config=<path>    Path to the config file (default: config.hcl).
  -document=<name>  Document to upload to. Required.
  -strategy=<s>     Upload strategy: "tree" (one write per node) or
                    "whole" (single request). Default: whole.
  -parent=<handle>  Handle of the previous summary, enabling handle reuse.
  -message=<msg>    Message recorded with the summary.
  -seq=<n>          Document sequence number captured by the summary.
  -initial          Mark this as the document's first summary.
`
}

func (c *Command) flags() *flag.FlagSet {
	f := flag.NewFlagSet("upload", flag.ContinueOnError)
	f.StringVar(&c.flagConfig, "config", "config.hcl", "config file path")
	f.StringVar(&c.flagDocument, "document", "", "document name")
	f.StringVar(&c.flagStrategy, "strategy", "whole", "upload strategy (tree|whole)")
	f.StringVar(&c.flagMessage, "message", "", "summary message")
	f.StringVar(&c.flagParent, "parent", "", "parent summary handle")
	f.Int64Var(&c.flagSeq, "seq", 0, "sequence number")
	f.BoolVar(&c.flagInitial, "initial", false, "first summary for the document")
	f.SetOutput(c.UIErrorWriter())
	return f
}

func (c *Command) Run(args []string) int {
	f := c.flags()
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

	session, err := c.OpenDocument(c.flagConfig, c.flagDocument,
		[]auth.Scope{auth.ScopeDocRead, auth.ScopeSummaryWrite})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error opening document: %v", err))
		return 1
	}

	tree, err := summary.TreeFromFs(afero.NewOsFs(), dir)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error reading %s: %v", dir, err))
		return 1
	}

	var uploader upload.SummaryUploader
	switch c.flagStrategy {
	case "tree":
		uploader = upload.NewTreeUploader(session.Doc, c.Log)
	case "whole":
		uploader = upload.NewWholeUploader(session.Doc, c.Log)
	default:
		c.UI.Error(fmt.Sprintf("unknown strategy %q (want tree or whole)", c.flagStrategy))
		return 1
	}

	handle, err := uploader.UploadSummary(context.Background(), tree, c.flagParent, upload.Options{
		Initial:        c.flagInitial,
		Message:        c.flagMessage,
		SequenceNumber: c.flagSeq,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error uploading summary: %v", err))
		return 1
	}

	c.UI.Output(handle)
	return 0
}
