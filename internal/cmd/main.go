// Package cmd wires up the scribe CLI.
package cmd

import (
	"bufio"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/scribe/internal/cmd/base"
	"github.com/hashicorp-forge/scribe/internal/cmd/commands/downloadcmd"
	"github.com/hashicorp-forge/scribe/internal/cmd/commands/tokencmd"
	"github.com/hashicorp-forge/scribe/internal/cmd/commands/uploadcmd"
	"github.com/hashicorp-forge/scribe/internal/cmd/commands/versioncmd"
	"github.com/hashicorp-forge/scribe/internal/version"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	cliName := args[0]

	log := hclog.New(&hclog.LoggerOptions{
		Name:  cliName,
		Level: hclog.LevelFromString(os.Getenv("SCRIBE_LOG_LEVEL")),
	})

	if len(args) == 2 &&
		(args[1] == "-version" ||
			args[1] == "-v") {
		args = []string{cliName, "version"}
	}

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	b := &base.Command{UI: ui, Log: log}

	c := &cli.CLI{
		Name:    cliName,
		Args:    args[1:],
		Version: version.Version,
		Commands: map[string]cli.CommandFactory{
			"upload": func() (cli.Command, error) {
				return &uploadcmd.Command{Command: b}, nil
			},
			"download": func() (cli.Command, error) {
				return &downloadcmd.Command{Command: b}, nil
			},
			"token": func() (cli.Command, error) {
				return &tokencmd.Command{Command: b}, nil
			},
			"version": func() (cli.Command, error) {
				return &versioncmd.Command{Command: b}, nil
			},
		},
	}

	exitCode, err := c.Run()
	if err != nil {
		log.Error("error running CLI", "error", err)
		return 1
	}

	return exitCode
}
