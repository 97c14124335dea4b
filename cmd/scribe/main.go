package main

import (
	"os"

	"github.com/hashicorp-forge/scribe/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
