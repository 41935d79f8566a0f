package main

import (
	"os"

	"wms-ops-agent/internal/cli"

	"github.com/fatih/color"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
