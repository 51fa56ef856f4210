// Package main is the entry point for the slip39 CLI.
package main

import (
	"os"

	"github.com/mrz1836/slip39/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
