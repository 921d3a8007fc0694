// Package main is the entry point for the gitvid CLI.
package main

import (
	"os"

	"github.com/TimelordUK/gitvid/internal/cli"
	"github.com/TimelordUK/gitvid/internal/logging"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		logging.Default().Error("command failed", logging.FieldError, err)
		code := cli.ExitCode(err)
		if code == cli.ExitInvalidUsage {
			rootCmd.PrintErrln(rootCmd.UsageString())
		}
		return code
	}

	return 0
}
