package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// String formats the version line shown by --version and the version
// command. Placeholder commit and date values are left out.
func (b BuildInfo) String() string {
	version := b.Version
	if version == "" {
		version = "dev"
	}

	var details []string
	if b.Commit != "" && b.Commit != "none" {
		details = append(details, "commit "+b.Commit)
	}
	if b.Date != "" && b.Date != "unknown" {
		details = append(details, "built "+b.Date)
	}
	if len(details) == 0 {
		return version
	}
	return version + " (" + strings.Join(details, ", ") + ")"
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash and build date of gitvid, and the Go toolchain it was built with.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gitvid %s\n", info)
			fmt.Fprintf(out, "%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
