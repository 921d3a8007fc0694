// Package cli provides the Cobra command structure for gitvid.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gitvid command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &renderFlags{}

	rootCmd := &cobra.Command{
		Use:   "gitvid [flags] SOURCE PATH",
		Short: "Render the history of a file into a video",
		Long: `gitvid replays every commit that touched PATH in the git repository
SOURCE and draws each line edit as one video frame, one pixel per
character, optionally colored by a syntax theme.

Frames are piped to ffmpeg as JPEG images and encoded at the requested
frame rate and resolution.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("%w: expected SOURCE and PATH, got %d argument(s)", ErrUsage, len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, flags, args[0], args[1])
		},
		Version:       info.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("gitvid {{.Version}}\n")

	flags.register(rootCmd)

	rootCmd.AddCommand(newStylesCommand())
	rootCmd.AddCommand(newSizesCommand())
	rootCmd.AddCommand(newVersionCommand(info))
	rootCmd.AddCommand(newInitCommand(flags))

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	return rootCmd
}
