package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/gitvid/internal/config"
	"github.com/TimelordUK/gitvid/internal/logging"
)

func newInitCommand(root *renderFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: `Write the default settings to a TOML config file that later renders
read before applying flags. The file goes to --config when given, and to
the user config directory otherwise.

Examples:
  gitvid init                       Create the default config file
  gitvid init --force               Replace an existing config file
  gitvid --config gitvid.toml init  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, root.configPath, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")

	return cmd
}

func runInit(cmd *cobra.Command, path string, force bool) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")

	target := path
	if target == "" {
		target = config.GetConfigPath()
	}
	if target == "" {
		return fmt.Errorf("%w: no user config directory, pass --config", ErrConfig)
	}

	if _, err := os.Stat(target); err == nil {
		if !force {
			return fmt.Errorf("%w: %s already exists; use --force to overwrite", ErrConfig, target)
		}
		logger.Warn("overwriting existing file", logging.FieldConfig, target)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	var err error
	if path != "" {
		err = config.SaveTo(config.DefaultConfig(), path)
	} else {
		err = config.Save(config.DefaultConfig())
	}
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	logger.Info("created configuration file", logging.FieldConfig, target)
	return nil
}
