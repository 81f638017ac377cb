package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytbatch/internal/config"
)

// commandContext carries the global flags shared by every subcommand
type commandContext struct {
	configFlag string
	verbose    bool
}

// loadConfig reads the config file and applies global flags.
// Priority: CLI flags > config file > defaults
func (c *commandContext) loadConfig() (config.Config, string, error) {
	cfg, err := config.LoadConfigFile(c.configFlag)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to load config: %w", err)
	}

	path := c.configFlag
	if path == "" {
		path = config.FindConfigFile()
	}

	if c.verbose {
		cfg.Verbose = true
	}
	return cfg, path, nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "ytbatch",
		Short:         "Download batches of YouTube playlists and record every track outcome",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Show detailed output")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newResultsCommand(ctx))
	rootCmd.AddCommand(newInitConfigCommand())

	return rootCmd
}
