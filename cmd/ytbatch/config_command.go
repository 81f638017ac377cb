package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ytbatch/internal/config"
)

func newInitConfigCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Create a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = config.GetDefaultConfigPath()
			} else {
				target = config.ExpandHome(target)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.SaveConfigFile(config.DefaultConfig(), target); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created default config file at: %s\n", target)
			fmt.Fprintln(out, "Available options:")
			fmt.Fprintln(out, "  ytdlp_path: path to the yt-dlp binary")
			fmt.Fprintln(out, "  format / audio_format / audio_quality: yt-dlp download settings")
			fmt.Fprintln(out, "  cookies_browser: brave, chrome, firefox, etc.")
			fmt.Fprintln(out, "  database_path: SQLite file for download results")
			fmt.Fprintln(out, "  atomic_persist: true/false (store all results in one transaction)")
			fmt.Fprintln(out, "  tag_files: true/false (write album tags into downloaded files)")
			fmt.Fprintln(out, "  listen_addr: address for the live status server")
			fmt.Fprintln(out, "  progress_bar: true/false")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the config file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing config file")
	return cmd
}
