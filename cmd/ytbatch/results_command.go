package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytbatch/internal/config"
	"ytbatch/internal/store"
)

func newResultsCommand(ctx *commandContext) *cobra.Command {
	var dbPath string
	var failedOnly bool
	var limit int

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show stored download results, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := ctx.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.DatabasePath = config.ExpandHome(dbPath)
			}
			if limit < 0 {
				return fmt.Errorf("--limit cannot be negative")
			}

			st, err := store.Open(cfg.DatabasePath, store.Options{})
			if err != nil {
				return err
			}
			defer st.Close()

			rows, err := st.List(cmd.Context(), store.Filter{FailedOnly: failedOnly, Limit: limit})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No download results stored.")
				return nil
			}
			fmt.Fprintln(out, renderRows(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database for download results")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only show tracks that did not download")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of rows, 0 for all")
	return cmd
}
