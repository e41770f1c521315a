package main

import (
	"github.com/aretw0/posematch/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <path>...",
	Short: "Preview the transforms of one or more documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		return cli.RunInspect(cmd.Context(), cfg, args, limit, cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Int("limit", 20, "Maximum number of transforms listed per document")
}
