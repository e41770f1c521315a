package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/posematch"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of posematch",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "posematch version %s\n", strings.TrimSpace(posematch.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
