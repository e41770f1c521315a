package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/posematch/internal/cli"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match [model] [space]",
	Short: "Match a model set against a space set and save the matched transforms",
	Long: `Loads the model and space documents, keeps every model transform that equals
some space transform within epsilon and writes the result as {"datas": [...]}.
Paths resolve against --dir; the extension may be omitted.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.Model = args[0]
		}
		if len(args) > 1 {
			cfg.Space = args[1]
		}
		if cmd.Flags().Changed("output") {
			cfg.Output, _ = cmd.Flags().GetString("output")
		}
		if cmd.Flags().Changed("scene") {
			cfg.Scene, _ = cmd.Flags().GetString("scene")
		}

		draw, _ := cmd.Flags().GetBool("draw")
		quiet, _ := cmd.Flags().GetBool("quiet")
		limit, _ := cmd.Flags().GetInt("limit")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err = cli.RunMatch(ctx, cfg, cli.MatchOptions{
			Out:     cmd.OutOrStdout(),
			Draw:    draw,
			Summary: !quiet,
			Limit:   limit,
		}, logger)
		if err != nil {
			logger.Error("match failed", "error", err)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("output", "o", "", "Where to write the matched set")
	matchCmd.Flags().String("scene", "", "Export the gizmos as glTF (.gltf or .glb)")
	matchCmd.Flags().Bool("draw", false, "Print one colored line per gizmo")
	matchCmd.Flags().BoolP("quiet", "q", false, "Do not print the summary")
	matchCmd.Flags().Int("limit", 0, "Rows listed per view in the summary")
}
