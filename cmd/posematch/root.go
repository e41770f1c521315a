package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/posematch/internal/config"
	"github.com/aretw0/posematch/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "posematch",
	Short: "posematch finds the model poses that also appear in a space set",
	Long: `posematch loads two JSON sets of 4x4 transforms, keeps the model transforms
that equal some space transform within epsilon and writes them back as JSON.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Job file (default $"+config.EnvConfigPath+" or "+config.DefaultFile+")")
	rootCmd.PersistentFlags().String("dir", ".", "Directory the file store resolves resources against")
	rootCmd.PersistentFlags().String("store", "file", "Document store: 'file' or 'redis'")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Redis address (redis store only)")
	rootCmd.PersistentFlags().Float64("epsilon", 0, "Per-component tolerance (default: smallest float32)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}

// loadConfig reads the job file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	required := path != ""
	if path == "" {
		path = config.DefaultPath()
		required = os.Getenv(config.EnvConfigPath) != ""
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return cfg, nil, err
	}

	if flags.Changed("dir") {
		cfg.Resources, _ = flags.GetString("dir")
	}
	if flags.Changed("store") {
		cfg.Store, _ = flags.GetString("store")
	}
	if flags.Changed("redis-addr") {
		cfg.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("epsilon") {
		eps, _ := flags.GetFloat64("epsilon")
		cfg.Epsilon = &eps
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	logger := logging.NewWithWriter(os.Stderr, level, logging.Format(cfg.LogFormat))
	slog.SetDefault(logger)
	return cfg, logger, nil
}
