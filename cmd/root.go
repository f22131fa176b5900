package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/config"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/logging"
)

// cfg is loaded from the environment before any flag is registered so
// that flag defaults reflect it.
var cfg, cfgErr = config.Load()

// logger is replaced by the configured logger before any subcommand runs.
var logger = zap.NewNop()

// rootCmd is the base command for the CLI.  It delegates to
// subcommands defined in client.go, server.go, web.go and seed.go.  See
// init functions in those files for flag definitions.
var rootCmd = &cobra.Command{
	Use:          "addressbook",
	Short:        "Address book server, web front end and client",
	Long:         "Command line interface to run the address book gRPC server and web front end, import the directory and query it as a client.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		l, err := logging.New(cfg.LogLevel, cfg.Development)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command.  It should be invoked from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel,
		"log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	rootCmd.PersistentFlags().BoolVar(&cfg.Development,
		"dev", cfg.Development, "Human readable development logging")
}
