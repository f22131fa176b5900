package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/server"
	"github.com/afoley587/coding-challenges-2025/addressbook/internal/store"
)

var (
	// TLS/mTLS flags
	enableMTLS     bool
	serverCertFile string
	serverKeyFile  string
	serverCAFile   string

	seedOnStart bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the gRPC server",
	Long:  "Commands related to running the gRPC server.",
}

var runServerCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gRPC server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.StoreOptions())
		if err != nil {
			return fmt.Errorf("%s store: %w", cfg.Backend, err)
		}
		defer st.Close()

		if seedOnStart {
			if _, err := newImporter(st).Run(ctx); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
		}

		switch {
		case enableMTLS:
			if serverCertFile == "" || serverKeyFile == "" || serverCAFile == "" {
				return fmt.Errorf("mtls mode requires --cert, --key, and --ca")
			}
			logger.Info("starting gRPC server with mTLS",
				zap.String("addr", cfg.GRPCAddr), zap.String("backend", cfg.Backend))
			return server.RunTLS(ctx, cfg.GRPCAddr, serverCertFile, serverKeyFile, serverCAFile, st, logger)

		default:
			logger.Info("starting insecure gRPC server",
				zap.String("addr", cfg.GRPCAddr), zap.String("backend", cfg.Backend))
			return server.Run(ctx, cfg.GRPCAddr, st, logger)
		}
	},
}

func init() {

	runServerCmd.Flags().StringVarP(&cfg.GRPCAddr,
		"addr", "a", cfg.GRPCAddr, "Address to listen on")

	runServerCmd.Flags().AddFlagSet(storeFlags())

	runServerCmd.Flags().BoolVar(&seedOnStart,
		"seed", false, "Import the DummyJSON directory into an empty store before serving")

	runServerCmd.Flags().StringVar(&cfg.SeedURL,
		"seed-url", cfg.SeedURL, "Base URL of the DummyJSON API")

	runServerCmd.Flags().BoolVar(&enableMTLS,
		"mtls", false, "Enable mutual TLS (requires --cert, --key, --ca)")

	runServerCmd.Flags().StringVar(&serverCertFile,
		"cert", "", "Path to server certificate (PEM)")

	runServerCmd.Flags().StringVar(&serverKeyFile,
		"key", "", "Path to server private key (PEM)")

	runServerCmd.Flags().StringVar(&serverCAFile,
		"ca", "", "Path to CA certificate for verifying client certificates (PEM)")

	serverCmd.AddCommand(runServerCmd)
	rootCmd.AddCommand(serverCmd)
}
