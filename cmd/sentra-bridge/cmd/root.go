package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sentra-home/sentra-bridge/internal/config"
	"github.com/sentra-home/sentra-bridge/internal/logger"
	"github.com/sentra-home/sentra-bridge/internal/service/bridge"
	"github.com/sentra-home/sentra-bridge/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// metricsAddress overrides the metrics listen address from configuration.
	metricsAddress string
	// logLevel sets the verbosity of the daemon logs.
	logLevel string

	// rootCmd represents the base command for running the bridge daemon.
	rootCmd = &cobra.Command{
		Use:   "sentra-bridge",
		Short: "Bridge a Sentra security panel to a smart-home platform.",
		Long: `Background daemon that mirrors a Sentra cloud security panel into smart-home accessories.

Logs into the vendor cloud with the configured account, keeps a short-lived
cache of the panel state and re-fetches it when the cache expires. Arm and
disarm requests are checked against the current panel state before they are
sent, disarming requires the configured keypad PIN. Lost sessions are
re-established automatically with a backoff.

Credentials come from the configuration file or from SENTRA_* environment
variables, including a .env file next to the binary.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Optional .env file feeds the SENTRA_* variables read during
			// configuration loading. A missing file is fine.
			_ = godotenv.Load()

			options := &bridge.Options{
				ConfigPath:     configPath,
				MetricsAddress: metricsAddress,
			}

			return bridge.Run(ctx, options)
		},
	}
)

// Execute runs the sentra-bridge CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&metricsAddress, "metrics-addr", "m", "", "listen address for Prometheus metrics, overrides configuration")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "log level: debug, info, warn or error")
}
