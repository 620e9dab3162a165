// Command matchctl is the operator CLI for VolunteerHub. It lists events,
// candidates and assignments and reconciles an event's volunteer selection
// against the server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dalemusser/volunteerhub/internal/app/apiclient"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string
	serverURL  string
	token      string
	timeout    time.Duration

	cfg    *Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "matchctl",
	Short: "Manage VolunteerHub event assignments",
	Long: `matchctl talks to a VolunteerHub server over its JSON API.

Configuration is read from ~/.matchctl.yaml, then MATCHCTL_* environment
variables, then flags. Most commands need an admin bearer token, which
"matchctl token" can mint when you hold the server's session key.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg = zap.NewDevelopmentConfig()
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = LoadConfig(configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("server") {
			cfg.Server = serverURL
		}
		if flags.Changed("token") {
			cfg.Token = token
		}
		if flags.Changed("timeout") {
			cfg.Timeout = timeout
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", DefaultConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "Server base URL (default http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Per-command timeout")

	addCommands(rootCmd)
}

// newClient builds an API client from the loaded config.
func newClient() (*apiclient.Client, error) {
	return apiclient.New(
		apiclient.Session{BaseURL: cfg.Server, Token: cfg.Token},
		apiclient.WithLogger(logger),
	)
}

// commandContext bounds one command by the configured timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, cfg.Timeout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
