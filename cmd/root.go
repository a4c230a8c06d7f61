package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"oap-netconfig/internal/pkg/config"
	"oap-netconfig/internal/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	configFlag    string
	interfaceFlag string
)

var rootCmd = &cobra.Command{
	Use:           "oap-netconfig",
	Short:         "oap-netconfig manages the network identity of OAP camera uploaders",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadConfig loads and validates the configuration and initializes logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if interfaceFlag != "" {
		cfg.Interface = interfaceFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	logging.InitLogger(cfg.Logging)
	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logging.GetLogger().WithField("signal", sig.String()).Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func requireInterface(cfg *config.Config) error {
	if cfg.Interface == "" {
		return fmt.Errorf("no interface configured: set 'interface' in the config, %s, or --interface", config.EnvInterface)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "f", "", "Path to config file (YAML); defaults to the stock identity")
	rootCmd.PersistentFlags().StringVarP(&interfaceFlag, "interface", "i", "", "Network interface, overrides the config file")
}
