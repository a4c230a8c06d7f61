package cmd

import (
	"context"
	"errors"
	"time"

	"oap-netconfig/internal/adapter/assign"
	"oap-netconfig/internal/adapter/infrastructure/network"
	"oap-netconfig/internal/pkg/logging"

	"github.com/spf13/cobra"
)

var applyMonitorFlag time.Duration

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Assign the configured hardware address to the interface",
	Long: `Assign the configured hardware address to the interface.

With --monitor the command keeps running and reapplies the address if it
drifts, until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := requireInterface(cfg); err != nil {
			return err
		}
		provider, err := cfg.Provider()
		if err != nil {
			return err
		}

		manager, err := assign.NewManager(cfg.Interface, provider, network.NewManagerAdapter(), applyMonitorFlag)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		if err := manager.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logging.WithInterface(manager.GetInterfaceName()).WithError(err).Error("Hardware address assignment failed")
			return err
		}
		return nil
	},
}

func init() {
	applyCmd.Flags().DurationVar(&applyMonitorFlag, "monitor", 0, "Keep monitoring at this interval (e.g. 30s); 0 applies once")
	rootCmd.AddCommand(applyCmd)
}
