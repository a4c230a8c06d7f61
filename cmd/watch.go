package cmd

import (
	"context"
	"errors"
	"fmt"

	"oap-netconfig/internal/pkg/config"
	"oap-netconfig/internal/pkg/identity"
	"oap-netconfig/internal/pkg/logging"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the config file and print the identity whenever it changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configFlag == "" {
			return errors.New("watch requires --config")
		}
		if _, err := loadConfig(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		w, err := config.NewWatcher(configFlag, logging.Logr("watcher"), func(p *identity.Provider) {
			fmt.Fprintln(out)
			printIdentity(out, p)
		})
		if err != nil {
			return err
		}
		printIdentity(out, w.Current())

		ctx, cancel := signalContext()
		defer cancel()

		logging.WithComponent("watcher").WithField("config_file", configFlag).Info("Watching for changes")
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
