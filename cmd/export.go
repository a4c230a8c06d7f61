package cmd

import (
	"oap-netconfig/internal/adapter/export"
	"oap-netconfig/internal/adapter/infrastructure/file"
	"oap-netconfig/internal/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	exportFormatFlag string
	exportOutFlag    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the identity as a firmware header, dotenv, YAML or JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		provider, err := cfg.Provider()
		if err != nil {
			return err
		}
		format, err := export.ParseFormat(exportFormatFlag)
		if err != nil {
			return err
		}

		if exportOutFlag == "" || exportOutFlag == "-" {
			data, err := export.Render(provider, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		written, err := export.NewExporter(file.NewManagerAdapter()).Export(provider, format, exportOutFlag)
		if err != nil {
			return err
		}

		logger := logging.WithComponent("export").WithField("path", exportOutFlag).WithField("format", string(format))
		if written {
			logger.Info("Identity exported")
		} else {
			logger.Info("Export up to date, nothing written")
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormatFlag, "format", "F", string(export.FormatHeader), "Format: header, env, yaml or json")
	exportCmd.Flags().StringVarP(&exportOutFlag, "out", "o", "-", "Output file, - for stdout")
	rootCmd.AddCommand(exportCmd)
}
