package cmd

import (
	"fmt"
	"io"

	"oap-netconfig/internal/adapter/export"
	"oap-netconfig/internal/pkg/identity"

	"github.com/spf13/cobra"
)

var showOutputFlag string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configured server and hardware address",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		provider, err := cfg.Provider()
		if err != nil {
			return err
		}

		if showOutputFlag == "text" {
			printIdentity(cmd.OutOrStdout(), provider)
			return nil
		}

		format, err := export.ParseFormat(showOutputFlag)
		if err != nil {
			return err
		}
		data, err := export.Render(provider, format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func printIdentity(w io.Writer, p *identity.Provider) {
	kind := "dns name"
	if p.IsIPLiteral() {
		kind = "ip literal"
	}
	admin := "universally administered"
	if p.LocallyAdministered() {
		admin = "locally administered"
	}

	fmt.Fprintf(w, "Server:   %s\n", p.Address())
	fmt.Fprintf(w, "Hostname: %s (%s)\n", p.ServerName(), kind)
	fmt.Fprintf(w, "Port:     %d\n", p.ServerPort())
	fmt.Fprintf(w, "MAC:      %s (OUI %s, %s)\n", p.HardwareAddr(), p.OUI(), admin)
}

func init() {
	showCmd.Flags().StringVarP(&showOutputFlag, "output", "o", "text", "Output format: text, json, yaml, env or header")
	rootCmd.AddCommand(showCmd)
}
