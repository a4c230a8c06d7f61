package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"oap-netconfig/internal/adapter/check"
	"oap-netconfig/internal/adapter/infrastructure/arp"
	"oap-netconfig/internal/adapter/infrastructure/dns"
	"oap-netconfig/internal/port"

	"github.com/spf13/cobra"
)

var checkJSONFlag bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the server name resolves and the hardware address is unused",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		provider, err := cfg.Provider()
		if err != nil {
			return err
		}

		var prober port.NeighborProber
		if cfg.Interface != "" {
			prober = arp.NewProberAdapter()
		}

		checker, err := check.NewChecker(provider, dns.NewResolverAdapter(cfg.Checks.DNSServer, cfg.Checks.Timeout), prober, check.Options{
			Interface:  cfg.Interface,
			ARPTargets: cfg.ARPTargets(),
			Timeout:    cfg.Checks.Timeout,
		})
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		report, err := checker.Run(ctx)
		if err != nil {
			return err
		}

		if checkJSONFlag {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printReport(cmd.OutOrStdout(), report)
		}

		if report.Failed() {
			return errors.New("one or more checks failed")
		}
		return nil
	},
}

func printReport(w io.Writer, r *check.Report) {
	fmt.Fprintf(w, "Server: %s\nMAC:    %s\n\n", r.Server, r.MAC)
	for _, res := range r.Results {
		fmt.Fprintf(w, "%-5s %-17s %s\n", res.Status, res.Name, res.Detail)
	}
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSONFlag, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(checkCmd)
}
