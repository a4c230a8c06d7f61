package cmd

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"oap-netconfig/internal/adapter/infrastructure/dhcp"
	"oap-netconfig/internal/adapter/lease"

	"github.com/spf13/cobra"
)

var (
	leaseTimeoutFlag time.Duration
	leaseJSONFlag    bool
)

var leaseCmd = &cobra.Command{
	Use:   "lease",
	Short: "Preview the DHCP lease the configured hardware address would receive",
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

		manager, err := lease.NewManager(cfg.Interface, provider, dhcp.NewClientAdapter(), leaseTimeoutFlag)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		if err := manager.Run(ctx); err != nil {
			return err
		}

		l := manager.Lease()
		out := cmd.OutOrStdout()
		if leaseJSONFlag {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(l)
		}

		fmt.Fprintf(out, "MAC:        %s\n", l.HWAddr)
		fmt.Fprintf(out, "IP:         %s\n", l.IP)
		fmt.Fprintf(out, "Netmask:    %s\n", net.IP(l.Netmask))
		fmt.Fprintf(out, "Routers:    %s\n", joinIPs(l.Routers))
		fmt.Fprintf(out, "DNS:        %s\n", joinIPs(l.DNS))
		fmt.Fprintf(out, "Server ID:  %s\n", l.ServerID)
		fmt.Fprintf(out, "Lease time: %s\n", l.LeaseTime)
		if l.DomainName != "" {
			fmt.Fprintf(out, "Domain:     %s\n", l.DomainName)
		}
		return nil
	},
}

func joinIPs(ips []net.IP) string {
	if len(ips) == 0 {
		return "-"
	}
	parts := make([]string, len(ips))
	for i, ip := range ips {
		parts[i] = ip.String()
	}
	return strings.Join(parts, ", ")
}

func init() {
	leaseCmd.Flags().DurationVar(&leaseTimeoutFlag, "timeout", lease.DefaultTimeout, "Timeout for the DHCP exchange")
	leaseCmd.Flags().BoolVar(&leaseJSONFlag, "json", false, "Print the lease as JSON")
	rootCmd.AddCommand(leaseCmd)
}
