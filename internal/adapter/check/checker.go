// Package check runs deployment diagnostics against a configured identity:
// it resolves the server name and looks for other hosts already using the
// hardware address. Failures are reported, never retried.
package check

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"oap-netconfig/internal/pkg/identity"
	"oap-netconfig/internal/pkg/logging"
	"oap-netconfig/internal/port"

	"golang.org/x/sync/errgroup"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Check names.
const (
	HardwareAddress = "hardware_address"
	Resolve         = "resolve"
	MACCollision    = "mac_collision"
)

// vendors maps OUIs commonly found on embedded Ethernet adapters.
var vendors = map[string]string{
	"90A2DA": "Arduino",
	"A8610A": "Arduino",
	"0008DC": "WIZnet",
	"B827EB": "Raspberry Pi",
	"DCA632": "Raspberry Pi",
}

// Result is the outcome of one check.
type Result struct {
	Name   string `json:"name" yaml:"name"`
	Status Status `json:"status" yaml:"status"`
	Detail string `json:"detail" yaml:"detail"`
}

// Report collects the results of a run.
type Report struct {
	Server  string   `json:"server" yaml:"server"`
	MAC     string   `json:"mac" yaml:"mac"`
	Results []Result `json:"results" yaml:"results"`
}

// Failed reports whether any check failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFail {
			return true
		}
	}
	return false
}

// Result returns the result with the given name.
func (r *Report) Result(name string) (Result, bool) {
	for _, res := range r.Results {
		if res.Name == name {
			return res, true
		}
	}
	return Result{}, false
}

// Options configures a Checker.
type Options struct {
	Interface  string
	ARPTargets []netip.Addr
	Timeout    time.Duration
}

// Checker runs diagnostics for a provider.
type Checker struct {
	provider port.ConfigurationProvider
	resolver port.Resolver
	prober   port.NeighborProber
	opts     Options
}

// NewChecker creates a checker. prober may be nil when no interface is available.
func NewChecker(provider port.ConfigurationProvider, resolver port.Resolver, prober port.NeighborProber, opts Options) (*Checker, error) {
	if provider == nil {
		return nil, errors.New("configuration provider is required")
	}
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}
	if opts.Timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout %s", opts.Timeout)
	}
	return &Checker{provider: provider, resolver: resolver, prober: prober, opts: opts}, nil
}

// Run executes all checks concurrently and returns the report.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	logger := logging.WithComponent("check")
	hwAddr := c.provider.HardwareAddr()

	report := &Report{
		Server:  net.JoinHostPort(c.provider.ServerName(), strconv.Itoa(c.provider.ServerPort())),
		MAC:     hwAddr.String(),
		Results: make([]Result, 3),
	}

	// Network checks fail fast once ctx is done; their results would only
	// describe the cancellation, so the run reports it as an error instead.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report.Results[0] = c.checkHardwareAddress()
		return nil
	})
	g.Go(func() error {
		report.Results[1] = c.checkResolve(gctx)
		return ctx.Err()
	})
	g.Go(func() error {
		report.Results[2] = c.checkCollision(gctx)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("checks interrupted: %w", err)
	}

	for _, res := range report.Results {
		entry := logger.WithFields(map[string]interface{}{"check": res.Name, "status": string(res.Status)})
		switch res.Status {
		case StatusFail:
			entry.Error(res.Detail)
		case StatusWarn:
			entry.Warn(res.Detail)
		default:
			entry.Info(res.Detail)
		}
	}
	return report, nil
}

func (c *Checker) checkHardwareAddress() Result {
	hw := c.provider.HardwareAddr()
	if err := identity.ValidateHardwareAddr(hw); err != nil {
		return Result{Name: HardwareAddress, Status: StatusFail, Detail: err.Error()}
	}
	oui := identity.OUI(hw)
	if identity.LocallyAdministered(hw) {
		return Result{Name: HardwareAddress, Status: StatusOK, Detail: fmt.Sprintf("%s is locally administered", hw)}
	}
	if vendor, ok := vendors[oui]; ok {
		return Result{Name: HardwareAddress, Status: StatusOK, Detail: fmt.Sprintf("%s belongs to %s (OUI %s)", hw, vendor, oui)}
	}
	return Result{Name: HardwareAddress, Status: StatusWarn, Detail: fmt.Sprintf("%s has unrecognized OUI %s; make sure it matches the adapter label", hw, oui)}
}

func (c *Checker) checkResolve(ctx context.Context) Result {
	name := c.provider.ServerName()
	if _, err := netip.ParseAddr(name); err == nil {
		return Result{Name: Resolve, Status: StatusSkip, Detail: fmt.Sprintf("%s is an IP literal", name)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	addrs, err := c.resolver.LookupHost(ctx, name)
	if err != nil {
		return Result{Name: Resolve, Status: StatusFail, Detail: err.Error()}
	}
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.String()
	}
	return Result{Name: Resolve, Status: StatusOK, Detail: fmt.Sprintf("%s resolves to %s", name, strings.Join(parts, ", "))}
}

func (c *Checker) checkCollision(ctx context.Context) Result {
	if c.prober == nil || c.opts.Interface == "" {
		return Result{Name: MACCollision, Status: StatusSkip, Detail: "no interface configured"}
	}
	if len(c.opts.ARPTargets) == 0 {
		return Result{Name: MACCollision, Status: StatusSkip, Detail: "no ARP targets configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	neighbors, err := c.prober.Probe(ctx, c.opts.Interface, c.opts.ARPTargets)
	if err != nil {
		return Result{Name: MACCollision, Status: StatusFail, Detail: err.Error()}
	}

	hw := c.provider.HardwareAddr()
	var owners []string
	for _, n := range neighbors {
		if bytes.Equal(n.HWAddr, hw) {
			owners = append(owners, n.IP.String())
		}
	}
	if len(owners) > 0 {
		return Result{Name: MACCollision, Status: StatusFail, Detail: fmt.Sprintf("%s is already in use by %s", hw, strings.Join(owners, ", "))}
	}
	return Result{Name: MACCollision, Status: StatusOK, Detail: fmt.Sprintf("%d neighbors answered on %s, none with %s", len(neighbors), c.opts.Interface, hw)}
}
