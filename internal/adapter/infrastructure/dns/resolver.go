// Package dns provides hostname resolution adapter implementation.
package dns

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"time"

	"oap-netconfig/internal/port"

	"github.com/miekg/dns"
)

// ErrNoAddresses is returned when a name resolves to no A or AAAA records.
var ErrNoAddresses = errors.New("no addresses found")

// ResolverAdapter is an adapter that implements the Resolver port using miekg/dns
// against a single recursive server.
type ResolverAdapter struct {
	server string
	client *dns.Client
}

// Ensure ResolverAdapter implements the Resolver port
var _ port.Resolver = (*ResolverAdapter)(nil)

// NewResolverAdapter creates a resolver that queries server (host:port) over UDP.
func NewResolverAdapter(server string, timeout time.Duration) *ResolverAdapter {
	return &ResolverAdapter{
		server: server,
		client: &dns.Client{Net: "udp", Timeout: timeout},
	}
}

// LookupHost returns the A and AAAA addresses of host. IP literals are returned as-is.
// A failed query for one record type is ignored as long as the other yields addresses.
func (r *ResolverAdapter) LookupHost(ctx context.Context, host string) ([]netip.Addr, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return []netip.Addr{addr}, nil
	}

	var (
		addrs []netip.Addr
		errs  []error
	)
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		found, err := r.query(ctx, host, qtype)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		addrs = append(addrs, found...)
	}

	if len(addrs) > 0 {
		return addrs, nil
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, fmt.Errorf("%w for %s", ErrNoAddresses, host)
}

func (r *ResolverAdapter) query(ctx context.Context, host string, qtype uint16) ([]netip.Addr, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)
	msg.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s for %s %s: %w", r.server, host, dns.TypeToString[qtype], err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("query for %s %s failed: %s", host, dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
	}

	var addrs []netip.Addr
	for _, rr := range resp.Answer {
		switch t := rr.(type) {
		case *dns.A:
			if addr, ok := netip.AddrFromSlice(t.A.To4()); ok {
				addrs = append(addrs, addr)
			}
		case *dns.AAAA:
			if addr, ok := netip.AddrFromSlice(t.AAAA); ok {
				addrs = append(addrs, addr)
			}
		}
	}
	return addrs, nil
}
