// Package arp provides neighbor discovery adapter implementation.
package arp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"time"

	"oap-netconfig/internal/port"

	"github.com/mdlayher/arp"
)

const readWindow = 150 * time.Millisecond

// ProberAdapter is an adapter that implements the NeighborProber port using mdlayher/arp.
type ProberAdapter struct{}

// Ensure ProberAdapter implements the NeighborProber port
var _ port.NeighborProber = (*ProberAdapter)(nil)

// NewProberAdapter creates a new ARP prober adapter.
func NewProberAdapter() *ProberAdapter {
	return &ProberAdapter{}
}

// Probe sends one ARP request per target and collects replies until ctx is done.
func (p *ProberAdapter) Probe(ctx context.Context, interfaceName string, targets []netip.Addr) ([]port.Neighbor, error) {
	iface, err := net.InterfaceByName(interfaceName)
	if err != nil {
		return nil, fmt.Errorf("interface not found: %w", err)
	}

	c, err := arp.Dial(iface)
	if err != nil {
		return nil, fmt.Errorf("failed to open ARP socket on %s: %w", interfaceName, err)
	}
	defer c.Close()

	for _, ip := range targets {
		if err := c.Request(ip); err != nil {
			return nil, fmt.Errorf("failed to send ARP request for %s: %w", ip, err)
		}
	}

	seen := map[string]bool{}
	var neighbors []port.Neighbor
	for {
		select {
		case <-ctx.Done():
			return neighbors, nil
		default:
		}

		if err := c.SetReadDeadline(time.Now().Add(readWindow)); err != nil {
			return nil, fmt.Errorf("failed to set read deadline: %w", err)
		}
		pkt, _, err := c.Read()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return neighbors, fmt.Errorf("failed to read ARP reply: %w", err)
		}
		if pkt.Operation != arp.OperationReply {
			continue
		}

		key := pkt.SenderIP.String() + "/" + pkt.SenderHardwareAddr.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		neighbors = append(neighbors, port.Neighbor{
			IP:     pkt.SenderIP,
			HWAddr: pkt.SenderHardwareAddr,
		})
	}
}
