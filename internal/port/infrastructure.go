// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

//go:generate mockgen -source=infrastructure.go -destination=../mock/mock_infrastructure.go -package=mock

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/vishvananda/netlink"
)

// DHCPClient is a port for DHCP client operations.
// This interface abstracts DHCP lease acquisition.
type DHCPClient interface {
	// RequestLease performs DHCP DISCOVER/OFFER/REQUEST/ACK presenting hwAddr as the client hardware address
	RequestLease(ctx context.Context, interfaceName string, hwAddr net.HardwareAddr, timeout time.Duration) (*dhcpv4.DHCPv4, error)
}

// NetworkManager is a port for network interface operations.
// This interface abstracts netlink operations for hardware address assignment.
type NetworkManager interface {
	// GetLinkByName returns a network link by interface name
	GetLinkByName(interfaceName string) (netlink.Link, error)

	// SetLinkDown brings the interface down
	SetLinkDown(link netlink.Link) error

	// SetLinkUp brings the interface up
	SetLinkUp(link netlink.Link) error

	// SetHardwareAddr assigns a hardware address to the interface
	SetHardwareAddr(link netlink.Link, hwAddr net.HardwareAddr) error
}

// Resolver is a port for hostname resolution.
type Resolver interface {
	// LookupHost returns the IPv4 and IPv6 addresses of host
	LookupHost(ctx context.Context, host string) ([]netip.Addr, error)
}

// Neighbor is a reply received from a host on the local segment.
type Neighbor struct {
	IP     netip.Addr
	HWAddr net.HardwareAddr
}

// NeighborProber is a port for link-layer neighbor discovery.
type NeighborProber interface {
	// Probe sends ARP requests for targets on the interface and returns every reply received before ctx ends
	Probe(ctx context.Context, interfaceName string, targets []netip.Addr) ([]Neighbor, error)
}

// FileManager is a port for file system operations.
// This interface abstracts file read/write operations.
type FileManager interface {
	// ReadFile reads the contents of a file
	ReadFile(filename string) ([]byte, error)

	// WriteFile writes data to a file with specified permissions
	WriteFile(filename string, data []byte, perm int) error

	// FileExists checks if a file exists
	FileExists(filename string) bool
}
