// Package lease previews the DHCP lease the device would obtain with its
// configured hardware address.
package lease

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"oap-netconfig/internal/pkg/logging"
	"oap-netconfig/internal/port"

	"github.com/insomniacslk/dhcp/dhcpv4"
)

// DefaultTimeout bounds a single DISCOVER/OFFER/REQUEST/ACK exchange.
const DefaultTimeout = 15 * time.Second

// Lease summarizes a DHCP ACK.
type Lease struct {
	HWAddr     net.HardwareAddr `json:"mac" yaml:"mac"`
	IP         net.IP           `json:"ip" yaml:"ip"`
	Netmask    net.IPMask       `json:"netmask" yaml:"netmask"`
	Routers    []net.IP         `json:"routers,omitempty" yaml:"routers,omitempty"`
	DNS        []net.IP         `json:"dns,omitempty" yaml:"dns,omitempty"`
	ServerID   net.IP           `json:"server_id,omitempty" yaml:"server_id,omitempty"`
	LeaseTime  time.Duration    `json:"lease_time" yaml:"lease_time"`
	DomainName string           `json:"domain_name,omitempty" yaml:"domain_name,omitempty"`
}

// Manager is a lease preview adapter that implements the IdentityManager port.
type Manager struct {
	ifaceName  string
	provider   port.ConfigurationProvider
	dhcpClient port.DHCPClient
	timeout    time.Duration

	mu     sync.Mutex
	result *Lease
}

// Ensure Manager implements the IdentityManager port
var _ port.IdentityManager = (*Manager)(nil)

// NewManager creates a lease preview adapter for ifaceName.
func NewManager(ifaceName string, provider port.ConfigurationProvider, dhcpClient port.DHCPClient, timeout time.Duration) (*Manager, error) {
	if ifaceName == "" {
		return nil, errors.New("interface name is required")
	}
	if provider == nil {
		return nil, errors.New("configuration provider is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		ifaceName:  ifaceName,
		provider:   provider,
		dhcpClient: dhcpClient,
		timeout:    timeout,
	}, nil
}

// GetInterfaceName returns the name of the network interface used for the exchange.
func (m *Manager) GetInterfaceName() string {
	return m.ifaceName
}

// Run performs a single lease exchange. The result is available from Lease.
func (m *Manager) Run(ctx context.Context) error {
	hwAddr := m.provider.HardwareAddr()
	logger := logging.WithComponentAndInterface("lease", m.ifaceName).WithField("mac", hwAddr.String())
	logger.Info("Requesting DHCP lease preview")

	ack, err := m.dhcpClient.RequestLease(ctx, m.ifaceName, hwAddr, m.timeout)
	if err != nil {
		return fmt.Errorf("failed to get DHCP lease: %w", err)
	}

	l := Summarize(hwAddr, ack)
	m.mu.Lock()
	m.result = l
	m.mu.Unlock()

	logger.WithFields(map[string]interface{}{
		"ip":         l.IP.String(),
		"netmask":    net.IP(l.Netmask).String(),
		"lease_time": l.LeaseTime.String(),
	}).Info("Received DHCP lease")
	return nil
}

// Lease returns the result of the last successful Run, or nil.
func (m *Manager) Lease() *Lease {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// Summarize extracts the fields of interest from a DHCP ACK.
func Summarize(hwAddr net.HardwareAddr, ack *dhcpv4.DHCPv4) *Lease {
	mask := ack.SubnetMask()
	if mask == nil {
		mask = ack.YourIPAddr.DefaultMask()
	}
	return &Lease{
		HWAddr:     hwAddr,
		IP:         ack.YourIPAddr,
		Netmask:    mask,
		Routers:    ack.Router(),
		DNS:        ack.DNS(),
		ServerID:   ack.ServerIdentifier(),
		LeaseTime:  ack.IPAddressLeaseTime(0),
		DomainName: ack.DomainName(),
	}
}
