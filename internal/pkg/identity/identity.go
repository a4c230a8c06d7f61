// Package identity provides the immutable network identity of the device:
// the upload server hostname, its TCP port and the hardware address of the
// Ethernet adapter.
package identity

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

const (
	// DefaultServerName is the upload server used by the stock firmware.
	DefaultServerName = "www.oneassetplace.com"

	// AlternateServerName is the on-premises literal used on test benches.
	AlternateServerName = "192.168.0.103"

	// DefaultServerPort is the unencrypted HTTP port.
	DefaultServerPort = 80

	// HardwareAddrLen is the length of an Ethernet hardware address.
	HardwareAddrLen = 6

	maxPort        = 65535
	maxHostnameLen = 253
	maxLabelLen    = 63
)

// defaultHardwareAddr is the MAC printed on the stock Ethernet shield.
var defaultHardwareAddr = [HardwareAddrLen]byte{0x90, 0xA2, 0xDA, 0x0D, 0x9B, 0x33}

// DefaultHardwareAddr returns the MAC printed on the stock Ethernet shield.
func DefaultHardwareAddr() [HardwareAddrLen]byte {
	return defaultHardwareAddr
}

var (
	ErrInvalidHostname     = errors.New("invalid server hostname")
	ErrInvalidPort         = errors.New("invalid server port")
	ErrInvalidHardwareAddr = errors.New("invalid hardware address")
)

// Provider holds a validated network identity. A Provider never changes after
// construction, so it is safe for concurrent use without locking.
type Provider struct {
	serverName string
	serverPort int
	mac        [HardwareAddrLen]byte
	literal    bool
}

// Default returns the provider for the stock firmware configuration.
func Default() *Provider {
	return &Provider{
		serverName: DefaultServerName,
		serverPort: DefaultServerPort,
		mac:        defaultHardwareAddr,
	}
}

// New validates the given values and returns a provider exposing them.
func New(serverName string, serverPort int, mac net.HardwareAddr) (*Provider, error) {
	literal, err := ValidateHostname(serverName)
	if err != nil {
		return nil, err
	}
	if err := ValidatePort(serverPort); err != nil {
		return nil, err
	}
	if err := ValidateHardwareAddr(mac); err != nil {
		return nil, err
	}

	p := &Provider{
		serverName: serverName,
		serverPort: serverPort,
		literal:    literal,
	}
	copy(p.mac[:], mac)
	return p, nil
}

// ServerName returns the configured hostname or IP literal.
func (p *Provider) ServerName() string {
	return p.serverName
}

// ServerPort returns the configured TCP port.
func (p *Provider) ServerPort() int {
	return p.serverPort
}

// HardwareAddr returns a copy of the configured hardware address.
func (p *Provider) HardwareAddr() net.HardwareAddr {
	mac := make(net.HardwareAddr, HardwareAddrLen)
	copy(mac, p.mac[:])
	return mac
}

// HardwareAddrArray returns the hardware address in its fixed-size form.
func (p *Provider) HardwareAddrArray() [HardwareAddrLen]byte {
	return p.mac
}

// Address returns the server endpoint in host:port form.
func (p *Provider) Address() string {
	return net.JoinHostPort(p.serverName, strconv.Itoa(p.serverPort))
}

// IsIPLiteral reports whether the server name is an IP address rather than a DNS name.
func (p *Provider) IsIPLiteral() bool {
	return p.literal
}

// OUI returns the organizationally unique identifier of the hardware address
// as six upper-case hex digits.
func (p *Provider) OUI() string {
	return OUI(p.mac[:])
}

// LocallyAdministered reports whether the U/L bit of the hardware address is set.
func (p *Provider) LocallyAdministered() bool {
	return LocallyAdministered(p.mac[:])
}

// OUI returns the first three octets of mac as six upper-case hex digits, or
// an empty string when mac is too short to carry one.
func OUI(mac net.HardwareAddr) string {
	if len(mac) < 3 {
		return ""
	}
	return fmt.Sprintf("%02X%02X%02X", mac[0], mac[1], mac[2])
}

// LocallyAdministered reports whether the U/L bit of mac is set.
func LocallyAdministered(mac net.HardwareAddr) bool {
	return len(mac) > 0 && mac[0]&0x02 != 0
}

// Equal reports whether both providers expose the same identity.
func (p *Provider) Equal(other *Provider) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.serverName == other.serverName && p.serverPort == other.serverPort && p.mac == other.mac
}

func (p *Provider) String() string {
	return fmt.Sprintf("%s mac=%s", p.Address(), p.HardwareAddr())
}

// ValidateHostname checks that name is an IP literal or an RFC 1123 hostname.
// It reports whether name is an IP literal.
func ValidateHostname(name string) (bool, error) {
	if name == "" {
		return false, fmt.Errorf("%w: empty", ErrInvalidHostname)
	}
	if _, err := netip.ParseAddr(name); err == nil {
		return true, nil
	}

	host := strings.TrimSuffix(name, ".")
	if len(host) == 0 || len(host) > maxHostnameLen {
		return false, fmt.Errorf("%w: %q has invalid length", ErrInvalidHostname, name)
	}
	if _, ok := dns.IsDomainName(host); !ok {
		return false, fmt.Errorf("%w: %q is not a domain name", ErrInvalidHostname, name)
	}
	labels := strings.Split(host, ".")
	for _, label := range labels {
		if err := validateLabel(label); err != nil {
			return false, fmt.Errorf("%w: %q: %v", ErrInvalidHostname, name, err)
		}
	}
	// A numeric top-level label means a mistyped IP literal, not a name.
	if isNumeric(labels[len(labels)-1]) {
		return false, fmt.Errorf("%w: %q is neither an IP address nor a hostname", ErrInvalidHostname, name)
	}
	return false, nil
}

func isNumeric(label string) bool {
	for i := 0; i < len(label); i++ {
		if label[i] < '0' || label[i] > '9' {
			return false
		}
	}
	return label != ""
}

func validateLabel(label string) error {
	if len(label) == 0 || len(label) > maxLabelLen {
		return fmt.Errorf("label %q has invalid length", label)
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return fmt.Errorf("label %q starts or ends with a hyphen", label)
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		default:
			return fmt.Errorf("label %q contains %q", label, c)
		}
	}
	return nil
}

// ValidatePort checks that port fits in a TCP port number.
func ValidatePort(port int) error {
	if port < 0 || port > maxPort {
		return fmt.Errorf("%w: %d is outside 0-%d", ErrInvalidPort, port, maxPort)
	}
	return nil
}

// ValidateHardwareAddr checks that mac is a 6-byte unicast address usable by an adapter.
func ValidateHardwareAddr(mac net.HardwareAddr) error {
	if len(mac) != HardwareAddrLen {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHardwareAddr, HardwareAddrLen, len(mac))
	}
	zero := true
	for _, b := range mac {
		if b != 0 {
			zero = false
			break
		}
	}
	if zero {
		return fmt.Errorf("%w: all-zero address", ErrInvalidHardwareAddr)
	}
	if mac[0]&0x01 != 0 {
		return fmt.Errorf("%w: %s is a group address", ErrInvalidHardwareAddr, mac)
	}
	return nil
}
