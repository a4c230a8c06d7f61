// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

import (
	"context"
	"net"
)

// ConfigurationProvider exposes the read-only network identity of the device.
// Implementations must return the same values for their whole lifetime.
type ConfigurationProvider interface {
	// ServerName returns the upload server hostname or IP literal.
	ServerName() string

	// ServerPort returns the upload server TCP port.
	ServerPort() int

	// HardwareAddr returns a copy of the 6-byte adapter hardware address.
	HardwareAddr() net.HardwareAddr
}

// IdentityManager is the primary port for applying the identity to an interface.
// Specific implementations (assignment, lease preview) are the "adapters".
type IdentityManager interface {
	// Run applies the identity and runs until done or the context is cancelled.
	Run(ctx context.Context) error

	// GetInterfaceName returns the name of the network interface managed by this manager.
	GetInterfaceName() string
}
