// Package assign applies the configured hardware address to a network interface.
package assign

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"oap-netconfig/internal/pkg/logging"
	"oap-netconfig/internal/port"
)

// DefaultMonitorInterval is how often a monitoring manager re-checks the interface.
const DefaultMonitorInterval = 30 * time.Second

// Manager is a hardware address assignment adapter that implements the IdentityManager port.
type Manager struct {
	ifaceName       string
	provider        port.ConfigurationProvider
	networkMgr      port.NetworkManager
	monitorInterval time.Duration
}

// Ensure Manager implements the IdentityManager port
var _ port.IdentityManager = (*Manager)(nil)

// NewManager creates an assignment adapter for ifaceName. With a zero
// monitorInterval Run applies the address once and returns; otherwise it keeps
// re-checking and repairs drift until the context is cancelled.
func NewManager(ifaceName string, provider port.ConfigurationProvider, networkMgr port.NetworkManager, monitorInterval time.Duration) (*Manager, error) {
	if ifaceName == "" {
		return nil, errors.New("interface name is required")
	}
	if provider == nil {
		return nil, errors.New("configuration provider is required")
	}
	if monitorInterval < 0 {
		return nil, fmt.Errorf("invalid monitor interval %s", monitorInterval)
	}

	return &Manager{
		ifaceName:       ifaceName,
		provider:        provider,
		networkMgr:      networkMgr,
		monitorInterval: monitorInterval,
	}, nil
}

// GetInterfaceName returns the name of the network interface managed by this manager.
func (m *Manager) GetInterfaceName() string {
	return m.ifaceName
}

// Run assigns the hardware address and, when monitoring, maintains it until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	hwAddr := m.provider.HardwareAddr()
	logger := logging.WithComponentAndInterface("assign", m.ifaceName).WithField("mac", hwAddr.String())
	logger.Info("Starting hardware address assignment")

	if _, err := m.apply(hwAddr); err != nil {
		return fmt.Errorf("failed to assign hardware address: %w", err)
	}

	if m.monitorInterval == 0 {
		return nil
	}
	return m.monitorInterface(ctx, hwAddr)
}

// apply sets hwAddr on the link, cycling the link down and up around the change.
// It reports whether the link was modified.
func (m *Manager) apply(hwAddr net.HardwareAddr) (bool, error) {
	logger := logging.WithComponentAndInterface("assign", m.ifaceName)

	link, err := m.networkMgr.GetLinkByName(m.ifaceName)
	if err != nil {
		return false, fmt.Errorf("failed to get netlink interface: %w", err)
	}

	attrs := link.Attrs()
	if bytes.Equal(attrs.HardwareAddr, hwAddr) {
		logger.WithField("mac", hwAddr.String()).Info("Hardware address already configured, skipping")
		return false, nil
	}

	wasUp := attrs.Flags&net.FlagUp != 0
	logger.WithFields(map[string]interface{}{
		"current": attrs.HardwareAddr.String(),
		"target":  hwAddr.String(),
		"was_up":  wasUp,
	}).Info("Changing hardware address")

	if wasUp {
		if err := m.networkMgr.SetLinkDown(link); err != nil {
			return false, fmt.Errorf("failed to bring interface down: %w", err)
		}
	}

	setErr := m.networkMgr.SetHardwareAddr(link, hwAddr)

	if wasUp {
		if err := m.networkMgr.SetLinkUp(link); err != nil {
			return false, errors.Join(setErr, fmt.Errorf("failed to bring interface up: %w", err))
		}
	}
	if setErr != nil {
		return false, setErr
	}

	logger.WithField("mac", hwAddr.String()).Info("Successfully assigned hardware address")
	return true, nil
}

// monitorInterface re-checks the interface and reapplies the address after drift.
func (m *Manager) monitorInterface(ctx context.Context, hwAddr net.HardwareAddr) error {
	logger := logging.WithComponentAndInterface("assign", m.ifaceName)
	logger.WithField("interval", m.monitorInterval.String()).Info("Starting interface monitoring")

	ticker := time.NewTicker(m.monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Interface monitoring stopped due to context cancellation")
			return ctx.Err()
		case <-ticker.C:
			if err := m.checkAndRepair(hwAddr); err != nil {
				logger.WithError(err).Error("Hardware address check failed")
			}
		}
	}
}

func (m *Manager) checkAndRepair(hwAddr net.HardwareAddr) error {
	changed, err := m.apply(hwAddr)
	if err != nil {
		return fmt.Errorf("failed to reapply hardware address: %w", err)
	}
	if changed {
		logging.WithComponentAndInterface("assign", m.ifaceName).
			WithField("mac", hwAddr.String()).
			Warn("Hardware address had drifted and was reapplied")
	}
	return nil
}

