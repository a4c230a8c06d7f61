//go:build unit

package dhcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewClientAdapter(t *testing.T) {
	adapter := NewClientAdapter()
	assert.NotNil(t, adapter)
}

func TestClientAdapter_RequestLease_UnknownInterface(t *testing.T) {
	adapter := NewClientAdapter()
	hw := net.HardwareAddr{0x90, 0xA2, 0xDA, 0x0D, 0x9B, 0x33}

	_, err := adapter.RequestLease(context.Background(), "nonexistent0", hw, time.Second)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create DHCP client")
}
