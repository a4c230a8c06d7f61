package config

import (
	"fmt"
	"net"

	"gopkg.in/yaml.v3"
)

// MACAddress is a hardware address that unmarshals from either a string
// ("90:A2:DA:0D:9B:33", "90-A2-DA-0D-9B-33") or a sequence of byte values
// ([0x90, 0xA2, 0xDA, 0x0D, 0x9B, 0x33]).
type MACAddress net.HardwareAddr

// ParseMAC parses the string form of a hardware address.
func ParseMAC(s string) (MACAddress, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return nil, fmt.Errorf("invalid mac %q: %w", s, err)
	}
	return MACAddress(hw), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *MACAddress) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		hw, err := ParseMAC(s)
		if err != nil {
			return err
		}
		*m = hw
		return nil
	case yaml.SequenceNode:
		var values []int
		if err := node.Decode(&values); err != nil {
			return fmt.Errorf("invalid mac at line %d: %w", node.Line, err)
		}
		hw := make(MACAddress, len(values))
		for i, v := range values {
			if v < 0 || v > 0xFF {
				return fmt.Errorf("invalid mac at line %d: element %d (%d) is not a byte", node.Line, i, v)
			}
			hw[i] = byte(v)
		}
		*m = hw
		return nil
	default:
		return fmt.Errorf("invalid mac at line %d: expected string or list of bytes", node.Line)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (m MACAddress) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// MarshalText implements encoding.TextMarshaler.
func (m MACAddress) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m MACAddress) String() string {
	return net.HardwareAddr(m).String()
}
