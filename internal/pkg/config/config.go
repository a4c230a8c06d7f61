package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"oap-netconfig/internal/pkg/identity"
	"oap-netconfig/internal/pkg/logging"

	"github.com/imdario/mergo"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the configuration file.
const (
	EnvServerName = "OAP_SERVER_NAME"
	EnvServerPort = "OAP_SERVER_PORT"
	EnvMAC        = "OAP_MAC"
	EnvInterface  = "OAP_INTERFACE"

	dotenvFile = ".env"
)

// ServerConfig represents the upload server endpoint
type ServerConfig struct {
	Name *string `yaml:"name"`
	Port *int    `yaml:"port"`
}

// ChecksConfig represents deployment check settings
type ChecksConfig struct {
	DNSServer  string        `yaml:"dns_server"`
	Timeout    time.Duration `yaml:"timeout"`
	ARPTargets []string      `yaml:"arp_targets,omitempty"`
}

// Config represents the main configuration structure
type Config struct {
	Logging   logging.LogConfig `yaml:"logging"`
	Server    ServerConfig      `yaml:"server"`
	MAC       *MACAddress       `yaml:"mac"`
	Interface string            `yaml:"interface,omitempty"`
	Checks    ChecksConfig      `yaml:"checks"`
}

// Defaults returns the stock firmware configuration.
func Defaults() Config {
	name := identity.DefaultServerName
	port := identity.DefaultServerPort
	hw := identity.DefaultHardwareAddr()
	mac := MACAddress(hw[:])
	return Config{
		Logging: logging.LogConfig{
			Level:  "info",
			Format: "simple",
		},
		Server: ServerConfig{
			Name: &name,
			Port: &port,
		},
		MAC: &mac,
		Checks: ChecksConfig{
			DNSServer: "1.1.1.1:53",
			Timeout:   3 * time.Second,
		},
	}
}

// Load loads configuration from a YAML file, fills unset fields with defaults
// and applies environment overrides. An empty path loads defaults only.
func Load(configPath string) (*Config, error) {
	return load(configPath, os.LookupEnv)
}

func load(configPath string, lookup func(string) (string, bool)) (*Config, error) {
	var config Config
	dotenv := map[string]string{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}

		envPath := filepath.Join(filepath.Dir(configPath), dotenvFile)
		if _, err := os.Stat(envPath); err == nil {
			if dotenv, err = godotenv.Read(envPath); err != nil {
				return nil, fmt.Errorf("failed to read env file %s: %w", envPath, err)
			}
		}
	}

	if err := config.applyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := config.applyEnv(env); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyDefaults fills absent fields. Identity fields set to an empty value
// stay empty so that Validate rejects them; mergo would replace them.
func (c *Config) applyDefaults() error {
	defaults := Defaults()
	if c.Server.Name == nil {
		c.Server.Name = defaults.Server.Name
	}
	if c.Server.Port == nil {
		c.Server.Port = defaults.Server.Port
	}
	if c.MAC == nil {
		c.MAC = defaults.MAC
	}

	defaults.Server = ServerConfig{}
	defaults.MAC = nil
	return mergo.Merge(c, defaults)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvServerName); ok {
		c.Server.Name = &v
	}
	if v, ok := lookup(EnvServerPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvServerPort, v, err)
		}
		c.Server.Port = &port
	}
	if v, ok := lookup(EnvMAC); ok {
		mac, err := ParseMAC(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvMAC, err)
		}
		c.MAC = &mac
	}
	if v, ok := lookup(EnvInterface); ok {
		c.Interface = v
	}
	return nil
}

// ServerName returns the configured server name, or the default when unset.
func (c *Config) ServerName() string {
	if c.Server.Name == nil {
		return identity.DefaultServerName
	}
	return *c.Server.Name
}

// ServerPort returns the configured port, or the default when unset.
func (c *Config) ServerPort() int {
	if c.Server.Port == nil {
		return identity.DefaultServerPort
	}
	return *c.Server.Port
}

// HardwareAddr returns the configured hardware address, or the default when unset.
func (c *Config) HardwareAddr() net.HardwareAddr {
	if c.MAC == nil {
		mac := identity.DefaultHardwareAddr()
		return mac[:]
	}
	return net.HardwareAddr(*c.MAC)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := identity.ValidateHostname(c.ServerName()); err != nil {
		return fmt.Errorf("server.name: %w", err)
	}
	if err := identity.ValidatePort(c.ServerPort()); err != nil {
		return fmt.Errorf("server.port: %w", err)
	}
	if err := identity.ValidateHardwareAddr(c.HardwareAddr()); err != nil {
		return fmt.Errorf("mac: %w", err)
	}
	return c.validateChecks()
}

func (c *Config) validateChecks() error {
	if c.Checks.Timeout <= 0 {
		return errors.New("checks.timeout must be positive")
	}
	if _, _, err := net.SplitHostPort(c.Checks.DNSServer); err != nil {
		return fmt.Errorf("checks.dns_server %q: %w", c.Checks.DNSServer, err)
	}
	for _, target := range c.Checks.ARPTargets {
		addr, err := netip.ParseAddr(target)
		if err != nil || !addr.Is4() {
			return fmt.Errorf("checks.arp_targets: %q is not an IPv4 address", target)
		}
	}
	return nil
}

// Provider builds the immutable identity described by the configuration.
func (c *Config) Provider() (*identity.Provider, error) {
	return identity.New(c.ServerName(), c.ServerPort(), c.HardwareAddr())
}

// ARPTargets returns the parsed ARP probe targets.
func (c *Config) ARPTargets() []netip.Addr {
	targets := make([]netip.Addr, 0, len(c.Checks.ARPTargets))
	for _, t := range c.Checks.ARPTargets {
		if addr, err := netip.ParseAddr(t); err == nil {
			targets = append(targets, addr)
		}
	}
	return targets
}
