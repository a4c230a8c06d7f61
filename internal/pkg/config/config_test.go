//go:build unit

package config

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"oap-netconfig/internal/pkg/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("ValidConfig", func(t *testing.T) {
		configFile := writeConfig(t, tempDir, "valid.yml", `logging:
  level: debug
  format: compact

server:
  name: 192.168.0.103
  port: 8080
mac: "02-00-00-AA-BB-CC"
interface: eth1
checks:
  dns_server: 10.0.0.53:53
  timeout: 500ms
  arp_targets: [192.168.0.1, 192.168.0.2]
`)

		config, err := load(configFile, noEnv)
		require.NoError(t, err)
		assert.Equal(t, "debug", config.Logging.Level)
		assert.Equal(t, "compact", config.Logging.Format)
		assert.Equal(t, "192.168.0.103", config.ServerName())
		assert.Equal(t, 8080, config.ServerPort())
		assert.Equal(t, "02:00:00:aa:bb:cc", config.HardwareAddr().String())
		assert.Equal(t, "eth1", config.Interface)
		assert.Equal(t, "10.0.0.53:53", config.Checks.DNSServer)
		assert.Equal(t, 500*time.Millisecond, config.Checks.Timeout)
		assert.Len(t, config.ARPTargets(), 2)
		assert.NoError(t, config.Validate())
	})

	t.Run("ByteListMAC", func(t *testing.T) {
		configFile := writeConfig(t, tempDir, "bytes.yml", `server:
  name: www.oneassetplace.com
mac: [0x90, 0xA2, 0xDA, 0x0D, 0x9B, 0x33]
`)

		config, err := load(configFile, noEnv)
		require.NoError(t, err)
		p, err := config.Provider()
		require.NoError(t, err)
		assert.True(t, p.Equal(identity.Default()))
	})

	t.Run("DefaultsFillUnsetFields", func(t *testing.T) {
		configFile := writeConfig(t, tempDir, "partial.yml", `interface: eth0
`)

		config, err := load(configFile, noEnv)
		require.NoError(t, err)
		assert.Equal(t, identity.DefaultServerName, config.ServerName())
		assert.Equal(t, identity.DefaultServerPort, config.ServerPort())
		assert.Equal(t, "90:a2:da:0d:9b:33", config.HardwareAddr().String())
		assert.Equal(t, "info", config.Logging.Level)
		assert.Equal(t, 3*time.Second, config.Checks.Timeout)
	})

	t.Run("EmptyPathLoadsDefaults", func(t *testing.T) {
		config, err := load("", noEnv)
		require.NoError(t, err)
		p, err := config.Provider()
		require.NoError(t, err)
		assert.True(t, p.Equal(identity.Default()))
	})

	t.Run("ExplicitEmptyIdentityIsKept", func(t *testing.T) {
		configFile := writeConfig(t, tempDir, "empty.yml", `server:
  name: ""
  port: 0
mac: []
`)

		config, err := load(configFile, noEnv)
		require.NoError(t, err)
		assert.Equal(t, "", config.ServerName())
		assert.Equal(t, 0, config.ServerPort())
		assert.Empty(t, config.HardwareAddr())
		assert.Equal(t, 3*time.Second, config.Checks.Timeout)

		err = config.Validate()
		assert.ErrorIs(t, err, identity.ErrInvalidHostname)
		_, err = config.Provider()
		assert.Error(t, err)
	})

	t.Run("ExplicitEmptyMACIsRejected", func(t *testing.T) {
		configFile := writeConfig(t, tempDir, "emptymac.yml", `mac: []
`)

		config, err := load(configFile, noEnv)
		require.NoError(t, err)
		assert.Equal(t, identity.DefaultServerName, config.ServerName())
		assert.ErrorIs(t, config.Validate(), identity.ErrInvalidHardwareAddr)
	})

	t.Run("NonExistentFile", func(t *testing.T) {
		_, err := load("/nonexistent/config.yml", noEnv)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		configFile := writeConfig(t, tempDir, "invalid.yml", `invalid: yaml: content: [
`)

		_, err := load(configFile, noEnv)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("InvalidMACString", func(t *testing.T) {
		configFile := writeConfig(t, tempDir, "badmac.yml", `mac: "90:A2:DA:0D:9B"
`)

		_, err := load(configFile, noEnv)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid mac")
	})

	t.Run("MACByteOutOfRange", func(t *testing.T) {
		configFile := writeConfig(t, tempDir, "bigbyte.yml", `mac: [0x90, 0xA2, 0xDA, 0x0D, 0x9B, 0x133]
`)

		_, err := load(configFile, noEnv)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "is not a byte")
	})
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	configFile := writeConfig(t, dir, "config.yml", `server:
  name: www.oneassetplace.com
  port: 80
`)
	writeConfig(t, dir, ".env", "OAP_SERVER_NAME=192.168.0.103\nOAP_INTERFACE=eth9\n")

	t.Run("DotenvOverridesFile", func(t *testing.T) {
		config, err := load(configFile, noEnv)
		require.NoError(t, err)
		assert.Equal(t, "192.168.0.103", config.ServerName())
		assert.Equal(t, "eth9", config.Interface)
	})

	t.Run("ProcessEnvOverridesDotenv", func(t *testing.T) {
		env := map[string]string{
			EnvServerName: "upload.example.net",
			EnvServerPort: "8080",
			EnvMAC:        "02:11:22:33:44:55",
		}
		config, err := load(configFile, func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		})
		require.NoError(t, err)
		assert.Equal(t, "upload.example.net", config.ServerName())
		assert.Equal(t, 8080, config.ServerPort())
		assert.Equal(t, "02:11:22:33:44:55", config.HardwareAddr().String())
		assert.Equal(t, "eth9", config.Interface)
	})

	t.Run("InvalidPortOverride", func(t *testing.T) {
		_, err := load(configFile, func(k string) (string, bool) {
			if k == EnvServerPort {
				return "http", true
			}
			return "", false
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), EnvServerPort)
	})

	t.Run("LoadUsesProcessEnvironment", func(t *testing.T) {
		t.Setenv(EnvServerPort, "8081")
		config, err := Load(configFile)
		require.NoError(t, err)
		assert.Equal(t, 8081, config.ServerPort())
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		c := Defaults()
		return &c
	}

	t.Run("ValidConfig", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("EmptyServerName", func(t *testing.T) {
		c := valid()
		name := ""
		c.Server.Name = &name
		err := c.Validate()
		assert.ErrorIs(t, err, identity.ErrInvalidHostname)
		assert.Contains(t, err.Error(), "server.name")
	})

	t.Run("PortOutOfRange", func(t *testing.T) {
		c := valid()
		port := 70000
		c.Server.Port = &port
		assert.ErrorIs(t, c.Validate(), identity.ErrInvalidPort)
	})

	t.Run("ZeroPortIsAllowed", func(t *testing.T) {
		c := valid()
		port := 0
		c.Server.Port = &port
		assert.NoError(t, c.Validate())
		assert.Equal(t, 0, c.ServerPort())
	})

	t.Run("ShortMAC", func(t *testing.T) {
		c := valid()
		mac := MACAddress(net.HardwareAddr{0x90, 0xA2})
		c.MAC = &mac
		assert.ErrorIs(t, c.Validate(), identity.ErrInvalidHardwareAddr)
	})

	t.Run("NonPositiveTimeout", func(t *testing.T) {
		c := valid()
		c.Checks.Timeout = 0
		err := c.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "checks.timeout")
	})

	t.Run("DNSServerWithoutPort", func(t *testing.T) {
		c := valid()
		c.Checks.DNSServer = "1.1.1.1"
		err := c.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "checks.dns_server")
	})

	t.Run("IPv6ARPTarget", func(t *testing.T) {
		c := valid()
		c.Checks.ARPTargets = []string{"fe80::1"}
		err := c.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not an IPv4 address")
	})
}
