// Package export renders the network identity in formats consumed by the
// device firmware and deployment tooling.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"oap-netconfig/internal/pkg/config"
	"oap-netconfig/internal/port"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

const (
	FormatHeader Format = "header"
	FormatEnv    Format = "env"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatHeader, FormatEnv, FormatYAML, FormatJSON}

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Ethernet.begin takes a non-const byte pointer, so mac stays mutable in C.
var headerTemplate = template.Must(template.New("header").Parse(`// Generated by oap-netconfig. Do not edit.
#ifndef __CREDENTIALS_H__
#define __CREDENTIALS_H__

// Ethernet parameters
const char serverName[] = "{{ .Name }}";
const int serverPort = {{ .Port }};

// Hardware address of the Ethernet shield
byte mac[] = { {{ .MAC }} };
#endif
`))

type document struct {
	Server struct {
		Name string `yaml:"name" json:"name"`
		Port int    `yaml:"port" json:"port"`
	} `yaml:"server" json:"server"`
	MAC config.MACAddress `yaml:"mac" json:"mac"`
}

// Render returns the identity encoded in format.
func Render(p port.ConfigurationProvider, format Format) ([]byte, error) {
	switch format {
	case FormatHeader:
		return renderHeader(p)
	case FormatEnv:
		s, err := godotenv.Marshal(map[string]string{
			config.EnvServerName: p.ServerName(),
			config.EnvServerPort: strconv.Itoa(p.ServerPort()),
			config.EnvMAC:        p.HardwareAddr().String(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render env: %w", err)
		}
		return []byte(s + "\n"), nil
	case FormatYAML:
		return yaml.Marshal(newDocument(p))
	case FormatJSON:
		data, err := json.MarshalIndent(newDocument(p), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to render json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func newDocument(p port.ConfigurationProvider) document {
	var d document
	d.Server.Name = p.ServerName()
	d.Server.Port = p.ServerPort()
	d.MAC = config.MACAddress(p.HardwareAddr())
	return d
}

func renderHeader(p port.ConfigurationProvider) ([]byte, error) {
	hw := p.HardwareAddr()
	octets := make([]string, len(hw))
	for i, b := range hw {
		octets[i] = fmt.Sprintf("0x%02X", b)
	}

	var buf bytes.Buffer
	err := headerTemplate.Execute(&buf, struct {
		Name string
		Port int
		MAC  string
	}{
		Name: p.ServerName(),
		Port: p.ServerPort(),
		MAC:  strings.Join(octets, ", "),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render header: %w", err)
	}
	return buf.Bytes(), nil
}

// Exporter writes rendered identities through a FileManager.
type Exporter struct {
	fileMgr port.FileManager
}

// NewExporter creates an exporter writing through fileMgr.
func NewExporter(fileMgr port.FileManager) *Exporter {
	return &Exporter{fileMgr: fileMgr}
}

// Export renders p and writes it to path. Unchanged files are left alone;
// it reports whether the file was written.
func (e *Exporter) Export(p port.ConfigurationProvider, format Format, path string) (bool, error) {
	data, err := Render(p, format)
	if err != nil {
		return false, err
	}

	if e.fileMgr.FileExists(path) {
		existing, err := e.fileMgr.ReadFile(path)
		if err == nil && bytes.Equal(existing, data) {
			return false, nil
		}
	}

	if err := e.fileMgr.WriteFile(path, data, 0644); err != nil {
		return false, fmt.Errorf("failed to export %s: %w", format, err)
	}
	return true, nil
}
