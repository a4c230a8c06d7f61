//go:build unit

package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactFormatter_Format(t *testing.T) {
	entry := &logrus.Entry{
		Level:   logrus.InfoLevel,
		Message: "Hardware address applied",
		Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Data: logrus.Fields{
			"component": "assign",
			"interface": "eth0",
			"mac":       "90:a2:da:0d:9b:33",
			"attempt":   1,
		},
	}

	t.Run("Simple", func(t *testing.T) {
		out, err := (&CompactFormatter{}).Format(entry)
		require.NoError(t, err)
		assert.Equal(t, "[INFO][assign][eth0] Hardware address applied (attempt=1, mac=90:a2:da:0d:9b:33)\n", string(out))
	})

	t.Run("WithTime", func(t *testing.T) {
		out, err := (&CompactFormatter{ShowTime: true}).Format(entry)
		require.NoError(t, err)
		assert.Equal(t, "[03:04:05][INFO][assign][eth0] Hardware address applied (attempt=1, mac=90:a2:da:0d:9b:33)\n", string(out))
	})

	t.Run("NoFields", func(t *testing.T) {
		out, err := (&CompactFormatter{}).Format(&logrus.Entry{Level: logrus.WarnLevel, Message: "bare"})
		require.NoError(t, err)
		assert.Equal(t, "[WARNING] bare\n", string(out))
	})
}

func TestInitLogger(t *testing.T) {
	t.Run("ValidLevelAndFormat", func(t *testing.T) {
		var buf bytes.Buffer
		initLogger(LogConfig{Level: "debug", Format: "simple"}, &buf)

		assert.Equal(t, logrus.DebugLevel, Logger.GetLevel())
		assert.IsType(t, &CompactFormatter{}, Logger.Formatter)

		WithComponentAndInterface("check", "eth1").Info("probe done")
		assert.Contains(t, buf.String(), "[INFO][check][eth1] probe done")
	})

	t.Run("InvalidLevelDefaultsToInfo", func(t *testing.T) {
		var buf bytes.Buffer
		initLogger(LogConfig{Level: "loud", Format: "json"}, &buf)

		assert.Equal(t, logrus.InfoLevel, Logger.GetLevel())
		assert.IsType(t, &logrus.JSONFormatter{}, Logger.Formatter)
	})

	t.Run("InvalidFormatDefaultsToText", func(t *testing.T) {
		var buf bytes.Buffer
		initLogger(LogConfig{Level: "info", Format: "fancy"}, &buf)

		assert.IsType(t, &logrus.TextFormatter{}, Logger.Formatter)
		assert.Contains(t, buf.String(), "Invalid log format 'fancy'")
	})
}

func TestLogr(t *testing.T) {
	var buf bytes.Buffer
	initLogger(LogConfig{Level: "info", Format: "simple"}, &buf)

	Logr("watcher").Info("config reloaded", "path", "/etc/oap.yml")
	assert.Contains(t, buf.String(), "[watcher]")
	assert.Contains(t, buf.String(), "config reloaded")
	assert.Contains(t, buf.String(), "path=/etc/oap.yml")

	buf.Reset()
	WithError(errors.New("boom")).Error("failed")
	assert.Contains(t, buf.String(), "error=boom")
}
