package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, OffLevel, ParseLogLevel("off"))
	assert.Equal(t, ErrorLevel, ParseLogLevel("ERROR"))
	assert.Equal(t, WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, DebugLevel, ParseLogLevel(" debug "))
	assert.Equal(t, InfoLevel, ParseLogLevel("bogus"))
	assert.Equal(t, "warn", WarnLevel.String())
}

func TestDefaultLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: InfoLevel, Output: &buf})

	log.WithField("revRegDefId", "abc").WithError(errors.New("boom")).Info("created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "created", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "abc", entry["revRegDefId"])
	assert.Equal(t, "boom", entry["error"])
}

func TestDefaultLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: WarnLevel, Output: &buf})
	log.Info("hidden")
	log.Debugf("hidden %d", 1)
	assert.Zero(t, buf.Len())

	log.Warnf("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")

	buf.Reset()
	off := New(Options{Level: OffLevel, Output: &buf})
	off.Error("nothing")
	assert.Zero(t, buf.Len())
}

func TestDefaultLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: DebugLevel, Format: "text", Output: &buf})
	log.WithFields(map[string]interface{}{"k": "v"}).Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, GetDefaultLogger(), OrDefault(nil))
	var n Logger = NoopLogger{}
	assert.Equal(t, n, OrDefault(n))
	n.WithField("a", 1).Info("dropped")
}
