package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpLogger(t *testing.T) {
	var l Logger = NoOpLogger{}
	assert.NotPanics(t, func() {
		l.Debug("d")
		l.Info("i", "k", "v")
		l.Warn("w")
		l.Error("e", "k")
	})
}

func TestZerologAdapterFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewDefaultLogger(&buf, zerolog.DebugLevel)

	l.Info("run.start", "run_id", "r1", "steps", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run.start", entry["message"])
	assert.Equal(t, "r1", entry["run_id"])
	assert.Equal(t, float64(3), entry["steps"])
	assert.Equal(t, "info", entry["level"])
}

func TestZerologAdapterLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewDefaultLogger(&buf, zerolog.WarnLevel)

	l.Debug("hidden")
	l.Info("also hidden")
	l.Error("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestZerologAdapterOddArgs(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf))

	l.Info("odd", "dangling")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "dangling", entry["arg"])
}
