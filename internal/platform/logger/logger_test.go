package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "production")
	l.Info("started", "port", "4000")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "started", entry["msg"])
	assert.Equal(t, "4000", entry["port"])
}

func TestNew_DevelopmentLogsDebugAsText(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "development")
	l.Debug("hello")

	assert.True(t, strings.Contains(buf.String(), "msg=hello"))
}
