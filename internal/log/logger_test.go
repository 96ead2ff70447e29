package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger("debug", "text", false).Level)
	assert.Equal(t, logrus.WarnLevel, NewLogger("WARN", "text", false).Level)
	assert.Equal(t, logrus.InfoLevel, NewLogger("loud", "text", false).Level)
	assert.Equal(t, logrus.InfoLevel, NewLogger("", "text", false).Level)
}

func TestNewLoggerJSON(t *testing.T) {
	log := NewLogger("info", "json", true)
	var buf bytes.Buffer
	log.Out = &buf

	log.WithField("file", "a.xlsx").Warn("skipped")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "a.xlsx", entry["file"])
	assert.Equal(t, "skipped", entry["msg"])
	assert.NotContains(t, entry, "time")
}
