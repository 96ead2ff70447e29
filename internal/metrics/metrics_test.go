package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := New()
	c.FileRead()
	c.FileRead()
	c.FileSkipped()
	c.Rows(5)
	c.Run(OutcomeSuccess, 120*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.files.WithLabelValues("read")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.files.WithLabelValues("skipped")))
	assert.Equal(t, 5.0, testutil.ToFloat64(c.rows))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.FileRead()
		c.FileSkipped()
		c.Rows(3)
		c.Run(OutcomeFailure, time.Second)
	})
}

func TestWriteTextfile(t *testing.T) {
	c := New()
	c.Run(OutcomeNoFiles, 0)

	path := filepath.Join(t.TempDir(), "f42.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `f42_merge_runs_total{outcome="no_files"} 1`)
}
