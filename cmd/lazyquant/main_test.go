package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshot = `{
	"as_of": "2024-03-28",
	"quotes": {"1Y": 0.05, "2Y": 0.05, "3Y": 0.05, "6M": 0.051},
	"fixings": {"SOFR": {"2024-03-26": 0.0531, "2024-03-27": 0.0533}}
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"lazyquant"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestCurveCommand(t *testing.T) {
	quotes := writeFile(t, "snap.json", snapshot)

	out, _, err := runCLI(t, "curve", "--quotes", quotes)
	require.NoError(t, err)
	assert.Contains(t, out, "par curve as of 2024-03-28, 3 pillar(s)")
	assert.Contains(t, out, "0.952381")
	assert.Contains(t, out, "0.863838")
	assert.NotContains(t, out, "bumped")

	t.Run("bump notifies the curve once", func(t *testing.T) {
		out, _, err := runCLI(t, "curve", "--quotes", quotes, "--bump", "2Y=0.001", "--bump", "3Y=0.001")
		require.NoError(t, err)
		assert.Contains(t, out, "bumped 2 quote(s), curve notified 1 time(s)")
	})

	t.Run("unknown quote", func(t *testing.T) {
		_, _, err := runCLI(t, "curve", "--quotes", quotes, "--bump", "7Y=0.001")
		assert.ErrorContains(t, err, "unknown quote")
	})

	t.Run("malformed bump", func(t *testing.T) {
		_, _, err := runCLI(t, "curve", "--quotes", quotes, "--bump", "2Y")
		assert.ErrorIs(t, err, errInvalidAssignment)
	})
}

func TestCurveCommandMetrics(t *testing.T) {
	quotes := writeFile(t, "snap.json", snapshot)
	cfg := writeFile(t, "config.json", `{"metrics": true, "log": {"level": "debug"}}`)

	out, logs, err := runCLI(t, "curve", "--quotes", quotes, "--config", cfg, "--bump", "1Y=0.0005")
	require.NoError(t, err)
	assert.Contains(t, out, "lazyquant_notifications_total")
	assert.Contains(t, out, "mode=deferred")
	assert.Contains(t, out, "lazyquant_deferred_flush_size")
	assert.Contains(t, logs, "flushing deferred notifications")
}

func TestGraphCommand(t *testing.T) {
	quotes := writeFile(t, "snap.json", snapshot)

	out, _, err := runCLI(t, "graph", "--quotes", quotes)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `digraph "lazyquant" {`))
	assert.Contains(t, out, `[label="curve", style=rounded];`)
	assert.Contains(t, out, `[label="6M"];`)
	assert.Equal(t, 3, strings.Count(out, " -> "))
}

func TestFixingsCommand(t *testing.T) {
	out, _, err := runCLI(t, "fixings", "estr", "2024-03-01=0.039", "2024-03-04=0.041")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-04")
	assert.Contains(t, out, "average ESTR over 2 fixing(s): 4%")

	t.Run("from a snapshot within a window", func(t *testing.T) {
		quotes := writeFile(t, "snap.json", snapshot)
		out, _, err := runCLI(t, "fixings", "--quotes", quotes, "--from", "2024-03-27", "sofr")
		require.NoError(t, err)
		assert.Contains(t, out, "average SOFR over 1 fixing(s): 5.33%")
	})

	t.Run("no history", func(t *testing.T) {
		_, _, err := runCLI(t, "fixings", "estr")
		assert.ErrorContains(t, err, "missing fixing")
	})

	t.Run("no name", func(t *testing.T) {
		_, _, err := runCLI(t, "fixings")
		assert.ErrorIs(t, err, errMissingIndex)
	})
}
