package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecords(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.json")
	err := os.WriteFile(path, []byte(`[
		{"source": "A", "pagerank": 0.5, "target": "B"},
		{"source": "B", "pagerank": null, "target": null}
	]`), 0600)
	require.NoError(t, err, "failed to set up records file")
	return path
}

func TestRun_RenderOffline(t *testing.T) {
	// --- Arrange ---
	records := writeRecords(t)
	output := filepath.Join(t.TempDir(), "graph.svg")
	args := []string{"-records", records, "-graph", "demo", "-metric", "PageRank", "-output", output}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), args, stdout, stderr)

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "pagerank")
	assert.Contains(t, stdout.String(), "0.5")

	svg, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "PR: 0.50")
	assert.Contains(t, string(svg), "PR: N/A")
}

func TestRun_List(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	err := run(context.Background(), []string{"-mode", "list", "-records", writeRecords(t)}, stdout, stderr)

	require.NoError(t, err)
	assert.Equal(t, "demo\n", stdout.String())
}

func TestRun_Errors(t *testing.T) {
	records := writeRecords(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing graph", []string{"-records", records}},
		{"unknown metric", []string{"-records", records, "-graph", "demo", "-metric", "Closeness"}},
		{"unknown mode", []string{"-mode", "daemon"}},
		{"invalid format", []string{"-records", records, "-graph", "demo", "-format", "gif"}},
		{"bad flag", []string{"-no-such-flag"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.args, &bytes.Buffer{}, &bytes.Buffer{})
			require.Error(t, err)
		})
	}
}
