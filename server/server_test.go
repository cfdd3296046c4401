package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/graphlens/pipeline"
)

const records = `{
	"social": [
		{"source": "A", "pagerank": 0.5, "target": "B"},
		{"source": "B", "pagerank": null, "target": null}
	],
	"broken": [
		{"target": "B"}
	]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graphs.json")
	require.NoError(t, os.WriteFile(path, []byte(records), 0600))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(New(pipeline.NewService(pipeline.FileOpener(path), nil), logger))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "<option>social</option>")
	assert.Contains(t, body, "<option>Connected Components</option>")
}

func TestIndexWithUnavailableDatabase(t *testing.T) {
	open := func(context.Context) (pipeline.Source, error) { return nil, errors.New("dial tcp: refused") }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(New(pipeline.NewService(open, nil), logger))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "unavailable")

	resp, _ = get(t, srv.URL+"/api/graphs")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestVisualize(t *testing.T) {
	srv := newTestServer(t)

	t.Run("svg artifact", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/visualize?graph=social&metric=PageRank")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
		assert.NotEmpty(t, resp.Header.Get("X-Graphlens-Artifact"))
		assert.Contains(t, body, "PR: 0.50")
		assert.Contains(t, body, "PR: N/A")
	})

	t.Run("warning header for missing metric", func(t *testing.T) {
		resp, _ := get(t, srv.URL+"/visualize?graph=social&metric=Triangle+Count")

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(NoticeHeader), "no data for this metric")
	})

	t.Run("dot format", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/visualize?graph=social&format=dot")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, strings.HasPrefix(body, "digraph"))
	})

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing graph", "?metric=PageRank", http.StatusBadRequest},
		{"unknown metric", "?graph=social&metric=Closeness", http.StatusBadRequest},
		{"unknown format", "?graph=social&format=gif", http.StatusBadRequest},
		{"invalid records", "?graph=broken&metric=PageRank", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := get(t, srv.URL+"/visualize"+tt.query)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAPIGraphs(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv.URL+"/api/graphs")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Graphs []string `json:"graphs"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, []string{"broken", "social"}, out.Graphs)
}

func TestAPIView(t *testing.T) {
	srv := newTestServer(t)

	t.Run("pagerank table", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/api/view?graph=social&metric=pagerank")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out viewResponse
		require.NoError(t, json.Unmarshal([]byte(body), &out))
		assert.Equal(t, "PageRank", out.Metric)
		assert.Equal(t, "pagerank", out.Column)
		require.Len(t, out.Rows, 1)
		assert.Equal(t, "A", string(out.Rows[0].Source))
		assert.Equal(t, 0.5, out.Rows[0].Value)
		assert.Empty(t, out.Warnings)
	})

	t.Run("empty component table warns", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/api/view?graph=social&metric=Connected+Components")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out viewResponse
		require.NoError(t, json.Unmarshal([]byte(body), &out))
		assert.Empty(t, out.Rows)
		require.Len(t, out.Warnings, 1)
		assert.Contains(t, out.Warnings[0], "no data")
	})

	t.Run("metric required", func(t *testing.T) {
		resp, _ := get(t, srv.URL+"/api/view?graph=social")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
