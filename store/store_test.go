package store

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/graphlens/models"
)

// fakeRunner records the last query and answers with a canned result.
type fakeRunner struct {
	result *neo4j.EagerResult
	err    error

	query  string
	params map[string]any
}

func (f *fakeRunner) Run(_ context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	f.query = query
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func eager(keys []string, rows ...[]any) *neo4j.EagerResult {
	result := &neo4j.EagerResult{Keys: keys}
	for _, values := range rows {
		result.Records = append(result.Records, &neo4j.Record{Keys: keys, Values: values})
	}
	return result
}

func TestRepositoryListGraphs(t *testing.T) {
	runner := &fakeRunner{result: eager([]string{"name"},
		[]any{"social"},
		[]any{"citations"},
		[]any{nil},
	)}
	repo := NewRepository(runner)

	names, err := repo.ListGraphs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"citations", "social"}, names)
	assert.Contains(t, runner.query, "Vertex")
	assert.Contains(t, runner.query, "graph_name")
}

func TestRepositoryFetchRecords(t *testing.T) {
	keys := []string{"source", "pagerank", "component", "triangle_count", "target"}
	runner := &fakeRunner{result: eager(keys,
		[]any{"A", 0.5, int64(1), int64(2), "B"},
		[]any{"B", nil, int64(1), nil, nil},
	)}
	repo := NewRepository(runner)

	records, err := repo.FetchRecords(context.Background(), "social'; DETACH DELETE n //")

	require.NoError(t, err)
	require.Len(t, records, 2)

	// The graph name is bound, never spliced into the query text.
	assert.Equal(t, "social'; DETACH DELETE n //", runner.params["graphName"])
	assert.NotContains(t, runner.query, "DETACH")
	assert.Contains(t, runner.query, "$graphName")

	a := records[0]
	assert.Equal(t, models.VertexID("A"), *a.Source)
	assert.Equal(t, models.VertexID("B"), *a.Target)
	assert.Equal(t, 0.5, *a.PageRank)
	assert.Equal(t, models.ComponentID("1"), *a.Component)
	assert.Equal(t, int64(2), *a.TriangleCount)

	b := records[1]
	assert.Nil(t, b.Target)
	assert.Nil(t, b.PageRank)
	assert.Nil(t, b.TriangleCount)
}

func TestRepositoryPropagatesErrors(t *testing.T) {
	boom := errors.New("connection reset")
	repo := NewRepository(&fakeRunner{err: boom})

	_, err := repo.FetchRecords(context.Background(), "g")
	assert.ErrorIs(t, err, boom)

	_, err = repo.ListGraphs(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestOpenRequiresURI(t *testing.T) {
	_, err := Open(context.Background(), Options{})
	require.Error(t, err)
}
