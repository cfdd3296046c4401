package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in   string
		want Metric
	}{
		{"PageRank", PageRank},
		{"pagerank", PageRank},
		{"Connected Components", ConnectedComponents},
		{"component", ConnectedComponents},
		{" Triangle Count ", TriangleCount},
		{"triangle_count", TriangleCount},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMetric(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMetric("Betweenness")
	require.Error(t, err)
}

func TestMetricNames(t *testing.T) {
	assert.Equal(t, "PR", PageRank.Tag())
	assert.Equal(t, "CC", ConnectedComponents.Tag())
	assert.Equal(t, "TC", TriangleCount.Tag())
	assert.Equal(t, "triangle_count", TriangleCount.Column())
	assert.Equal(t, "Connected Components", ConnectedComponents.String())
}

func TestGraphAddEdge(t *testing.T) {
	t.Run("creates missing endpoints", func(t *testing.T) {
		g := NewGraph()
		require.True(t, g.AddEdge("A", "B"))

		assert.Equal(t, 2, g.NodeCount())
		b, err := g.FindNode("B")
		require.NoError(t, err)
		assert.True(t, b.Attributes.Empty())
	})

	t.Run("collapses parallel edges", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("A", "B")
		assert.False(t, g.AddEdge("A", "B"))
		assert.Equal(t, 1, g.EdgeCount())

		// The reverse direction is a different edge.
		assert.True(t, g.AddEdge("B", "A"))
		assert.Equal(t, 2, g.EdgeCount())
	})

	t.Run("permits self-loops", func(t *testing.T) {
		g := NewGraph()
		g.AddEdge("A", "A")
		assert.Equal(t, 1, g.NodeCount())
		assert.True(t, g.HasEdge("A", "A"))
		assert.Equal(t, 2, g.Degree("A"))
	})
}

func TestGraphUpsertNodeLastWriteWins(t *testing.T) {
	g := NewGraph()
	g.UpsertNode("A", Record{PageRank: Ptr(0.1), Component: Ptr(ComponentID("c1"))})
	g.UpsertNode("A", Record{PageRank: Ptr(0.9)})

	node, err := g.FindNode("A")
	require.NoError(t, err)
	assert.Equal(t, 0.9, *node.Attributes.PageRank)
	assert.Equal(t, ComponentID("c1"), *node.Attributes.Component)
	assert.Nil(t, node.Attributes.TriangleCount)
}

func TestGraphQueries(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B")
	g.AddEdge("C", "B")
	g.EnsureNode("D")

	assert.Len(t, g.OutgoingEdges("A"), 1)
	assert.Len(t, g.IncomingEdges("B"), 2)
	assert.Equal(t, []VertexID{"A", "B", "C", "D"}, g.NodeIDs())

	isolated := g.IsolatedNodes()
	require.Len(t, isolated, 1)
	assert.Equal(t, VertexID("D"), isolated[0].ID)

	_, err := g.FindNode("Z")
	assert.Error(t, err)
}

func TestGraphLiteralIsIndexedLazily(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "A"}, {ID: "B"}},
		Edges: []Edge{{Source: "A", Target: "B"}},
	}
	assert.True(t, g.HasEdge("A", "B"))
	assert.False(t, g.AddEdge("A", "B"))
	_, err := g.FindNode("B")
	assert.NoError(t, err)
}

func TestVertexIDFrom(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want VertexID
		ok   bool
	}{
		{"string", "v1", "v1", true},
		{"int64", int64(42), "42", true},
		{"integral float", float64(7), "7", true},
		{"fractional float", 1.5, "1.5", true},
		{"float beyond int64", 1e20, "100000000000000000000", true},
		{"negative float beyond int64", -2e20, "-200000000000000000000", true},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := VertexIDFrom(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVertexIDFromKeepsLargeIDsDistinct(t *testing.T) {
	a, _ := VertexIDFrom(1e20)
	b, _ := VertexIDFrom(2e20)
	assert.NotEqual(t, a, b)
}

func TestAttributesValue(t *testing.T) {
	a := Attributes{TriangleCount: Ptr(int64(3))}

	v, ok := a.Value(TriangleCount)
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	_, ok = a.Value(PageRank)
	assert.False(t, ok)
}

func TestErrors(t *testing.T) {
	var err error = &InvalidInputError{Index: 2, Reason: "missing source"}
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "record 2: missing source", err.Error())

	err = &NoDataWarning{Metric: TriangleCount}
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Contains(t, err.Error(), "Triangle Count")
}
