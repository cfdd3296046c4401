// Package models provides data structures for the graphlens pipeline.
// It defines the query rows, the attributed graph assembled from them and
// the layout computed for rendering.
package models

// VertexID identifies a vertex within one graph. Equality is the only
// operation the pipeline relies on.
type VertexID string

// ComponentID is the canonical text of a connected-component id, which the
// graph store may hold as an integer or a string.
type ComponentID string

// Record is one flat row returned by the upstream query: a vertex, an
// optional outgoing neighbour and the optional metric properties of the
// vertex. A nil field means the column was not present or was null.
type Record struct {
	Source        *VertexID    `json:"source,omitempty"`
	Target        *VertexID    `json:"target,omitempty"`
	PageRank      *float64     `json:"pagerank,omitempty"`
	Component     *ComponentID `json:"component,omitempty"`
	TriangleCount *int64       `json:"triangle_count,omitempty"`
}

// Has reports whether the record carries a value for the metric's column.
func (r Record) Has(m Metric) bool {
	switch m {
	case PageRank:
		return r.PageRank != nil
	case ConnectedComponents:
		return r.Component != nil
	case TriangleCount:
		return r.TriangleCount != nil
	}
	return false
}

// Attributes is the metric property mapping of a node. Only supplied
// attributes are non-nil.
type Attributes struct {
	PageRank      *float64     `json:"pagerank,omitempty"`
	Component     *ComponentID `json:"component,omitempty"`
	TriangleCount *int64       `json:"triangle_count,omitempty"`
}

// Node is a vertex of the attributed graph.
type Node struct {
	ID         VertexID   `json:"id"`
	Attributes Attributes `json:"attributes"`
}

// Edge is a directed relation between two vertices. Edges carry no
// attributes.
type Edge struct {
	Source VertexID `json:"source"`
	Target VertexID `json:"target"`
}

// Graph is a directed graph whose nodes carry metric attributes. Parallel
// edges are collapsed and self-loops are permitted.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	index map[VertexID]int
	edges map[Edge]struct{}
}

// Position is a 2D coordinate on the rendering canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout maps every node of a graph to its position. A layout belongs to a
// single render and is never reused.
type Layout map[VertexID]Position

// Ptr returns a pointer to v. It keeps record literals short.
func Ptr[T any](v T) *T {
	return &v
}
