package models

import (
	"fmt"
	"math"
	"strconv"
)

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: []Node{},
		Edges: []Edge{},
		index: make(map[VertexID]int),
		edges: make(map[Edge]struct{}),
	}
}

// VertexIDFrom converts an id value returned by the graph store into a
// VertexID. Integral numbers and strings are accepted. Floats outside the
// int64 range keep their full decimal form.
func VertexIDFrom(v any) (VertexID, bool) {
	switch id := v.(type) {
	case nil:
		return "", false
	case VertexID:
		return id, true
	case string:
		return VertexID(id), true
	case int:
		return VertexID(strconv.Itoa(id)), true
	case int32:
		return VertexID(strconv.FormatInt(int64(id), 10)), true
	case int64:
		return VertexID(strconv.FormatInt(id, 10)), true
	case float64:
		if id == math.Trunc(id) && math.Abs(id) < 1<<63 {
			return VertexID(strconv.FormatInt(int64(id), 10)), true
		}
		return VertexID(strconv.FormatFloat(id, 'f', -1, 64)), true
	case fmt.Stringer:
		return VertexID(id.String()), true
	default:
		return VertexID(fmt.Sprint(id)), true
	}
}

// ComponentIDFrom converts a component label into a ComponentID.
func ComponentIDFrom(v any) (ComponentID, bool) {
	id, ok := VertexIDFrom(v)
	return ComponentID(id), ok
}

// EnsureNode returns the node with the given id, adding a bare node first
// if it does not exist.
func (g *Graph) EnsureNode(id VertexID) *Node {
	if g.index == nil {
		g.reindex()
	}
	if i, ok := g.index[id]; ok {
		return &g.Nodes[i]
	}
	g.Nodes = append(g.Nodes, Node{ID: id})
	g.index[id] = len(g.Nodes) - 1
	return &g.Nodes[len(g.Nodes)-1]
}

// UpsertNode ensures the node exists and merges the metric values of r
// into its attributes.
func (g *Graph) UpsertNode(id VertexID, r Record) *Node {
	node := g.EnsureNode(id)
	node.Attributes.Merge(r)
	return node
}

// AddEdge adds the directed edge source -> target. Missing endpoints are
// created as bare nodes. It reports whether the edge was new.
func (g *Graph) AddEdge(source, target VertexID) bool {
	if g.edges == nil {
		g.reindex()
	}
	g.EnsureNode(source)
	g.EnsureNode(target)

	e := Edge{Source: source, Target: target}
	if _, ok := g.edges[e]; ok {
		return false
	}
	g.edges[e] = struct{}{}
	g.Edges = append(g.Edges, e)
	return true
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	return len(g.Edges)
}

// reindex rebuilds the lookup tables for graphs built as literals or
// decoded from JSON.
func (g *Graph) reindex() {
	g.index = make(map[VertexID]int, len(g.Nodes))
	for i, n := range g.Nodes {
		g.index[n.ID] = i
	}
	g.edges = make(map[Edge]struct{}, len(g.Edges))
	for _, e := range g.Edges {
		g.edges[e] = struct{}{}
	}
}
