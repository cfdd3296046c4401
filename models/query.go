package models

import (
	"fmt"
	"sort"
)

// FindNode returns a node by its ID
func (g *Graph) FindNode(id VertexID) (*Node, error) {
	if g.index == nil {
		g.reindex()
	}
	if i, ok := g.index[id]; ok {
		return &g.Nodes[i], nil
	}
	return nil, fmt.Errorf("node with ID %s not found", id)
}

// HasEdge reports whether the edge source -> target exists.
func (g *Graph) HasEdge(source, target VertexID) bool {
	if g.edges == nil {
		g.reindex()
	}
	_, ok := g.edges[Edge{Source: source, Target: target}]
	return ok
}

// OutgoingEdges returns all edges originating from a node
func (g *Graph) OutgoingEdges(id VertexID) []Edge {
	var result []Edge
	for _, edge := range g.Edges {
		if edge.Source == id {
			result = append(result, edge)
		}
	}
	return result
}

// IncomingEdges returns all edges targeting a node
func (g *Graph) IncomingEdges(id VertexID) []Edge {
	var result []Edge
	for _, edge := range g.Edges {
		if edge.Target == id {
			result = append(result, edge)
		}
	}
	return result
}

// Degree returns the number of edges touching a node. A self-loop counts
// twice.
func (g *Graph) Degree(id VertexID) int {
	d := 0
	for _, edge := range g.Edges {
		if edge.Source == id {
			d++
		}
		if edge.Target == id {
			d++
		}
	}
	return d
}

// IsolatedNodes returns the nodes that no edge touches.
func (g *Graph) IsolatedNodes() []Node {
	touched := make(map[VertexID]bool, len(g.Nodes))
	for _, edge := range g.Edges {
		touched[edge.Source] = true
		touched[edge.Target] = true
	}
	var result []Node
	for _, node := range g.Nodes {
		if !touched[node.ID] {
			result = append(result, node)
		}
	}
	return result
}

// NodeIDs returns the ids of all nodes in sorted order.
func (g *Graph) NodeIDs() []VertexID {
	ids := make([]VertexID, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		ids = append(ids, node.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
