package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/TFMV/graphlens/models"
)

// JSONRenderer outputs the positioned, labelled graph as JSON
type JSONRenderer struct{}

// Name returns the name of the renderer
func (r *JSONRenderer) Name() string {
	return "JSON Renderer"
}

// ContentType returns the MIME type of JSON documents
func (r *JSONRenderer) ContentType() string {
	return "application/json"
}

// Render creates a JSON representation of the scene
func (r *JSONRenderer) Render(scene *Scene, options *OutputOptions) ([]byte, error) {
	type jsonNode struct {
		ID         models.VertexID   `json:"id"`
		Label      string            `json:"label"`
		X          float64           `json:"x"`
		Y          float64           `json:"y"`
		Attributes models.Attributes `json:"attributes"`
	}

	type jsonGraph struct {
		Title   string        `json:"title"`
		Width   float64       `json:"width"`
		Height  float64       `json:"height"`
		Nodes   []jsonNode    `json:"nodes"`
		Edges   []models.Edge `json:"edges"`
		Notices []string      `json:"notices"`
	}

	out := jsonGraph{
		Title:   scene.Title,
		Width:   options.Width,
		Height:  options.Height,
		Nodes:   make([]jsonNode, 0, len(scene.Graph.Nodes)),
		Edges:   append([]models.Edge{}, scene.Graph.Edges...),
		Notices: make([]string, 0, len(scene.Notices)),
	}
	for _, node := range scene.Graph.Nodes {
		pos := scene.Layout[node.ID]
		out.Nodes = append(out.Nodes, jsonNode{
			ID:         node.ID,
			Label:      scene.Labels[node.ID],
			X:          pos.X,
			Y:          pos.Y,
			Attributes: node.Attributes,
		})
	}
	for _, notice := range scene.Notices {
		out.Notices = append(out.Notices, notice.Error())
	}

	return json.MarshalIndent(out, "", "  ")
}

// DOTRenderer outputs Graphviz DOT with pinned positions
type DOTRenderer struct{}

// Name returns the name of the renderer
func (r *DOTRenderer) Name() string {
	return "DOT Renderer"
}

// ContentType returns the MIME type of DOT documents
func (r *DOTRenderer) ContentType() string {
	return "text/vnd.graphviz"
}

// Render creates a DOT representation of the scene. Positions are given in
// points with the y axis flipped, as Graphviz expects.
func (r *DOTRenderer) Render(scene *Scene, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  label=%s;\n  labelloc=t;\n", strconv.Quote(scene.Title))
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fillcolor=%s, fontsize=%g];\n",
		strconv.Quote(options.NodeColor), options.FontSize)

	for _, node := range scene.Graph.Nodes {
		pos := scene.Layout[node.ID]
		fmt.Fprintf(&buf, "  %s [label=%s, pos=\"%.2f,%.2f!\"];\n",
			strconv.Quote(string(node.ID)),
			strconv.Quote(scene.Labels[node.ID]),
			pos.X, options.Height-pos.Y)
	}
	for _, edge := range scene.Graph.Edges {
		fmt.Fprintf(&buf, "  %s -> %s;\n",
			strconv.Quote(string(edge.Source)), strconv.Quote(string(edge.Target)))
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
