package render

import (
	"fmt"

	"github.com/TFMV/graphlens/models"
)

// Label returns the display text of a node for the selected metric. PageRank
// scores are printed with two decimals; component ids and triangle counts
// are printed as they are. Nodes without a value read "N/A".
func Label(node models.Node, metric *models.Metric) string {
	if metric == nil {
		return string(node.ID)
	}

	v, ok := node.Attributes.Value(*metric)
	if !ok {
		return fmt.Sprintf("%s\n%s: N/A", node.ID, metric.Tag())
	}
	if f, isFloat := v.(float64); isFloat && *metric == models.PageRank {
		return fmt.Sprintf("%s\n%s: %.2f", node.ID, metric.Tag(), f)
	}
	return fmt.Sprintf("%s\n%s: %v", node.ID, metric.Tag(), v)
}

// Labels computes the label of every node in g.
func Labels(g *models.Graph, metric *models.Metric) map[models.VertexID]string {
	labels := make(map[models.VertexID]string, len(g.Nodes))
	for _, node := range g.Nodes {
		labels[node.ID] = Label(node, metric)
	}
	return labels
}

// Title returns the heading of a rendering for the selected metric.
func Title(metric *models.Metric) string {
	if metric == nil {
		return "Graph visualization"
	}
	return "Graph visualization - " + metric.String()
}
