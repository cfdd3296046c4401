package ingest

import (
	"github.com/TFMV/graphlens/models"
)

// Assemble builds an attributed directed graph from records.
//
// Every record upserts its source node and merges the metric attributes it
// carries; when the same vertex appears again the later value wins. A
// present target adds the edge source -> target and creates the target node
// if needed. A record without a source fails the whole call with an
// InvalidInputError.
func Assemble(records []models.Record) (*models.Graph, error) {
	for i, rec := range records {
		if rec.Source == nil {
			return nil, &models.InvalidInputError{Index: i, Reason: "missing source"}
		}
	}

	graph := models.NewGraph()
	for _, rec := range records {
		graph.UpsertNode(*rec.Source, rec)
		if rec.Target != nil {
			graph.AddEdge(*rec.Source, *rec.Target)
		}
	}
	return graph, nil
}
