package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"

	"github.com/TFMV/graphlens/ctxlog"
	"github.com/TFMV/graphlens/ingest"
	"github.com/TFMV/graphlens/models"
)

// VertexLabel is the node label under which analysed vertices are stored.
const VertexLabel = "Vertex"

// recordsQuery returns one row per vertex of a graph and outgoing neighbour.
// Vertices without neighbours appear once with a null target.
const recordsQuery = `MATCH (n:Vertex {graph_name: $graphName})
OPTIONAL MATCH (n)-[]->(m:Vertex)
RETURN n.id AS source,
       n.pagerank AS pagerank,
       n.component AS component,
       n.triangle_count AS triangle_count,
       m.id AS target`

// Repository runs the read queries of the pipeline.
type Repository struct {
	runner DBRunner
}

// NewRepository creates a repository executing queries through runner.
func NewRepository(runner DBRunner) *Repository {
	return &Repository{runner: runner}
}

// ListGraphs returns the distinct graph names found on stored vertices, sorted.
func (r *Repository) ListGraphs(ctx context.Context) ([]string, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", VertexLabel)).
		Return("DISTINCT n.graph_name AS name").
		Build()
	if err != nil {
		return nil, fmt.Errorf("could not build query: %w", err)
	}

	result, err := r.runner.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.Records))
	for _, record := range result.Records {
		value, ok := record.Get("name")
		if !ok {
			return nil, fmt.Errorf("could not find return value 'name' in query result")
		}
		if name, ok := value.(string); ok && name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// FetchRecords returns the flat (source, target, metric) rows of a graph.
// The graph name is bound as a query parameter.
func (r *Repository) FetchRecords(ctx context.Context, graphName string) ([]models.Record, error) {
	result, err := r.runner.Run(ctx, recordsQuery, map[string]any{"graphName": graphName})
	if err != nil {
		return nil, err
	}
	return decodeRecords(ctx, result.Records), nil
}

func decodeRecords(ctx context.Context, rows []*neo4j.Record) []models.Record {
	logger := ctxlog.FromContext(ctx)
	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		rec, notes := ingest.RecordFromMap(row.AsMap())
		for _, note := range notes {
			logger.Warn("metric value ignored", "detail", note)
		}
		records = append(records, rec)
	}
	logger.Debug("records fetched", "count", len(records))
	return records
}
