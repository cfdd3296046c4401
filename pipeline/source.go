package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/TFMV/graphlens/ctxlog"
	"github.com/TFMV/graphlens/ingest"
	"github.com/TFMV/graphlens/models"
	"github.com/TFMV/graphlens/store"
)

// Source supplies query rows for one unit of work.
type Source interface {
	ListGraphs(ctx context.Context) ([]string, error)
	FetchRecords(ctx context.Context, graphName string) ([]models.Record, error)
	Close(ctx context.Context) error
}

// Opener acquires a Source. Every call returns a fresh Source that the
// caller closes when its unit of work ends.
type Opener func(ctx context.Context) (Source, error)

// neo4jSource pairs an executor with the repository reading through it.
type neo4jSource struct {
	*store.Repository
	executor *store.Neo4jExecutor
}

func (s *neo4jSource) Close(ctx context.Context) error {
	return s.executor.Close(ctx)
}

// Neo4jOpener opens a new Neo4j connection on every call.
func Neo4jOpener(opts store.Options) Opener {
	return func(ctx context.Context) (Source, error) {
		executor, err := store.Open(ctx, opts)
		if err != nil {
			return nil, err
		}
		return &neo4jSource{Repository: store.NewRepository(executor), executor: executor}, nil
	}
}

// FileSource serves records from a JSON file. The file holds either an
// array of rows, exposed as a single graph named after the file, or an
// object mapping graph names to arrays of rows.
type FileSource struct {
	graphs map[string][]models.Record
}

// FileOpener reads path on every call so edits show up on the next request.
func FileOpener(path string) Opener {
	return func(ctx context.Context) (Source, error) {
		return LoadFileSource(ctx, path)
	}
}

// LoadFileSource reads and decodes a records file.
func LoadFileSource(ctx context.Context, path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}

	raw := map[string]json.RawMessage{}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		raw[name] = trimmed
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing JSON records file: %w", err)
	}

	logger := ctxlog.FromContext(ctx)
	src := &FileSource{graphs: make(map[string][]models.Record, len(raw))}
	for name, rows := range raw {
		records, notes, err := ingest.DecodeRecords(rows)
		if err != nil {
			return nil, fmt.Errorf("graph %q: %w", name, err)
		}
		for _, note := range notes {
			logger.Warn("metric value ignored", "graph", name, "detail", note)
		}
		src.graphs[name] = records
	}
	return src, nil
}

// ListGraphs returns the graph names in the file, sorted.
func (s *FileSource) ListGraphs(context.Context) ([]string, error) {
	names := make([]string, 0, len(s.graphs))
	for name := range s.graphs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// FetchRecords returns the rows of a graph. An unknown graph has no rows.
func (s *FileSource) FetchRecords(_ context.Context, graphName string) ([]models.Record, error) {
	return s.graphs[graphName], nil
}

// Close is a no-op; the file is read eagerly.
func (s *FileSource) Close(context.Context) error {
	return nil
}
