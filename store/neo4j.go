// Package store reads precomputed vertex metrics from a Neo4j database.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// DBRunner defines the interface for a generic query executor.
// It abstracts the execution of a Cypher query, allowing for different implementations
// or mocking in tests.
type DBRunner interface {
	// Run executes a given Cypher query with parameters and returns a fully-buffered result.
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// Options holds the connection settings of a Neo4j database.
type Options struct {
	URI      string
	Username string
	Password string
	Database string
}

// Neo4jExecutor is a DBRunner backed by the official Neo4j Go driver. An
// executor is opened for one unit of work and closed when it ends.
type Neo4jExecutor struct {
	driver neo4j.DriverWithContext
	dbName string
}

// Open creates a driver for opts and verifies that the database is
// reachable. The caller must Close the returned executor.
func Open(ctx context.Context, opts Options) (*Neo4jExecutor, error) {
	if opts.URI == "" {
		return nil, errors.New("neo4j uri is required")
	}
	driver, err := neo4j.NewDriverWithContext(opts.URI, neo4j.BasicAuth(opts.Username, opts.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create Neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("could not connect to Neo4j at %s: %w", opts.URI, err)
	}
	return &Neo4jExecutor{driver: driver, dbName: opts.Database}, nil
}

// Run executes a Cypher query through ExecuteQuery, which manages the
// session and transaction and buffers every record.
func (e *Neo4jExecutor) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	opts := []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithReadersRouting()}
	if e.dbName != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(e.dbName))
	}
	result, err := neo4j.ExecuteQuery(ctx, e.driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}
	return result, nil
}

// Close releases the driver and its connections.
func (e *Neo4jExecutor) Close(ctx context.Context) error {
	return e.driver.Close(ctx)
}
