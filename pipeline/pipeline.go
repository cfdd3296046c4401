// Package pipeline runs one assemble-then-render pass per user selection.
//
// Each pass acquires its own Source, fetches the rows of the selected graph,
// projects them onto the selected metric, assembles the attributed graph and
// renders it. Nothing is shared or cached between passes.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/TFMV/graphlens/ctxlog"
	"github.com/TFMV/graphlens/ingest"
	"github.com/TFMV/graphlens/models"
	"github.com/TFMV/graphlens/render"
)

// Request is one user selection.
type Request struct {
	Graph  string
	Metric *models.Metric // nil renders plain node ids
	Format string         // overrides the service default when set
}

// Result is everything produced by one pass.
type Result struct {
	Projection ingest.Projection
	Graph      *models.Graph
	Artifact   *render.Artifact

	// Warnings holds recoverable conditions surfaced to the user, such as
	// a NoDataWarning or models.ErrEmptyGraph.
	Warnings []error
}

// Service runs passes against sources produced by its Opener.
type Service struct {
	open    Opener
	options render.OutputOptions
}

// NewService creates a service. options are the rendering defaults; nil
// means render.NewDefaultOptions("svg").
func NewService(open Opener, options *render.OutputOptions) *Service {
	if options == nil {
		options = render.NewDefaultOptions("svg")
	}
	return &Service{open: open, options: *options}
}

// Graphs lists the graphs available in the source.
func (s *Service) Graphs(ctx context.Context) (names []string, err error) {
	src, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer func() {
		closeSource(ctx, src, &err)
		if err != nil {
			names = nil
		}
	}()

	return src.ListGraphs(ctx)
}

// Project fetches and projects the rows of req.Graph without laying out or
// rendering them. The returned Result has no Artifact. It backs the
// per-metric results table.
func (s *Service) Project(ctx context.Context, req Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("graph", req.Graph)
	return s.load(ctxlog.WithLogger(ctx, logger), req)
}

// Visualize performs one full pass for req. Missing metric data and empty
// graphs are reported in Result.Warnings; a malformed record or a failing
// source is returned as an error.
func (s *Service) Visualize(ctx context.Context, req Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("graph", req.Graph)
	ctx = ctxlog.WithLogger(ctx, logger)

	res, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}

	options := s.options
	if req.Format != "" {
		options.Format = req.Format
	}
	res.Artifact, err = render.Render(ctx, res.Graph, req.Metric, &options, res.Warnings...)
	if err != nil {
		return nil, err
	}
	res.Warnings = res.Artifact.Notices
	return res, nil
}

// load runs the source half of a pass: open, fetch, project and assemble.
// The source is closed before load returns.
func (s *Service) load(ctx context.Context, req Request) (res *Result, err error) {
	logger := ctxlog.FromContext(ctx)

	src, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer func() {
		closeSource(ctx, src, &err)
		if err != nil {
			res = nil
		}
	}()

	records, err := src.FetchRecords(ctx, req.Graph)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	res = &Result{}
	if req.Metric != nil {
		res.Projection = ingest.Project(records, *req.Metric)
		if res.Projection.Warning != nil {
			logger.Warn("metric has no data", "metric", req.Metric.String())
			res.Warnings = append(res.Warnings, res.Projection.Warning)
		}
	} else {
		res.Projection = ingest.Projection{View: records, Records: records}
	}

	res.Graph, err = ingest.Assemble(res.Projection.Records)
	if err != nil {
		return nil, fmt.Errorf("assemble graph: %w", err)
	}
	logger.Debug("graph assembled",
		"records", len(records),
		"nodes", res.Graph.NodeCount(),
		"edges", res.Graph.EdgeCount())
	return res, nil
}

// closeSource releases src. A close failure is reported through errp,
// joined with any earlier error.
func closeSource(ctx context.Context, src Source, errp *error) {
	cerr := src.Close(ctx)
	if cerr == nil {
		return
	}
	ctxlog.FromContext(ctx).Warn("closing source failed", "error", cerr)
	cerr = fmt.Errorf("close source: %w", cerr)
	if *errp != nil {
		*errp = errors.Join(*errp, cerr)
		return
	}
	*errp = cerr
}

// IsUserError reports whether err stems from bad input rather than a
// failing collaborator.
func IsUserError(err error) bool {
	return errors.Is(err, models.ErrInvalidInput)
}
