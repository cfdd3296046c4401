// Package render lays out an attributed graph, labels its nodes with the
// selected metric and encodes the result as a static image or document.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TFMV/graphlens/ctxlog"
	"github.com/TFMV/graphlens/models"
	"github.com/TFMV/graphlens/physics"
)

// OutputOptions defines rendering configuration options
type OutputOptions struct {
	Format        string  // Output format (svg, json, dot)
	Width         float64 // Width of the output
	Height        float64 // Height of the output
	Background    string  // Background color
	NodeColor     string  // Fill of node markers
	EdgeColor     string  // Stroke of edges and arrow heads
	NodeSize      float64 // Radius of node markers
	FontSize      float64 // Font size for labels
	Timestamp     bool    // Include timestamp in visualization
	Layout        string  // Layout algorithm (force, circle, noise)
	Noise         float64 // Noise intensity applied to the layout (0.0-1.0)
	MaxIterations int     // Cap on layout iterations
}

// NewDefaultOptions creates a default set of output options
func NewDefaultOptions(format string) *OutputOptions {
	return &OutputOptions{
		Format:        format,
		Width:         1200,
		Height:        800,
		Background:    "#ffffff",
		NodeColor:     "#add8e6", // light blue
		EdgeColor:     "#666666",
		NodeSize:      18.0,
		FontSize:      10.0,
		Timestamp:     false,
		Layout:        "force",
		MaxIterations: 500,
	}
}

// Scene is everything a format renderer needs to draw one graph.
type Scene struct {
	Title   string
	Graph   *models.Graph
	Layout  models.Layout
	Labels  map[models.VertexID]string
	Notices []error
}

// Renderer interface defines methods that all rendering backends must implement
type Renderer interface {
	// Render encodes the scene using the provided options
	Render(scene *Scene, options *OutputOptions) ([]byte, error)

	// Name returns the name of the renderer
	Name() string

	// ContentType returns the MIME type of the encoded output
	ContentType() string
}

// GetRenderer returns the appropriate renderer based on format
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg", "":
		return &SVGRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "dot":
		return &DOTRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// Artifact is a finished rendering. It is handed to a display collaborator
// as is and must not be modified afterwards.
type Artifact struct {
	ID          uuid.UUID
	Title       string
	Format      string
	ContentType string
	Data        []byte
	Layout      models.Layout
	Labels      map[models.VertexID]string
	Notices     []error
	CreatedAt   time.Time
}

// Empty reports whether the artifact shows no nodes.
func (a *Artifact) Empty() bool {
	return errors.Is(errors.Join(a.Notices...), models.ErrEmptyGraph)
}

// Render computes a fresh layout for g, labels every node with metric and
// encodes the scene. metric may be nil. An empty graph is not an error: it
// yields an empty canvas and an ErrEmptyGraph notice. notices carries
// upstream warnings, such as a NoDataWarning, into the artifact.
func Render(ctx context.Context, g *models.Graph, metric *models.Metric, options *OutputOptions, notices ...error) (*Artifact, error) {
	logger := ctxlog.FromContext(ctx)
	if options == nil {
		options = NewDefaultOptions("svg")
	}
	if options.Width <= 0 || options.Height <= 0 {
		defaults := NewDefaultOptions(options.Format)
		sized := *options
		if sized.Width <= 0 {
			sized.Width = defaults.Width
		}
		if sized.Height <= 0 {
			sized.Height = defaults.Height
		}
		options = &sized
	}
	if g == nil {
		g = models.NewGraph()
	}

	format := strings.ToLower(options.Format)
	if format == "" {
		format = "svg"
	}
	renderer, err := GetRenderer(format)
	if err != nil {
		return nil, err
	}

	scene := &Scene{
		Title:   Title(metric),
		Graph:   g,
		Notices: append([]error(nil), notices...),
	}
	if g.NodeCount() == 0 {
		logger.Warn("nothing to lay out", "title", scene.Title)
		scene.Notices = append(scene.Notices, models.ErrEmptyGraph)
		scene.Layout = models.Layout{}
		scene.Labels = map[models.VertexID]string{}
	} else {
		alg := physics.GetLayoutAlgorithm(options.Layout, options.Noise)
		bounds := physics.Bounds{Width: options.Width, Height: options.Height}
		start := time.Now()
		scene.Layout = physics.Run(ctx, alg, g, bounds, options.MaxIterations)
		logger.Debug("layout computed",
			"algorithm", alg.GetName(),
			"nodes", g.NodeCount(),
			"edges", g.EdgeCount(),
			"elapsed", time.Since(start))
		scene.Labels = Labels(g, metric)
	}

	data, err := renderer.Render(scene, options)
	if err != nil {
		return nil, fmt.Errorf("rendering failed: %w", err)
	}

	return &Artifact{
		ID:          uuid.New(),
		Title:       scene.Title,
		Format:      format,
		ContentType: renderer.ContentType(),
		Data:        data,
		Layout:      scene.Layout,
		Labels:      scene.Labels,
		Notices:     scene.Notices,
		CreatedAt:   time.Now(),
	}, nil
}
