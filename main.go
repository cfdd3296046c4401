package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/TFMV/graphlens/config"
	"github.com/TFMV/graphlens/ctxlog"
	"github.com/TFMV/graphlens/models"
	"github.com/TFMV/graphlens/pipeline"
	"github.com/TFMV/graphlens/server"
)

// Options are the command-line settings layered over the config file.
type Options struct {
	Mode       string
	ConfigPath string
	Records    string
	Graph      string
	Metric     string
	Format     string
	OutputFile string
	Port       int
	Layout     string
	Noise      float64
	Iterations int
	Width      float64
	Height     float64
	Debug      bool
}

func main() {
	// Create a context that is canceled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, set, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.FindConfigPath(opts.ConfigPath))
	if err != nil {
		return err
	}
	applyOptions(cfg, opts, set)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := ctxlog.New(stderr, cfg.Log.Format, cfg.Log.Level)
	ctx = ctxlog.WithLogger(ctx, logger)

	// Offline records replace the graph database entirely.
	open := pipeline.Neo4jOpener(cfg.StoreOptions())
	if opts.Records != "" {
		open = pipeline.FileOpener(opts.Records)
	}
	svc := pipeline.NewService(open, cfg.OutputOptions())

	switch opts.Mode {
	case "server":
		return server.Start(ctx, cfg.Server.Port, server.New(svc, logger))
	case "list":
		return listGraphs(ctx, svc, stdout)
	case "render":
		return renderGraph(ctx, svc, opts, stdout)
	default:
		return fmt.Errorf("unknown mode %q (want render, list or server)", opts.Mode)
	}
}

// parseOptions parses command-line flags. The returned set records which
// flags were given explicitly so that only those override the config file.
func parseOptions(args []string, stderr io.Writer) (*Options, map[string]bool, error) {
	opts := &Options{}
	fs := flag.NewFlagSet("graphlens", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Basic options
	fs.StringVar(&opts.Mode, "mode", "render", "Mode: render, list, server")
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config file")
	fs.StringVar(&opts.Records, "records", "", "Read records from a JSON file instead of Neo4j")
	fs.StringVar(&opts.Graph, "graph", "", "Name of the graph to render")
	fs.StringVar(&opts.Metric, "metric", "PageRank", "Metric: PageRank, Connected Components, Triangle Count")
	fs.StringVar(&opts.OutputFile, "output", "", "Path to output file (defaults to 'output.[format]')")

	// Visualization options
	fs.StringVar(&opts.Format, "format", "", "Output format: svg, json, dot")
	fs.IntVar(&opts.Port, "port", 0, "Port for server mode")
	fs.StringVar(&opts.Layout, "layout", "", "Layout algorithm: force, circle, noise")
	fs.Float64Var(&opts.Noise, "noise", 0, "Intensity of layout noise (0.0-1.0)")
	fs.IntVar(&opts.Iterations, "iterations", 0, "Maximum iterations for the layout simulation")
	fs.Float64Var(&opts.Width, "width", 0, "Width of the visualization")
	fs.Float64Var(&opts.Height, "height", 0, "Height of the visualization")

	// Advanced options
	fs.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return opts, set, nil
}

func applyOptions(cfg *config.Config, opts *Options, set map[string]bool) {
	if set["format"] {
		cfg.Render.Format = opts.Format
	}
	if set["port"] {
		cfg.Server.Port = opts.Port
	}
	if set["layout"] {
		cfg.Layout.Algorithm = opts.Layout
	}
	if set["noise"] {
		cfg.Layout.Noise = opts.Noise
	}
	if set["iterations"] {
		cfg.Layout.MaxIterations = opts.Iterations
	}
	if set["width"] {
		cfg.Render.Width = opts.Width
	}
	if set["height"] {
		cfg.Render.Height = opts.Height
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
}

func listGraphs(ctx context.Context, svc *pipeline.Service, stdout io.Writer) error {
	names, err := svc.Graphs(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		ctxlog.FromContext(ctx).Warn("no graph available in the database")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
	return nil
}

// renderGraph runs one pass, prints the per-metric table and writes the
// artifact to disk.
func renderGraph(ctx context.Context, svc *pipeline.Service, opts *Options, stdout io.Writer) error {
	if opts.Graph == "" {
		return errors.New("please provide a graph using the -graph flag")
	}
	metric, err := models.ParseMetric(opts.Metric)
	if err != nil {
		return err
	}

	res, err := svc.Visualize(ctx, pipeline.Request{Graph: opts.Graph, Metric: &metric, Format: opts.Format})
	if err != nil {
		return err
	}

	logger := ctxlog.FromContext(ctx)
	for _, warning := range res.Warnings {
		logger.Warn(warning.Error(), "graph", opts.Graph)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", models.ColumnSource, metric.Column())
	for _, row := range res.Projection.Table() {
		fmt.Fprintf(tw, "%s\t%v\n", row.Source, row.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	output := opts.OutputFile
	if output == "" {
		output = "output." + res.Artifact.Format
	}
	if err := os.WriteFile(output, res.Artifact.Data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	logger.Info("processing complete", "output", output, "artifact", res.Artifact.ID)
	return nil
}
