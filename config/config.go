// Package config loads graphlens settings.
//
// Settings come from a YAML file, then environment overrides, then command
// line flags applied by the caller. Config file locations (priority order):
//  1. the -config flag
//  2. $GRAPHLENS_CONFIG
//  3. ./graphlens.yaml
//
// Without a file the defaults are used.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TFMV/graphlens/render"
	"github.com/TFMV/graphlens/store"
)

// Config is the complete application configuration.
type Config struct {
	Neo4j  Neo4jConfig  `yaml:"neo4j"`
	Render RenderConfig `yaml:"render"`
	Layout LayoutConfig `yaml:"layout"`
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// Neo4jConfig holds the graph store connection.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RenderConfig holds the defaults for produced artifacts.
type RenderConfig struct {
	Format     string  `yaml:"format"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Background string  `yaml:"background"`
	NodeColor  string  `yaml:"node_color"`
	EdgeColor  string  `yaml:"edge_color"`
	NodeSize   float64 `yaml:"node_size"`
	FontSize   float64 `yaml:"font_size"`
	Timestamp  bool    `yaml:"timestamp"`
}

// LayoutConfig selects and tunes the layout algorithm.
type LayoutConfig struct {
	Algorithm     string  `yaml:"algorithm"`
	MaxIterations int     `yaml:"max_iterations"`
	Noise         float64 `yaml:"noise"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig controls the HTTP front end.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	opts := render.NewDefaultOptions("svg")
	return &Config{
		Neo4j: Neo4jConfig{
			URI:      "bolt://localhost:7687",
			Username: "neo4j",
			Database: "neo4j",
		},
		Render: RenderConfig{
			Format:     opts.Format,
			Width:      opts.Width,
			Height:     opts.Height,
			Background: opts.Background,
			NodeColor:  opts.NodeColor,
			EdgeColor:  opts.EdgeColor,
			NodeSize:   opts.NodeSize,
			FontSize:   opts.FontSize,
			Timestamp:  opts.Timestamp,
		},
		Layout: LayoutConfig{
			Algorithm:     opts.Layout,
			MaxIterations: opts.MaxIterations,
		},
		Log:    LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{Port: 8080},
	}
}

// FindConfigPath returns the first existing config file, or "".
func FindConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv("GRAPHLENS_CONFIG"); env != "" {
		return env
	}
	if _, err := os.Stat("graphlens.yaml"); err == nil {
		return "graphlens.yaml"
	}
	return ""
}

// Load reads the config file at path (defaults when path is empty) and
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides the Neo4j connection from the environment so that
// credentials stay out of config files.
func (c *Config) applyEnv() {
	for env, field := range map[string]*string{
		"GRAPHLENS_NEO4J_URI":      &c.Neo4j.URI,
		"GRAPHLENS_NEO4J_USER":     &c.Neo4j.Username,
		"GRAPHLENS_NEO4J_PASSWORD": &c.Neo4j.Password,
		"GRAPHLENS_NEO4J_DATABASE": &c.Neo4j.Database,
	} {
		if v, ok := os.LookupEnv(env); ok {
			*field = v
		}
	}
}

// Validate checks the settings that would otherwise fail mid-request.
func (c *Config) Validate() error {
	var errs []error
	if _, err := render.GetRenderer(c.Render.Format); err != nil {
		errs = append(errs, err)
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render dimensions must be positive, got %gx%g", c.Render.Width, c.Render.Height))
	}
	switch c.Layout.Algorithm {
	case "force", "circle", "noise":
	default:
		errs = append(errs, fmt.Errorf("unknown layout algorithm %q", c.Layout.Algorithm))
	}
	if c.Layout.Noise < 0 || c.Layout.Noise > 1 {
		errs = append(errs, fmt.Errorf("layout noise must be within [0, 1], got %g", c.Layout.Noise))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

// StoreOptions returns the connection settings for the store package.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		URI:      c.Neo4j.URI,
		Username: c.Neo4j.Username,
		Password: c.Neo4j.Password,
		Database: c.Neo4j.Database,
	}
}

// OutputOptions returns the rendering defaults.
func (c *Config) OutputOptions() *render.OutputOptions {
	return &render.OutputOptions{
		Format:        c.Render.Format,
		Width:         c.Render.Width,
		Height:        c.Render.Height,
		Background:    c.Render.Background,
		NodeColor:     c.Render.NodeColor,
		EdgeColor:     c.Render.EdgeColor,
		NodeSize:      c.Render.NodeSize,
		FontSize:      c.Render.FontSize,
		Timestamp:     c.Render.Timestamp,
		Layout:        c.Layout.Algorithm,
		Noise:         c.Layout.Noise,
		MaxIterations: c.Layout.MaxIterations,
	}
}
