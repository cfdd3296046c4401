// Package server exposes graph and metric selection over HTTP and serves
// the rendered artifacts.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/TFMV/graphlens/ctxlog"
	"github.com/TFMV/graphlens/ingest"
	"github.com/TFMV/graphlens/models"
	"github.com/TFMV/graphlens/pipeline"
	"github.com/TFMV/graphlens/render"
)

// NoticeHeader carries recoverable warnings alongside an artifact.
const NoticeHeader = "X-Graphlens-Notice"

// Server handles HTTP requests. Every request runs its own pipeline pass.
type Server struct {
	svc    *pipeline.Service
	logger *slog.Logger
	mux    *http.ServeMux
}

// New creates a server backed by svc.
func New(svc *pipeline.Service, logger *slog.Logger) *Server {
	s := &Server{svc: svc, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /visualize", s.handleVisualize)
	s.mux.HandleFunc("GET /api/graphs", s.handleAPIGraphs)
	s.mux.HandleFunc("GET /api/view", s.handleAPIView)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := ctxlog.WithLogger(r.Context(), s.logger.With("method", r.Method, "path", r.URL.Path))
	s.mux.ServeHTTP(w, r.WithContext(ctx))
}

// Start listens on port until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, port int, handler http.Handler) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		ctxlog.FromContext(ctx).Info("starting server", "port", port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>graphlens</title></head>
<body>
<h1>Graph analytics from Neo4j</h1>
<p>Explore precomputed algorithm results on stored graphs.</p>
{{if .Error}}<p style="color:#b00">{{.Error}}</p>{{end}}
{{if .Graphs}}
<form action="/visualize" method="get">
  <label>Algorithm
    <select name="metric">{{range .Metrics}}<option>{{.}}</option>{{end}}</select>
  </label>
  <label>Graph
    <select name="graph">{{range .Graphs}}<option>{{.}}</option>{{end}}</select>
  </label>
  <label>Format
    <select name="format"><option>svg</option><option>json</option><option>dot</option></select>
  </label>
  <button type="submit">Visualize</button>
</form>
{{else if not .Error}}<p style="color:#b35900">No graph available in the database.</p>{{end}}
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Graphs  []string
		Metrics []string
		Error   string
	}{}
	for _, m := range models.Metrics {
		data.Metrics = append(data.Metrics, m.String())
	}

	graphs, err := s.svc.Graphs(r.Context())
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("listing graphs failed", "error", err)
		data.Error = "The graph database is unavailable."
	}
	data.Graphs = graphs

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		ctxlog.FromContext(r.Context()).Error("rendering index failed", "error", err)
	}
}

func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseRequest(w, r)
	if !ok {
		return
	}
	req.Format = r.URL.Query().Get("format")
	if req.Format != "" {
		if _, err := render.GetRenderer(req.Format); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	res, err := s.svc.Visualize(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	for _, notice := range res.Warnings {
		w.Header().Add(NoticeHeader, notice.Error())
	}
	w.Header().Set("Content-Type", res.Artifact.ContentType)
	w.Header().Set("X-Graphlens-Artifact", res.Artifact.ID.String())
	if _, err := w.Write(res.Artifact.Data); err != nil {
		ctxlog.FromContext(r.Context()).Warn("writing artifact failed", "error", err)
	}
}

func (s *Server) handleAPIGraphs(w http.ResponseWriter, r *http.Request) {
	graphs, err := s.svc.Graphs(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if graphs == nil {
		graphs = []string{}
	}
	writeJSON(w, r, map[string]any{"graphs": graphs})
}

// viewResponse is the per-metric results table of a graph.
type viewResponse struct {
	Graph    string       `json:"graph"`
	Metric   string       `json:"metric"`
	Column   string       `json:"column"`
	Rows     []ingest.Row `json:"rows"`
	Warnings []string     `json:"warnings"`
}

func (s *Server) handleAPIView(w http.ResponseWriter, r *http.Request) {
	req, ok := s.parseRequest(w, r)
	if !ok {
		return
	}
	if req.Metric == nil {
		http.Error(w, "Missing metric", http.StatusBadRequest)
		return
	}
	res, err := s.svc.Project(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := viewResponse{
		Graph:    req.Graph,
		Metric:   req.Metric.String(),
		Column:   req.Metric.Column(),
		Rows:     res.Projection.Table(),
		Warnings: []string{},
	}
	for _, warning := range res.Warnings {
		resp.Warnings = append(resp.Warnings, warning.Error())
	}
	writeJSON(w, r, resp)
}

// parseRequest reads the graph and optional metric selection.
func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, bool) {
	q := r.URL.Query()
	req := pipeline.Request{Graph: strings.TrimSpace(q.Get("graph"))}
	if req.Graph == "" {
		http.Error(w, "Missing graph", http.StatusBadRequest)
		return req, false
	}
	if name := q.Get("metric"); name != "" {
		m, err := models.ParseMetric(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return req, false
		}
		req.Metric = &m
	}
	return req, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := ctxlog.FromContext(r.Context())
	switch {
	case pipeline.IsUserError(err):
		logger.Warn("invalid graph data", "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, context.Canceled):
		logger.Info("request cancelled")
	default:
		logger.Error("request failed", "error", err)
		http.Error(w, "Graph database request failed", http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.FromContext(r.Context()).Warn("encoding response failed", "error", err)
	}
}
