package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Metric is one of the precomputed analytics results stored per vertex.
type Metric int

const (
	PageRank Metric = iota + 1
	ConnectedComponents
	TriangleCount
)

// Metrics lists every supported metric in display order.
var Metrics = []Metric{PageRank, ConnectedComponents, TriangleCount}

// Column names returned by the upstream query.
const (
	ColumnSource        = "source"
	ColumnTarget        = "target"
	ColumnPageRank      = "pagerank"
	ColumnComponent     = "component"
	ColumnTriangleCount = "triangle_count"
)

// ParseMetric resolves a display name ("Connected Components") or a column
// name ("component") to a Metric.
func ParseMetric(name string) (Metric, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, m := range Metrics {
		if key == strings.ToLower(m.String()) || key == m.Column() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", name)
}

// String returns the display name of the metric.
func (m Metric) String() string {
	switch m {
	case PageRank:
		return "PageRank"
	case ConnectedComponents:
		return "Connected Components"
	case TriangleCount:
		return "Triangle Count"
	}
	return "Metric(" + strconv.Itoa(int(m)) + ")"
}

// Column returns the name of the query column holding the metric.
func (m Metric) Column() string {
	switch m {
	case PageRank:
		return ColumnPageRank
	case ConnectedComponents:
		return ColumnComponent
	case TriangleCount:
		return ColumnTriangleCount
	}
	return ""
}

// Tag returns the short label prefix used when drawing the metric.
func (m Metric) Tag() string {
	switch m {
	case PageRank:
		return "PR"
	case ConnectedComponents:
		return "CC"
	case TriangleCount:
		return "TC"
	}
	return "?"
}

// Value returns the attribute value for the metric, if present.
func (a Attributes) Value(m Metric) (any, bool) {
	switch m {
	case PageRank:
		if a.PageRank != nil {
			return *a.PageRank, true
		}
	case ConnectedComponents:
		if a.Component != nil {
			return *a.Component, true
		}
	case TriangleCount:
		if a.TriangleCount != nil {
			return *a.TriangleCount, true
		}
	}
	return nil, false
}

// Merge copies every attribute present on r into a. Later values win.
func (a *Attributes) Merge(r Record) {
	if r.PageRank != nil {
		a.PageRank = Ptr(*r.PageRank)
	}
	if r.Component != nil {
		a.Component = Ptr(*r.Component)
	}
	if r.TriangleCount != nil {
		a.TriangleCount = Ptr(*r.TriangleCount)
	}
}

// Empty reports whether no attribute has been supplied.
func (a Attributes) Empty() bool {
	return a.PageRank == nil && a.Component == nil && a.TriangleCount == nil
}
