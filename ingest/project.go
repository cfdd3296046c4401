package ingest

import (
	"github.com/TFMV/graphlens/models"
)

// Projection is the metric-specific view of a query result.
type Projection struct {
	Metric models.Metric

	// View holds the records whose metric column is non-null. It backs
	// the per-metric results table.
	View []models.Record

	// Records holds every input record. Vertices without a value still
	// contribute nodes and edges to the drawn graph and are labelled N/A.
	Records []models.Record

	// Warning is set when no record carries the metric at all.
	Warning *models.NoDataWarning
}

// Project selects the column required by metric.
func Project(records []models.Record, metric models.Metric) Projection {
	p := Projection{
		Metric:  metric,
		View:    []models.Record{},
		Records: records,
	}
	for _, rec := range records {
		if rec.Has(metric) {
			p.View = append(p.View, rec)
		}
	}
	if len(p.View) == 0 {
		p.Warning = &models.NoDataWarning{Metric: metric}
	}
	return p
}

// Row is one line of the per-metric results table.
type Row struct {
	Source models.VertexID `json:"source"`
	Value  any             `json:"value"`
}

// Table flattens the view into (source, value) rows for display.
func (p Projection) Table() []Row {
	rows := make([]Row, 0, len(p.View))
	for _, rec := range p.View {
		if rec.Source == nil {
			continue
		}
		var attrs models.Attributes
		attrs.Merge(rec)
		v, _ := attrs.Value(p.Metric)
		rows = append(rows, Row{Source: *rec.Source, Value: v})
	}
	return rows
}
