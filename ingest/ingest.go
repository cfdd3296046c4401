// Package ingest turns flat query rows into the attributed graph that the
// renderer draws.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/TFMV/graphlens/models"
)

// RecordFromMap decodes one untyped row keyed by the query column names.
// Unknown keys are ignored. A null or missing source is left nil so that
// Assemble can reject it. Metric values of the wrong shape are dropped and
// described in the returned notes.
func RecordFromMap(row map[string]any) (models.Record, []string) {
	var rec models.Record
	var notes []string

	if id, ok := models.VertexIDFrom(row[models.ColumnSource]); ok {
		rec.Source = &id
	}
	if id, ok := models.VertexIDFrom(row[models.ColumnTarget]); ok {
		rec.Target = &id
	}

	if v, ok := row[models.ColumnPageRank]; ok && v != nil {
		if f, ok := toFloat(v); ok {
			rec.PageRank = &f
		} else {
			notes = append(notes, fmt.Sprintf("source %s: non-numeric pagerank %v ignored", sourceOf(rec), v))
		}
	}
	if id, ok := models.ComponentIDFrom(row[models.ColumnComponent]); ok {
		rec.Component = &id
	}
	if v, ok := row[models.ColumnTriangleCount]; ok && v != nil {
		if n, ok := toInt(v); ok {
			rec.TriangleCount = &n
		} else {
			notes = append(notes, fmt.Sprintf("source %s: non-integral triangle_count %v ignored", sourceOf(rec), v))
		}
	}

	return rec, notes
}

// DecodeRecords parses a JSON array of row objects, the offline
// counterpart of a graph store query. Numbers keep their literal text so
// that integer ids beyond float64 precision stay distinct.
func DecodeRecords(data []byte) ([]models.Record, []string, error) {
	var rows []map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&rows); err != nil {
		return nil, nil, fmt.Errorf("error parsing JSON records: %w", err)
	}

	records := make([]models.Record, 0, len(rows))
	var notes []string
	for _, row := range rows {
		rec, n := RecordFromMap(row)
		records = append(records, rec)
		notes = append(notes, n...)
	}
	return records, notes, nil
}

func sourceOf(r models.Record) string {
	if r.Source == nil {
		return "<missing>"
	}
	return string(*r.Source)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}
