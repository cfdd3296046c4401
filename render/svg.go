package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/TFMV/graphlens/models"
)

// SVGRenderer outputs SVG format
type SVGRenderer struct{}

// Name returns the name of the renderer
func (r *SVGRenderer) Name() string {
	return "SVG Renderer"
}

// ContentType returns the MIME type of SVG documents
func (r *SVGRenderer) ContentType() string {
	return "image/svg+xml"
}

// Render creates an SVG representation of the scene
func (r *SVGRenderer) Render(scene *Scene, options *OutputOptions) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%g" height="%g" viewBox="0 0 %g %g" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, options.Width, options.Height, options.Width, options.Height, options.Background)

	fmt.Fprintf(&buf, `<defs>
  <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5"
      markerWidth="6" markerHeight="6" orient="auto-start-reverse">
    <path d="M0,0 L10,5 L0,10 z" fill="%s"/>
  </marker>
</defs>
`, options.EdgeColor)

	fmt.Fprintf(&buf, `<text x="%g" y="%g" font-family="sans-serif" font-size="%g" fill="#222222" text-anchor="middle">%s</text>
`, options.Width/2, options.FontSize*2, options.FontSize*1.6, html.EscapeString(scene.Title))

	radius := options.NodeSize

	// Draw edges first so markers sit on top of them
	for _, edge := range scene.Graph.Edges {
		from, ok1 := scene.Layout[edge.Source]
		to, ok2 := scene.Layout[edge.Target]
		if !ok1 || !ok2 {
			continue
		}

		if edge.Source == edge.Target {
			// Self-loop drawn as a small arc above the marker
			fmt.Fprintf(&buf, `<path d="M%g,%g a%g,%g 0 1,1 %g,0" fill="none" stroke="%s" stroke-width="1" marker-end="url(#arrow)"/>
`, from.X-radius*0.6, from.Y-radius*0.8, radius*0.6, radius*0.8, radius*1.2, options.EdgeColor)
			continue
		}

		// Stop the line at the target's rim so the arrow head stays visible
		dx, dy := to.X-from.X, to.Y-from.Y
		distance := math.Hypot(dx, dy)
		ux, uy := 0.0, 0.0
		if distance > 2*radius {
			ux, uy = dx/distance, dy/distance
		}
		fmt.Fprintf(&buf, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1" marker-end="url(#arrow)"/>
`, from.X+ux*radius, from.Y+uy*radius, to.X-ux*radius, to.Y-uy*radius, options.EdgeColor)
	}

	// Draw nodes in graph order
	for _, node := range scene.Graph.Nodes {
		pos, ok := scene.Layout[node.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, `<circle cx="%.2f" cy="%.2f" r="%g" fill="%s" stroke="rgba(0,0,0,0.3)" stroke-width="0.5"/>
`, pos.X, pos.Y, radius, options.NodeColor)
		writeLabel(&buf, scene.Labels[node.ID], pos, options.FontSize)
	}

	if scene.Graph.NodeCount() == 0 {
		fmt.Fprintf(&buf, `<text x="%g" y="%g" font-family="sans-serif" font-size="%g" fill="#808080" text-anchor="middle">%s</text>
`, options.Width/2, options.Height/2, options.FontSize*1.4, html.EscapeString(models.ErrEmptyGraph.Error()))
	}

	// Notices stack up from the bottom left corner
	y := options.Height - 5
	if options.Timestamp {
		fmt.Fprintf(&buf, `<text x="5" y="%g" font-family="sans-serif" font-size="8" fill="#808080">%s</text>
`, y, time.Now().Format("2006-01-02 15:04:05"))
		y -= 12
	}
	for _, notice := range scene.Notices {
		if notice == models.ErrEmptyGraph {
			continue
		}
		fmt.Fprintf(&buf, `<text x="5" y="%g" font-family="sans-serif" font-size="%g" fill="#b35900">%s</text>
`, y, options.FontSize, html.EscapeString(notice.Error()))
		y -= options.FontSize + 2
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// writeLabel centres a possibly multi-line label inside a node marker.
func writeLabel(buf *bytes.Buffer, label string, pos models.Position, fontSize float64) {
	if label == "" {
		return
	}
	lines := strings.Split(label, "\n")
	top := pos.Y - float64(len(lines)-1)*fontSize/2
	fmt.Fprintf(buf, `<text x="%.2f" y="%.2f" font-family="sans-serif" font-size="%g" fill="#000000" text-anchor="middle" dominant-baseline="middle">`,
		pos.X, top, fontSize)
	for i, line := range lines {
		dy := 0.0
		if i > 0 {
			dy = fontSize
		}
		fmt.Fprintf(buf, `<tspan x="%.2f" dy="%g">%s</tspan>`, pos.X, dy, html.EscapeString(line))
	}
	buf.WriteString("</text>\n")
}
