package sink

import (
	"bytes"
	"fmt"

	"github.com/lheinlen/opinionmap/pkg/plot"
)

// RenderSVG writes the figure as standalone SVG markup. Geometry matches the
// PNG sink exactly; only the surface differs.
func RenderSVG(fig *plot.Figure, opts ...Option) []byte {
	r := newRenderer(opts...)
	f := newFrame(fig.Viewport, r.width, r.height, 1)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="white"/>`+"\n", r.width, r.height)

	svgGrid(&buf, f)
	svgHulls(&buf, f, fig)
	svgMarkers(&buf, f, fig)
	svgLabels(&buf, f, fig)
	svgDecorations(&buf, f, fig, r)
	svgLegend(&buf, f, fig)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func svgGrid(buf *bytes.Buffer, f frame) {
	buf.WriteString(`  <g stroke="#808080" stroke-opacity="0.7" stroke-width="1" stroke-dasharray="4 4">` + "\n")
	for _, t := range ticks(f.viewport.MinX, f.viewport.MaxX, 8) {
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", f.x(t), f.top, f.x(t), f.bottom())
	}
	for _, t := range ticks(f.viewport.MinY, f.viewport.MaxY, 6) {
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", f.left, f.y(t), f.right(), f.y(t))
	}
	buf.WriteString("  </g>\n")
}

func svgHulls(buf *bytes.Buffer, f frame, fig *plot.Figure) {
	for _, series := range fig.Series {
		if series.Boundary == nil {
			continue
		}
		fmt.Fprintf(buf, `  <polygon fill="%s" fill-opacity="%.2f" points="`, series.Color.Hex(), hullAlpha)
		for i, v := range series.Boundary {
			if i > 0 {
				buf.WriteByte(' ')
			}
			x, y := f.project(v)
			fmt.Fprintf(buf, "%.2f,%.2f", x, y)
		}
		buf.WriteString(`"/>` + "\n")
	}
}

func svgMarkers(buf *bytes.Buffer, f frame, fig *plot.Figure) {
	for _, series := range fig.Series {
		fmt.Fprintf(buf, `  <g fill="%s" fill-opacity="%.2f">`+"\n", series.Color.Hex(), markerAlpha)
		for _, idx := range series.Members {
			x, y := f.project(fig.Points[idx])
			fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.1f"/>`+"\n", x, y, markerRadius)
		}
		buf.WriteString("  </g>\n")
	}
}

func svgLabels(buf *bytes.Buffer, f frame, fig *plot.Figure) {
	buf.WriteString(`  <g font-family="sans-serif" font-size="11" fill="#1a1a1a">` + "\n")
	for i, p := range fig.Points {
		x, y := f.project(p)
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f">%s</text>`+"\n",
			x+labelOffset, y-labelOffset, escapeText(fig.Participants[i]))
	}
	buf.WriteString("  </g>\n")
}

func svgDecorations(buf *bytes.Buffer, f frame, fig *plot.Figure, r renderer) {
	fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#333333" stroke-width="1.5"/>`+"\n",
		f.left, f.top, f.plotW, f.plotH)

	buf.WriteString(`  <g font-family="sans-serif" font-size="11" fill="#333333">` + "\n")
	for _, t := range ticks(f.viewport.MinX, f.viewport.MaxX, 8) {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="middle">%s</text>`+"\n",
			f.x(t), f.bottom()+18, tickLabel(t))
	}
	for _, t := range ticks(f.viewport.MinY, f.viewport.MaxY, 6) {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="end" dominant-baseline="middle">%s</text>`+"\n",
			f.left-8, f.y(t), tickLabel(t))
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="19" text-anchor="middle">%s</text>`+"\n",
		f.left+f.plotW/2, marginTop/2+6, escapeText(plot.Title))
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="14" text-anchor="middle">%s</text>`+"\n",
		f.left+f.plotW/2, r.height-14, escapeText(plot.XLabel))
	fmt.Fprintf(buf, `  <text x="22" y="%.2f" font-family="sans-serif" font-size="14" text-anchor="middle" transform="rotate(-90 22 %.2f)">%s</text>`+"\n",
		f.top+f.plotH/2, f.top+f.plotH/2, escapeText(plot.YLabel))
}

func svgLegend(buf *bytes.Buffer, f frame, fig *plot.Figure) {
	entries := legendEntries(fig)
	if len(entries) == 0 {
		return
	}

	const (
		rowHeight = 22.0
		padding   = 10.0
		swatch    = 6.0
		charWidth = 7.0 // sans-serif estimate at font-size 12
	)

	var maxLen int
	for _, e := range entries {
		if len(e.label) > maxLen {
			maxLen = len(e.label)
		}
	}

	boxW := float64(maxLen)*charWidth + padding*2 + swatch*2 + 8
	boxH := float64(len(entries))*rowHeight + padding
	boxX := f.right() - boxW - 12
	boxY := f.top + 12

	fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="white" fill-opacity="0.85" stroke="#4d4d4d"/>`+"\n",
		boxX, boxY, boxW, boxH)
	for i, e := range entries {
		rowY := boxY + padding/2 + rowHeight*float64(i) + rowHeight/2
		fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s"/>`+"\n",
			boxX+padding+swatch, rowY, swatch, e.color.Hex())
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" font-family="sans-serif" font-size="12" dominant-baseline="middle">%s</text>`+"\n",
			boxX+padding+swatch*2+8, rowY, escapeText(e.label))
	}
}

// escapeText escapes the characters SVG text content cannot carry raw.
func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
