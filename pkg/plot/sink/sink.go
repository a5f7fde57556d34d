// Package sink renders a laid-out figure to output bytes.
//
// Two sinks exist: a PNG raster sink drawn with fogleman/gg at print
// resolution, and an SVG sink that writes the markup directly. Both consume
// the same [plot.Figure] and share the frame math in this file, so the two
// formats agree pixel-for-pixel on where everything sits.
package sink

import (
	"fmt"
	"math"

	"github.com/lheinlen/opinionmap/pkg/geometry"
	"github.com/lheinlen/opinionmap/pkg/plot"
)

// Render defaults, in layout units (1 unit = 1 pixel at 100 DPI).
const (
	DefaultWidth  = 1200.0
	DefaultHeight = 800.0
	DefaultDPI    = 300

	marginLeft   = 80.0
	marginRight  = 24.0
	marginTop    = 48.0
	marginBottom = 64.0

	markerRadius = 6.0
	labelOffset  = 5.0 // participant label displacement, right and up
	hullAlpha    = 0.2
	markerAlpha  = 0.6
)

// Option configures a sink.
type Option func(*renderer)

// WithSize overrides the figure dimensions in layout units.
func WithSize(width, height float64) Option {
	return func(r *renderer) { r.width, r.height = width, height }
}

// WithDPI sets the raster resolution (PNG only; SVG is resolution-free).
func WithDPI(dpi int) Option {
	return func(r *renderer) { r.dpi = dpi }
}

type renderer struct {
	width  float64
	height float64
	dpi    int
}

func newRenderer(opts ...Option) renderer {
	r := renderer{width: DefaultWidth, height: DefaultHeight, dpi: DefaultDPI}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// frame maps data coordinates into the figure's plot rectangle. The y axis
// flips: data y grows upward, image y grows downward.
type frame struct {
	viewport plot.Viewport
	left     float64
	top      float64
	plotW    float64
	plotH    float64
}

// newFrame builds the mapping for a width×height figure. scale multiplies
// every device measure; the SVG sink passes 1, the PNG sink its DPI factor.
func newFrame(v plot.Viewport, width, height, scale float64) frame {
	return frame{
		viewport: v,
		left:     marginLeft * scale,
		top:      marginTop * scale,
		plotW:    (width - marginLeft - marginRight) * scale,
		plotH:    (height - marginTop - marginBottom) * scale,
	}
}

func (f frame) x(dataX float64) float64 {
	return f.left + (dataX-f.viewport.MinX)/f.viewport.SpanX()*f.plotW
}

func (f frame) y(dataY float64) float64 {
	return f.top + (f.viewport.MaxY-dataY)/f.viewport.SpanY()*f.plotH
}

func (f frame) project(p geometry.Point) (float64, float64) {
	return f.x(p.X), f.y(p.Y)
}

func (f frame) right() float64  { return f.left + f.plotW }
func (f frame) bottom() float64 { return f.top + f.plotH }

// ticks returns tick positions covering [lo, hi] at a round step size,
// aiming for roughly target intervals.
func ticks(lo, hi float64, target int) []float64 {
	span := hi - lo
	if span <= 0 || target < 1 {
		return nil
	}

	step := niceStep(span / float64(target))
	var out []float64
	for t := math.Ceil(lo/step) * step; t <= hi+step*1e-9; t += step {
		// Snap near-zero ticks to exactly zero so labels print "0".
		if math.Abs(t) < step*1e-9 {
			t = 0
		}
		out = append(out, t)
	}
	return out
}

// niceStep rounds raw up to the nearest 1, 2, or 5 times a power of ten.
func niceStep(raw float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

// tickLabel formats a tick value without trailing noise.
func tickLabel(t float64) string {
	if t == math.Trunc(t) && math.Abs(t) < 1e6 {
		return fmt.Sprintf("%.0f", t)
	}
	return fmt.Sprintf("%.2g", t)
}

// legendEntry is one legend row.
type legendEntry struct {
	label string
	color plot.Color
}

func legendEntries(fig *plot.Figure) []legendEntry {
	entries := make([]legendEntry, 0, len(fig.Series))
	for _, s := range fig.Series {
		entries = append(entries, legendEntry{
			label: fmt.Sprintf("Cluster %d", s.Label),
			color: s.Color,
		})
	}
	return entries
}
