// Package plot assembles the opinion-cluster figure from analyzer output.
//
// This is display-side logic only: jittering overlapping markers apart,
// fitting a padded viewport, assigning each cluster a deterministic color, and
// collecting the per-cluster boundary polygons. The resulting [Figure] is a
// plain value that a sink (see pkg/plot/sink) turns into PNG or SVG bytes.
package plot

import (
	"math/rand"
	"sort"

	"github.com/lheinlen/opinionmap/pkg/geometry"
)

// Figure defaults.
const (
	// DefaultPadding expands each viewport axis by this fraction of its
	// span, on both ends, so extreme markers never touch the frame.
	DefaultPadding = 0.2

	// Title and axis labels of the rendered figure.
	Title  = "Opinion Clusters"
	XLabel = "First Principal Component"
	YLabel = "Second Principal Component"
)

// Series is one cluster's renderable state: its label, display color, member
// indices, and boundary polygon (nil for clusters of fewer than three
// members or degenerate geometry).
type Series struct {
	Label    int
	Color    Color
	Members  []int // indices into Figure.Points
	Boundary geometry.Polygon
}

// Figure is the fully laid-out plot, ready for a sink.
type Figure struct {
	Points       []geometry.Point // jittered display positions, row order
	Clusters     []int            // cluster label per point
	Participants []string         // participant id per point
	Series       []Series         // one per distinct label, ascending
	Viewport     Viewport
}

// Viewport is the data-coordinate extent of the plot area.
type Viewport struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// SpanX returns the horizontal extent.
func (v Viewport) SpanX() float64 { return v.MaxX - v.MinX }

// SpanY returns the vertical extent.
func (v Viewport) SpanY() float64 { return v.MaxY - v.MinY }

// Contains reports whether p lies inside the viewport.
func (v Viewport) Contains(p geometry.Point) bool {
	return p.X >= v.MinX && p.X <= v.MaxX && p.Y >= v.MinY && p.Y <= v.MaxY
}

// FitViewport computes the viewport for a point set: the coordinate min/max
// per axis, expanded outward by pad times that axis's span on both ends.
// An axis with zero span (all points aligned, or a single point) gets a unit
// half-span instead, so the viewport is never empty.
func FitViewport(points []geometry.Point, pad float64) Viewport {
	if len(points) == 0 {
		return Viewport{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}
	}

	v := Viewport{
		MinX: points[0].X, MaxX: points[0].X,
		MinY: points[0].Y, MaxY: points[0].Y,
	}
	for _, p := range points[1:] {
		v.MinX = min(v.MinX, p.X)
		v.MaxX = max(v.MaxX, p.X)
		v.MinY = min(v.MinY, p.Y)
		v.MaxY = max(v.MaxY, p.Y)
	}

	padX := v.SpanX() * pad
	if padX == 0 {
		padX = 1
	}
	padY := v.SpanY() * pad
	if padY == 0 {
		padY = 1
	}
	v.MinX -= padX
	v.MaxX += padX
	v.MinY -= padY
	v.MaxY += padY
	return v
}

// Jitter returns a copy of points with independent zero-mean Gaussian noise of
// the given standard deviation added to each coordinate. The rng is injected
// so callers control determinism; sigma 0 returns an exact copy. The input is
// never modified, and jittered coordinates exist for display positioning only.
func Jitter(points []geometry.Point, sigma float64, rng *rand.Rand) []geometry.Point {
	out := make([]geometry.Point, len(points))
	copy(out, points)
	if sigma == 0 {
		return out
	}
	for i := range out {
		out[i].X += rng.NormFloat64() * sigma
		out[i].Y += rng.NormFloat64() * sigma
	}
	return out
}

// BuildFigure lays out the display figure from jittered points and cluster
// labels. Cluster colors are sampled from the palette by normalized rank among
// the sorted distinct labels, and each cluster with at least three members
// gets a buffered boundary polygon.
//
// Degenerate clusters (three or more members collapsed onto a line or point)
// do not abort the figure: their boundary stays nil and the coded error is
// returned alongside the figure for the caller to surface.
func BuildFigure(points []geometry.Point, clusters []int, participants []string, margin float64) (*Figure, []error) {
	fig := &Figure{
		Points:       points,
		Clusters:     clusters,
		Participants: participants,
		Viewport:     FitViewport(points, DefaultPadding),
	}

	labels := distinctLabels(clusters)
	var geomErrs []error
	for rank, label := range labels {
		s := Series{
			Label: label,
			Color: ClusterColor(rank, len(labels)),
		}
		for i, l := range clusters {
			if l == label {
				s.Members = append(s.Members, i)
			}
		}

		member := make([]geometry.Point, len(s.Members))
		for i, idx := range s.Members {
			member[i] = points[idx]
		}
		boundary, err := geometry.Boundary(member, margin)
		if err != nil {
			geomErrs = append(geomErrs, err)
		}
		s.Boundary = boundary

		fig.Series = append(fig.Series, s)
	}

	return fig, geomErrs
}

// distinctLabels returns the sorted distinct cluster labels. Sorting makes
// the rank→color assignment independent of point order.
func distinctLabels(clusters []int) []int {
	seen := make(map[int]bool)
	var labels []int
	for _, l := range clusters {
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	sort.Ints(labels)
	return labels
}
