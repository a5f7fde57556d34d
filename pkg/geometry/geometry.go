// Package geometry computes cluster boundary polygons for the opinion plot.
//
// The boundary of a cluster is the convex hull of its member points, pushed
// outward from the hull centroid by a fixed margin. The raw hull touches its
// extreme points exactly, which crams the markers against the outline; the
// buffered hull gives every cluster the same visual breathing room regardless
// of its size or shape.
package geometry

import (
	"math"
	"sort"

	"github.com/lheinlen/opinionmap/pkg/errors"
)

// Point is a position in plot coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is a closed ring of points. A well-formed polygon repeats its first
// vertex as its last.
type Polygon []Point

// Closed reports whether the polygon's first and last vertices coincide.
func (p Polygon) Closed() bool {
	return len(p) >= 4 && p[0] == p[len(p)-1]
}

// Centroid returns the arithmetic mean of the given points.
// Returns the zero point for an empty slice.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range points {
		c.X += p.X
		c.Y += p.Y
	}
	c.X /= float64(len(points))
	c.Y /= float64(len(points))
	return c
}

// cross returns the z-component of (b-a) x (c-a). Positive means the turn
// a→b→c is counter-clockwise.
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// ConvexHull returns the convex hull of points in counter-clockwise order
// using Andrew's monotone chain. Collinear points on a hull edge are not
// included as vertices. The input slice is not modified.
//
// Degenerate inputs (all points coincident or collinear) yield fewer than
// three vertices; callers decide whether that is an error.
func ConvexHull(points []Point) []Point {
	pts := make([]Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	// Drop exact duplicates so a stack of identical points does not
	// masquerade as a polygon.
	uniq := pts[:0]
	for _, p := range pts {
		if len(uniq) == 0 || p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq

	if len(pts) < 3 {
		return pts
	}

	var lower []Point
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []Point
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	// Each chain's last point is the first point of the other chain.
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// Boundary computes the buffered hull polygon for one cluster's points.
//
// Clusters with fewer than three members have no boundary and return
// (nil, nil): there is nothing meaningful to outline. Clusters with three or
// more members whose points are coincident or collinear return a
// DEGENERATE_CLUSTER error, since a cluster that collapses to a line signals
// pathological analyzer output and must not be skipped silently.
//
// Otherwise each hull vertex is offset outward from the hull centroid by
// margin, and the ring is closed by repeating the first offset vertex.
// The input slice is never modified.
func Boundary(points []Point, margin float64) (Polygon, error) {
	if len(points) < 3 {
		return nil, nil
	}

	hull := ConvexHull(points)
	if len(hull) < 3 {
		return nil, errors.New(errors.ErrCodeDegenerateCluster,
			"cluster of %d points is collinear or coincident, no hull exists", len(points))
	}

	centroid := Centroid(hull)
	buffered := make(Polygon, 0, len(hull)+1)
	for _, v := range hull {
		dx := v.X - centroid.X
		dy := v.Y - centroid.Y
		length := math.Hypot(dx, dy)
		// A hull vertex cannot coincide with the centroid of a proper
		// hull, but guard the division anyway.
		if length == 0 {
			buffered = append(buffered, v)
			continue
		}
		buffered = append(buffered, Point{
			X: v.X + dx/length*margin,
			Y: v.Y + dy/length*margin,
		})
	}
	buffered = append(buffered, buffered[0])
	return buffered, nil
}
