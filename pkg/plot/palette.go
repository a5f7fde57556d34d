package plot

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a display color with an alpha channel, since both hull fills and
// markers render translucent.
type Color struct {
	colorful.Color
	Alpha float64
}

// WithAlpha returns the color with a different alpha.
func (c Color) WithAlpha(a float64) Color {
	return Color{Color: c.Color, Alpha: a}
}

// viridisStops anchors the viridis colormap. Intermediate samples blend
// between neighboring stops in Luv space, keeping the ramp perceptually
// uniform the way the reference colormap is.
var viridisStops = []colorful.Color{
	mustHex("#440154"),
	mustHex("#3b528b"),
	mustHex("#21918c"),
	mustHex("#5ec962"),
	mustHex("#fde725"),
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Sample returns the palette color at position t in [0, 1]. Values outside
// the range clamp to the ends.
func Sample(t float64) Color {
	if t <= 0 {
		return Color{Color: viridisStops[0], Alpha: 1}
	}
	if t >= 1 {
		return Color{Color: viridisStops[len(viridisStops)-1], Alpha: 1}
	}

	scaled := t * float64(len(viridisStops)-1)
	i := int(scaled)
	frac := scaled - float64(i)
	return Color{Color: viridisStops[i].BlendLuv(viridisStops[i+1], frac).Clamped(), Alpha: 1}
}

// ClusterColor maps a cluster's rank among all distinct labels to its display
// color. The mapping is an explicit function of (rank, total), never of map
// iteration order, so colors reproduce across runs and platforms.
func ClusterColor(rank, total int) Color {
	if total <= 0 {
		return Sample(0)
	}
	return Sample(float64(rank) / float64(total))
}
