package sink

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/lheinlen/opinionmap/pkg/geometry"
	"github.com/lheinlen/opinionmap/pkg/plot"
)

func testFigure(t *testing.T) *plot.Figure {
	t.Helper()
	points := []geometry.Point{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 2},
		{X: 8, Y: 8}, {X: 9, Y: 8},
	}
	clusters := []int{0, 0, 0, 1, 1}
	participants := []string{"alice", "bob", "carol", "dave", "erin"}

	fig, geomErrs := plot.BuildFigure(points, clusters, participants, 0.5)
	if len(geomErrs) != 0 {
		t.Fatalf("unexpected geometry errors: %v", geomErrs)
	}
	return fig
}

func TestRenderPNGDimensions(t *testing.T) {
	fig := testFigure(t)

	data, err := RenderPNG(fig, WithSize(400, 300), WithDPI(100))
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 400 || bounds.Dy() != 300 {
		t.Errorf("image size = %dx%d, want 400x300", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderPNGDPIScales(t *testing.T) {
	fig := testFigure(t)

	data, err := RenderPNG(fig, WithSize(200, 100), WithDPI(300))
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 600 || bounds.Dy() != 300 {
		t.Errorf("image size = %dx%d, want 600x300 at 300 DPI", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderPNGDeterministic(t *testing.T) {
	fig := testFigure(t)

	first, err := RenderPNG(fig, WithSize(400, 300), WithDPI(100))
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}
	second, err := RenderPNG(fig, WithSize(400, 300), WithDPI(100))
	if err != nil {
		t.Fatalf("RenderPNG() error = %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("identical figures rendered to different PNG bytes")
	}
}

func TestRenderSVGContent(t *testing.T) {
	fig := testFigure(t)
	svg := string(RenderSVG(fig))

	for _, want := range []string{
		"<svg", "</svg>",
		plot.Title, plot.XLabel, plot.YLabel,
		"Cluster 0", "Cluster 1",
		"stroke-dasharray",
		"alice", "erin",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}

	// One hull polygon: cluster 0 has three members, cluster 1 only two.
	if got := strings.Count(svg, "<polygon"); got != 1 {
		t.Errorf("polygon count = %d, want 1", got)
	}
}

func TestRenderSVGEscapesLabels(t *testing.T) {
	points := []geometry.Point{{X: 0, Y: 0}}
	fig, _ := plot.BuildFigure(points, []int{0}, []string{"a<b&c"}, 0.5)

	svg := string(RenderSVG(fig))
	if strings.Contains(svg, "a<b&c") {
		t.Error("unescaped participant id in SVG output")
	}
	if !strings.Contains(svg, "a&lt;b&amp;c") {
		t.Error("escaped participant id missing from SVG output")
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		target int
	}{
		{name: "unit range", lo: 0, hi: 1, target: 5},
		{name: "negative range", lo: -3.7, hi: 2.2, target: 8},
		{name: "large range", lo: -120, hi: 480, target: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ticks(tt.lo, tt.hi, tt.target)
			if len(got) < 2 {
				t.Fatalf("ticks(%v, %v) = %v, want at least 2", tt.lo, tt.hi, got)
			}
			for i, tick := range got {
				if tick < tt.lo || tick > tt.hi {
					t.Errorf("tick %d (%v) outside [%v, %v]", i, tick, tt.lo, tt.hi)
				}
			}
			for i := 1; i < len(got); i++ {
				if got[i] <= got[i-1] {
					t.Errorf("ticks not strictly increasing: %v", got)
				}
			}
		})
	}
}

func TestTicksEmptySpan(t *testing.T) {
	if got := ticks(1, 1, 5); got != nil {
		t.Errorf("ticks on empty span = %v, want nil", got)
	}
}

func TestNiceStep(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{0.7, 1},
		{1.3, 2},
		{3.4, 5},
		{7.2, 10},
		{0.013, 0.02},
		{42, 50},
	}

	for _, tt := range tests {
		if got := niceStep(tt.raw); got != tt.want {
			t.Errorf("niceStep(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
