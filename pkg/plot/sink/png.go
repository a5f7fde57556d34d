package sink

import (
	"bytes"
	"math"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"

	"github.com/lheinlen/opinionmap/pkg/errors"
	"github.com/lheinlen/opinionmap/pkg/plot"
)

// Font sizes in layout units.
const (
	fontSizeTitle  = 19.0
	fontSizeAxis   = 14.0
	fontSizeTick   = 11.0
	fontSizeLabel  = 11.0
	fontSizeLegend = 12.0
)

// fontPath is resolved once per process. An empty result means no usable
// system font was found and gg falls back to its built-in bitmap face.
var fontPath = sync.OnceValue(func() string {
	for _, name := range []string{"DejaVuSans.ttf", "Arial.ttf", "Helvetica.ttf", "FreeSans.ttf", "LiberationSans-Regular.ttf"} {
		if path, err := findfont.Find(name); err == nil {
			return path
		}
	}
	return ""
})

// RenderPNG rasterizes the figure. The resolution comes from WithDPI
// (default 300): the layout is defined at 100 DPI, so the default produces a
// 3x supersampled image. The gg context is local to this call and garbage
// collected with it, so repeated renders never accumulate drawing state.
func RenderPNG(fig *plot.Figure, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	s := float64(r.dpi) / 100

	dc := gg.NewContext(int(math.Round(r.width*s)), int(math.Round(r.height*s)))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	f := newFrame(fig.Viewport, r.width, r.height, s)

	drawGrid(dc, f, s)
	drawHulls(dc, f, fig)
	drawMarkers(dc, f, fig, s)
	drawLabels(dc, f, fig, s)
	drawDecorations(dc, f, fig, r, s)
	drawLegend(dc, f, fig, s)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func setFont(dc *gg.Context, size float64) {
	if path := fontPath(); path != "" {
		// Best effort; the built-in face remains on failure.
		_ = dc.LoadFontFace(path, size)
	}
}

func setColor(dc *gg.Context, c plot.Color) {
	dc.SetRGBA(c.R, c.G, c.B, c.Alpha)
}

func drawGrid(dc *gg.Context, f frame, s float64) {
	dc.SetRGBA(0.5, 0.5, 0.5, 0.7)
	dc.SetLineWidth(1 * s)
	dc.SetDash(4*s, 4*s)

	for _, t := range ticks(f.viewport.MinX, f.viewport.MaxX, 8) {
		dc.DrawLine(f.x(t), f.top, f.x(t), f.bottom())
		dc.Stroke()
	}
	for _, t := range ticks(f.viewport.MinY, f.viewport.MaxY, 6) {
		dc.DrawLine(f.left, f.y(t), f.right(), f.y(t))
		dc.Stroke()
	}
	dc.SetDash()
}

func drawHulls(dc *gg.Context, f frame, fig *plot.Figure) {
	for _, series := range fig.Series {
		if series.Boundary == nil {
			continue
		}
		dc.NewSubPath()
		for i, v := range series.Boundary {
			x, y := f.project(v)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		setColor(dc, series.Color.WithAlpha(hullAlpha))
		dc.Fill()
	}
}

func drawMarkers(dc *gg.Context, f frame, fig *plot.Figure, s float64) {
	for _, series := range fig.Series {
		setColor(dc, series.Color.WithAlpha(markerAlpha))
		for _, idx := range series.Members {
			x, y := f.project(fig.Points[idx])
			dc.DrawCircle(x, y, markerRadius*s)
			dc.Fill()
		}
	}
}

func drawLabels(dc *gg.Context, f frame, fig *plot.Figure, s float64) {
	setFont(dc, fontSizeLabel*s)
	dc.SetRGB(0.1, 0.1, 0.1)
	for i, p := range fig.Points {
		x, y := f.project(p)
		// Offset right and up so the label clears the marker; image y
		// grows downward, hence the subtraction.
		dc.DrawStringAnchored(fig.Participants[i], x+labelOffset*s, y-labelOffset*s, 0, 1)
	}
}

func drawDecorations(dc *gg.Context, f frame, fig *plot.Figure, r renderer, s float64) {
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(1.5 * s)
	dc.DrawRectangle(f.left, f.top, f.plotW, f.plotH)
	dc.Stroke()

	setFont(dc, fontSizeTick*s)
	for _, t := range ticks(f.viewport.MinX, f.viewport.MaxX, 8) {
		dc.DrawStringAnchored(tickLabel(t), f.x(t), f.bottom()+6*s, 0.5, 1)
	}
	for _, t := range ticks(f.viewport.MinY, f.viewport.MaxY, 6) {
		dc.DrawStringAnchored(tickLabel(t), f.left-8*s, f.y(t), 1, 0.5)
	}

	setFont(dc, fontSizeTitle*s)
	dc.DrawStringAnchored(plot.Title, f.left+f.plotW/2, marginTop*s/2, 0.5, 0.5)

	setFont(dc, fontSizeAxis*s)
	dc.DrawStringAnchored(plot.XLabel, f.left+f.plotW/2, r.height*s-18*s, 0.5, 0.5)

	dc.Push()
	dc.RotateAbout(-math.Pi/2, 22*s, f.top+f.plotH/2)
	dc.DrawStringAnchored(plot.YLabel, 22*s, f.top+f.plotH/2, 0.5, 0.5)
	dc.Pop()
}

func drawLegend(dc *gg.Context, f frame, fig *plot.Figure, s float64) {
	entries := legendEntries(fig)
	if len(entries) == 0 {
		return
	}

	const (
		rowHeight = 22.0
		padding   = 10.0
		swatch    = 6.0
	)

	setFont(dc, fontSizeLegend*s)
	var maxWidth float64
	for _, e := range entries {
		if w, _ := dc.MeasureString(e.label); w > maxWidth {
			maxWidth = w
		}
	}

	boxW := maxWidth + (padding*2+swatch*2+8)*s
	boxH := (float64(len(entries))*rowHeight + padding) * s
	boxX := f.right() - boxW - 12*s
	boxY := f.top + 12*s

	dc.SetRGBA(1, 1, 1, 0.85)
	dc.DrawRectangle(boxX, boxY, boxW, boxH)
	dc.Fill()
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.SetLineWidth(1 * s)
	dc.DrawRectangle(boxX, boxY, boxW, boxH)
	dc.Stroke()

	for i, e := range entries {
		rowY := boxY + (padding/2+rowHeight*float64(i)+rowHeight/2)*s
		setColor(dc, e.color)
		dc.DrawCircle(boxX+(padding+swatch)*s, rowY, swatch*s)
		dc.Fill()
		dc.SetRGB(0.1, 0.1, 0.1)
		dc.DrawStringAnchored(e.label, boxX+(padding+swatch*2+8)*s, rowY, 0, 0.5)
	}
}
