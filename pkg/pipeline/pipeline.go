// Package pipeline provides the core rendering pipeline for opinionmap.
//
// This package implements the complete decode → analyze → plot → render
// sequence behind the CLI. Centralizing it keeps the command surface thin and
// lets programmatic callers run the pipeline, or individual stages, directly.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Decode: read the survey document and build the vote matrix
//  2. Analyze: project participants to 2-D and assign cluster labels
//  3. Plot: jitter, viewport, colors, and cluster boundary polygons
//  4. Render: produce PNG (and optionally SVG) artifact bytes
//
// Only this package knows the analyzer exists; everything downstream of stage
// 2 works on plain numeric and geometric data.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, logger) // nil analyzer = built-in engine
//	result, err := runner.Run(ctx, "survey.yaml", pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.OutputPath)
package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Default Values - Single Source of Truth
// =============================================================================

const (
	// DefaultMargin is the outward hull buffer in plot units.
	DefaultMargin = 0.5

	// DefaultJitterSigma is the standard deviation of the display jitter
	// in plot units.
	DefaultJitterSigma = 0.1

	// DefaultSeed seeds the jitter noise source for reproducible output.
	DefaultSeed = uint64(42)

	// DefaultDPI is the raster resolution of the PNG artifact.
	DefaultDPI = 300

	// DefaultWidth and DefaultHeight are the figure dimensions in layout
	// units (pixels at 100 DPI).
	DefaultWidth  = 1200.0
	DefaultHeight = 800.0
)

// Format constants for output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG: true,
	FormatSVG: true,
}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for the rendering pipeline.
type Options struct {
	// Margin is the hull buffer distance. Zero means DefaultMargin.
	Margin float64

	// JitterSigma is the display jitter noise level. Zero means
	// DefaultJitterSigma; a negative value disables jitter entirely,
	// which deterministic tests want.
	JitterSigma float64

	// Seed seeds the jitter noise source. Zero means DefaultSeed.
	Seed uint64

	// Width and Height are figure dimensions in layout units.
	Width  float64
	Height float64

	// DPI is the PNG raster resolution.
	DPI int

	// Formats lists the artifact formats to render. Empty means PNG only.
	// The first format is the primary artifact.
	Formats []string

	// Logger receives stage progress. Nil discards.
	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults. It is
// idempotent: calling it twice has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Margin < 0 {
		return fmt.Errorf("margin must be positive, got %v", o.Margin)
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.JitterSigma == 0 {
		o.JitterSigma = DefaultJitterSigma
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	o.Formats = normalizeFormats(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// sigma returns the effective jitter level; negative settings mean none.
func (o *Options) sigma() float64 {
	if o.JitterSigma < 0 {
		return 0
	}
	return o.JitterSigma
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: png, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// normalizeFormats lowercases and trims format names, preserving order.
func normalizeFormats(formats []string) []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return out
}
