package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lheinlen/opinionmap/pkg/analyze"
	"github.com/lheinlen/opinionmap/pkg/ballot"
	"github.com/lheinlen/opinionmap/pkg/errors"
	artifactio "github.com/lheinlen/opinionmap/pkg/io"
	"github.com/lheinlen/opinionmap/pkg/plot"
	"github.com/lheinlen/opinionmap/pkg/plot/sink"
)

// Runner executes the rendering pipeline. It is the only component aware of
// the analyzer's existence, and holds no per-run state: one Runner can serve
// many inputs in sequence with nothing carried over between them.
type Runner struct {
	Analyzer analyze.Analyzer
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil analyzer selects the built-in engine;
// a nil logger selects log.Default().
func NewRunner(a analyze.Analyzer, logger *log.Logger) *Runner {
	if a == nil {
		a = analyze.NewEngine()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Analyzer: a, Logger: logger}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// OutputPath is the primary artifact's path, empty when the figure was
	// displayed interactively instead of written.
	OutputPath string

	// Artifacts holds the rendered bytes keyed by format.
	Artifacts map[string][]byte

	// GeometryErrs collects per-cluster boundary failures. The run still
	// succeeds; callers decide how loudly to surface these.
	GeometryErrs []error

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Participants int
	Statements   int
	Clusters     int
	DecodeTime   time.Duration
	AnalyzeTime  time.Duration
	RenderTime   time.Duration
}

// Run executes the complete pipeline for one input document and writes the
// artifact(s) next to it. Malformed input fails here before the analyzer is
// ever consulted.
func (r *Runner) Run(ctx context.Context, inputPath string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Decode
	decodeStart := time.Now()
	doc, err := ballot.DecodeFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	statements, matrix, participants, err := ballot.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("build matrix: %w", err)
	}
	result.Stats.DecodeTime = time.Since(decodeStart)
	result.Stats.Participants = len(participants)
	result.Stats.Statements = len(statements)

	opts.Logger.Info("built vote matrix",
		"participants", len(participants),
		"statements", len(statements),
		"duration", result.Stats.DecodeTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Analyze
	analyzeStart := time.Now()
	res, err := r.Analyzer.Analyze(matrix, statements)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	if err := analyze.ValidateShape(res, len(participants)); err != nil {
		return nil, err
	}
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.Stats.Clusters = countClusters(res.Clusters)

	opts.Logger.Info("analyzed opinions",
		"clusters", result.Stats.Clusters,
		"duration", result.Stats.AnalyzeTime)

	// Stage 3 + 4: Plot and render
	renderStart := time.Now()
	fig, geomErrs := r.BuildFigure(res, participants, opts)
	result.GeometryErrs = geomErrs
	for _, gerr := range geomErrs {
		opts.Logger.Warn("cluster boundary skipped", "err", errors.UserMessage(gerr))
	}

	artifacts, err := r.Render(fig, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered figure",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	// Persist, primary format first.
	for _, format := range opts.Formats {
		path := OutputPath(inputPath, format)
		if err := artifactio.WriteArtifact(path, artifacts[format]); err != nil {
			return nil, err
		}
		if result.OutputPath == "" {
			result.OutputPath = path
		}
		opts.Logger.Info("wrote artifact", "path", path, "bytes", len(artifacts[format]))
	}

	return result, nil
}

// BuildFigure runs the display stage: jitter then layout. Jitter is the only
// randomness in the pipeline and it is confined here, seeded from the options.
func (r *Runner) BuildFigure(res *analyze.Result, participants []string, opts Options) (*plot.Figure, []error) {
	rng := rand.New(rand.NewSource(int64(opts.Seed)))
	jittered := plot.Jitter(res.Points, opts.sigma(), rng)
	return plot.BuildFigure(jittered, res.Clusters, participants, opts.Margin)
}

// Render produces artifact bytes for every requested format.
func (r *Runner) Render(fig *plot.Figure, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatPNG:
			data, err := sink.RenderPNG(fig,
				sink.WithSize(opts.Width, opts.Height),
				sink.WithDPI(opts.DPI))
			if err != nil {
				return nil, err
			}
			artifacts[format] = data
		case FormatSVG:
			artifacts[format] = sink.RenderSVG(fig, sink.WithSize(opts.Width, opts.Height))
		default:
			return nil, ValidateFormat(format)
		}
	}
	return artifacts, nil
}

// Show renders the primary format and hands it to the platform viewer. This
// is the programmatic fallback when no output path exists to write to.
func (r *Runner) Show(fig *plot.Figure, opts Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	artifacts, err := r.Render(fig, opts)
	if err != nil {
		return err
	}
	primary := opts.Formats[0]
	return artifactio.ShowArtifact(artifacts[primary], "."+primary)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// countClusters counts distinct labels.
func countClusters(labels []int) int {
	seen := make(map[int]bool)
	for _, l := range labels {
		seen[l] = true
	}
	return len(seen)
}
