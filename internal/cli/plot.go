package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/lheinlen/opinionmap/pkg/errors"
	"github.com/lheinlen/opinionmap/pkg/pipeline"
)

// runPlot executes the full pipeline for a single survey file and prints the
// outcome. Rendering options stay at their defaults; the CLI's only input is
// the survey path.
func runPlot(ctx context.Context, input string) error {
	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(nil, logger)

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Mapping opinions from %s...", filepath.Base(input)))
	spinner.Start()

	result, err := runner.Run(ctx, input, pipeline.Options{Logger: logger})
	if err != nil {
		spinner.StopWithError("Opinion map failed")
		return fmt.Errorf("plot %s: %w", input, err)
	}
	spinner.Stop()

	for _, gerr := range result.GeometryErrs {
		printWarning("%s", errors.UserMessage(gerr))
	}

	prog.done("Rendered opinion map")
	printFile(result.OutputPath)
	printStats(result.Stats.Participants, result.Stats.Statements, result.Stats.Clusters)

	return nil
}
