// Package cli implements the opinionmap command-line interface.
//
// The tool takes a single survey file (YAML or TOML) and renders an opinion
// map next to it: participants projected onto two dimensions, clustered, and
// drawn as a scatter plot with buffered cluster boundaries. The CLI is built
// using cobra and logs via the charmbracelet/log library.
//
// # Usage
//
//	opinionmap survey.yaml
//
// The artifact is written alongside the input with the extension swapped for
// the output format (survey.png).
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with
// values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the opinionmap CLI and returns an error if the run fails.
// This is the main entry point for the CLI application.
//
// The root command is the plot command itself: it takes exactly one survey
// file argument and accepts no flags beyond cobra's built-in --help and
// --version. A logger is attached to the context and flows through the
// pipeline for structured progress output.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd builds the root command. Split out from Execute so tests can
// drive the command with their own argument lists.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "opinionmap [survey-file]",
		Short:        "Opinionmap charts survey opinions as clustered scatter plots",
		Long:         `Opinionmap reads a survey document of statements and votes, projects participants onto a two-dimensional opinion space, groups them into clusters, and renders the result as a scatter plot with buffered cluster boundaries.`,
		Version:      version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, charmlog.InfoLevel))
			cmd.SetContext(ctx)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd.Context(), args[0])
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("opinionmap %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	return root
}
