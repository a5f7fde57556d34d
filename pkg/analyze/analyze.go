// Package analyze defines the opinion-analysis capability boundary and a
// default implementation of it.
//
// The rendering pipeline only ever sees the [Analyzer] interface: a single
// operation that reduces the vote matrix to 2-D points and assigns each
// participant a cluster label. Alternative projection or clustering strategies
// can be substituted without touching any other package. The pipeline trusts
// an analyzer's numbers; it verifies only the structural contract, namely that
// the output rows line up 1:1 with the vote matrix rows.
package analyze

import (
	"github.com/lheinlen/opinionmap/pkg/ballot"
	"github.com/lheinlen/opinionmap/pkg/errors"
	"github.com/lheinlen/opinionmap/pkg/geometry"
)

// Result is the analyzer output. Points and Clusters are parallel to the vote
// matrix rows: Points[i] and Clusters[i] belong to participant row i.
type Result struct {
	Points   []geometry.Point
	Clusters []int
}

// Analyzer reduces a vote matrix to two dimensions and partitions the
// participants into clusters.
type Analyzer interface {
	Analyze(votes ballot.Matrix, statements []string) (*Result, error)
}

// ValidateShape checks the structural analyzer contract against the
// participant count. It does not judge the analysis itself.
func ValidateShape(res *Result, participants int) error {
	if res == nil {
		return errors.New(errors.ErrCodeAnalyzerShape, "analyzer returned no result")
	}
	if len(res.Points) != participants {
		return errors.New(errors.ErrCodeAnalyzerShape,
			"analyzer returned %d points for %d participants", len(res.Points), participants)
	}
	if len(res.Clusters) != participants {
		return errors.New(errors.ErrCodeAnalyzerShape,
			"analyzer returned %d cluster labels for %d participants", len(res.Clusters), participants)
	}
	return nil
}
