package ballot

import (
	"github.com/lheinlen/opinionmap/pkg/errors"
)

// Matrix is the numeric vote matrix: rows are participants in document order,
// columns are statements in document order.
type Matrix [][]float64

// Vote values for the fixed token lexicon. Any token that is neither "agree"
// nor "disagree" counts as neutral, including the empty string.
const (
	VoteAgree    = 1.0
	VoteDisagree = -1.0
	VoteNeutral  = 0.0
)

// VoteValue maps a single vote token to its numeric value.
func VoteValue(token string) float64 {
	switch token {
	case "agree":
		return VoteAgree
	case "disagree":
		return VoteDisagree
	default:
		return VoteNeutral
	}
}

// Build converts a decoded document into the vote matrix plus the parallel
// statement and participant id lists. It is a pure transformation: the
// document is not modified and the returned structures share no storage
// with it.
//
// A participant whose vote list length differs from the statement count is a
// malformed-input condition. Correspondence between votes and statements
// cannot be guessed, so Build fails instead of padding or truncating.
func Build(doc *Document) (statements []string, matrix Matrix, participants []string, err error) {
	statements = append([]string(nil), doc.Statements...)

	matrix = make(Matrix, 0, len(doc.Participants))
	participants = make([]string, 0, len(doc.Participants))

	for _, p := range doc.Participants {
		if len(p.Votes) != len(statements) {
			return nil, nil, nil, errors.New(errors.ErrCodeShapeMismatch,
				"participant %q has %d votes for %d statements", p.ID, len(p.Votes), len(statements))
		}
		row := make([]float64, len(p.Votes))
		for i, token := range p.Votes {
			row[i] = VoteValue(token)
		}
		matrix = append(matrix, row)
		participants = append(participants, p.ID)
	}

	return statements, matrix, participants, nil
}
