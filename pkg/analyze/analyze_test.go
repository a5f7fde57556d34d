package analyze

import (
	"math"
	"reflect"
	"testing"

	"github.com/lheinlen/opinionmap/pkg/ballot"
	"github.com/lheinlen/opinionmap/pkg/errors"
	"github.com/lheinlen/opinionmap/pkg/geometry"
)

func TestValidateShape(t *testing.T) {
	tests := []struct {
		name         string
		res          *Result
		participants int
		wantErr      bool
	}{
		{
			name: "matching shape",
			res: &Result{
				Points:   []geometry.Point{{X: 1}, {X: 2}},
				Clusters: []int{0, 1},
			},
			participants: 2,
		},
		{
			name: "point count mismatch",
			res: &Result{
				Points:   []geometry.Point{{X: 1}},
				Clusters: []int{0, 1},
			},
			participants: 2,
			wantErr:      true,
		},
		{
			name: "cluster count mismatch",
			res: &Result{
				Points:   []geometry.Point{{X: 1}, {X: 2}},
				Clusters: []int{0},
			},
			participants: 2,
			wantErr:      true,
		},
		{
			name:         "nil result",
			res:          nil,
			participants: 2,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShape(tt.res, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateShape() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeAnalyzerShape) {
				t.Errorf("error code = %v, want ANALYZER_SHAPE", errors.GetCode(err))
			}
		})
	}
}

func TestEngineAnalyzeShape(t *testing.T) {
	votes := ballot.Matrix{
		{1, -1, 1},
		{1, 1, 1},
		{-1, -1, -1},
		{-1, 1, -1},
	}
	statements := []string{"s1", "s2", "s3"}

	res, err := NewEngine().Analyze(votes, statements)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if err := ValidateShape(res, len(votes)); err != nil {
		t.Fatalf("engine broke its own contract: %v", err)
	}
}

func TestEngineDeterministic(t *testing.T) {
	votes := ballot.Matrix{
		{1, 1, -1, -1},
		{1, 1, -1, 1},
		{-1, -1, 1, 1},
		{-1, -1, 1, -1},
		{1, -1, -1, -1},
	}
	statements := []string{"s1", "s2", "s3", "s4"}

	first, err := NewEngine().Analyze(votes, statements)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	second, err := NewEngine().Analyze(votes, statements)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if !reflect.DeepEqual(first.Clusters, second.Clusters) {
		t.Errorf("cluster labels differ across runs: %v vs %v", first.Clusters, second.Clusters)
	}
	for i := range first.Points {
		if first.Points[i] != second.Points[i] {
			t.Errorf("point %d differs across runs: %v vs %v", i, first.Points[i], second.Points[i])
		}
	}
}

func TestEngineSeparatesOpposedBlocs(t *testing.T) {
	// Two blocs voting in perfect opposition must land in different clusters.
	votes := ballot.Matrix{
		{1, 1, 1, 1},
		{1, 1, 1, -1},
		{1, 1, -1, 1},
		{-1, -1, -1, -1},
		{-1, -1, -1, 1},
		{-1, -1, 1, -1},
	}
	statements := []string{"s1", "s2", "s3", "s4"}

	res, err := NewEngine().Analyze(votes, statements)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if res.Clusters[0] != res.Clusters[1] || res.Clusters[1] != res.Clusters[2] {
		t.Errorf("agree bloc split across clusters: %v", res.Clusters[:3])
	}
	if res.Clusters[3] != res.Clusters[4] || res.Clusters[4] != res.Clusters[5] {
		t.Errorf("disagree bloc split across clusters: %v", res.Clusters[3:])
	}
	if res.Clusters[0] == res.Clusters[3] {
		t.Errorf("opposed blocs merged into one cluster: %v", res.Clusters)
	}
}

func TestEngineLabelsStartAtZero(t *testing.T) {
	votes := ballot.Matrix{
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1}, {1, 1},
	}
	res, err := NewEngine().Analyze(votes, []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if res.Clusters[0] != 0 {
		t.Errorf("first label = %d, want 0 (labels numbered by first appearance)", res.Clusters[0])
	}
	seen := map[int]bool{}
	maxLabel := 0
	for _, l := range res.Clusters {
		seen[l] = true
		if l > maxLabel {
			maxLabel = l
		}
	}
	for l := 0; l <= maxLabel; l++ {
		if !seen[l] {
			t.Errorf("label %d unused but %d is, labels not contiguous", l, maxLabel)
		}
	}
}

func TestEngineTinyInputs(t *testing.T) {
	tests := []struct {
		name  string
		votes ballot.Matrix
	}{
		{name: "one participant", votes: ballot.Matrix{{1, -1}}},
		{name: "two participants", votes: ballot.Matrix{{1, -1}, {-1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewEngine().Analyze(tt.votes, []string{"s1", "s2"})
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			for i, l := range res.Clusters {
				if l != 0 {
					t.Errorf("label[%d] = %d, want 0 for tiny input", i, l)
				}
			}
		})
	}
}

func TestEngineEmptyMatrix(t *testing.T) {
	_, err := NewEngine().Analyze(ballot.Matrix{}, nil)
	if err == nil {
		t.Fatal("Analyze() error = nil, want INVALID_INPUT")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestEngineRaggedMatrix(t *testing.T) {
	votes := ballot.Matrix{{1, -1}, {1}}
	_, err := NewEngine().Analyze(votes, []string{"s1", "s2"})
	if !errors.Is(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("error = %v, want code SHAPE_MISMATCH", err)
	}
}

func TestEngineProjectionCapturesVariance(t *testing.T) {
	// Identical rows project to identical points; opposed rows to opposed
	// points on the first axis.
	votes := ballot.Matrix{
		{1, 1, 1},
		{1, 1, 1},
		{-1, -1, -1},
	}
	res, err := NewEngine().Analyze(votes, []string{"s1", "s2", "s3"})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if res.Points[0] != res.Points[1] {
		t.Errorf("identical rows projected apart: %v vs %v", res.Points[0], res.Points[1])
	}
	if math.Signbit(res.Points[0].X) == math.Signbit(res.Points[2].X) {
		t.Errorf("opposed rows on same side of first axis: %v vs %v", res.Points[0], res.Points[2])
	}
}
