package analyze

import (
	"math"

	"github.com/lheinlen/opinionmap/pkg/ballot"
	"github.com/lheinlen/opinionmap/pkg/errors"
	"github.com/lheinlen/opinionmap/pkg/geometry"
)

// Engine is the built-in analyzer: mean-centered principal component
// projection onto two axes, followed by k-means clustering with the cluster
// count picked by mean silhouette width.
//
// The engine is fully deterministic for a given matrix. Power iteration
// starts from a fixed vector and k-means seeds centroids with deterministic
// farthest-point selection, so repeated runs on the same input agree exactly.
type Engine struct {
	// MaxClusters caps the candidate cluster counts tried during
	// silhouette selection. Zero means DefaultMaxClusters.
	MaxClusters int

	// Iterations bounds both power iteration and k-means refinement.
	// Zero means DefaultIterations.
	Iterations int
}

const (
	// DefaultMaxClusters is the largest cluster count the engine considers.
	DefaultMaxClusters = 5

	// DefaultIterations bounds the iterative refinement loops.
	DefaultIterations = 100
)

// NewEngine returns an Engine with default settings.
func NewEngine() *Engine {
	return &Engine{MaxClusters: DefaultMaxClusters, Iterations: DefaultIterations}
}

// Analyze implements [Analyzer].
func (e *Engine) Analyze(votes ballot.Matrix, statements []string) (*Result, error) {
	if len(votes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "vote matrix has no participants")
	}
	for i, row := range votes {
		if len(row) != len(statements) {
			return nil, errors.New(errors.ErrCodeShapeMismatch,
				"vote matrix row %d has %d columns for %d statements", i, len(row), len(statements))
		}
	}

	maxClusters := e.MaxClusters
	if maxClusters == 0 {
		maxClusters = DefaultMaxClusters
	}
	iterations := e.Iterations
	if iterations == 0 {
		iterations = DefaultIterations
	}

	points := project(center(votes))
	clusters := cluster(points, maxClusters, iterations)
	return &Result{Points: points, Clusters: clusters}, nil
}

// center subtracts each column's mean, so the projection captures variance in
// opinions rather than their absolute position.
func center(votes ballot.Matrix) ballot.Matrix {
	rows, cols := len(votes), len(votes[0])
	means := make([]float64, cols)
	for _, row := range votes {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(rows)
	}

	centered := make(ballot.Matrix, rows)
	for i, row := range votes {
		centered[i] = make([]float64, cols)
		for j, v := range row {
			centered[i][j] = v - means[j]
		}
	}
	return centered
}

// project maps each centered row onto the first two principal components.
// Components come from power iteration on the covariance structure, with the
// first component deflated out before computing the second. A missing
// component (no variance left) projects to zero on that axis.
func project(centered ballot.Matrix) []geometry.Point {
	first := principalComponent(centered)
	var second []float64
	if first != nil {
		second = principalComponent(deflate(centered, first))
	}

	points := make([]geometry.Point, len(centered))
	for i, row := range centered {
		var p geometry.Point
		if first != nil {
			p.X = dot(row, first)
		}
		if second != nil {
			p.Y = dot(row, second)
		}
		points[i] = p
	}
	return points
}

// principalComponent runs power iteration on Xᵀ·X without materializing the
// covariance matrix. Start vectors are fixed so results are reproducible: the
// normalized all-ones vector first, then each basis vector if the previous
// start collapsed to zero. Returns nil when the matrix has no variance at all.
func principalComponent(m ballot.Matrix) []float64 {
	cols := len(m[0])
	if cols == 0 {
		return nil
	}

	for start := 0; start <= cols; start++ {
		v := make([]float64, cols)
		if start == 0 {
			for j := range v {
				v[j] = 1 / math.Sqrt(float64(cols))
			}
		} else {
			v[start-1] = 1
		}

		v, ok := powerIterate(m, v)
		if ok {
			return v
		}
	}
	return nil
}

// powerIterate refines v toward the dominant eigenvector of Xᵀ·X. It reports
// false if the very first multiply annihilates v, meaning this start vector
// carries no signal.
func powerIterate(m ballot.Matrix, v []float64) ([]float64, bool) {
	next := make([]float64, len(v))
	for iter := 0; iter < DefaultIterations; iter++ {
		// next = Xᵀ·(X·v)
		for j := range next {
			next[j] = 0
		}
		for _, row := range m {
			proj := dot(row, v)
			for j, x := range row {
				next[j] += proj * x
			}
		}

		norm := math.Sqrt(dot(next, next))
		if norm == 0 {
			if iter == 0 {
				return nil, false
			}
			return v, true
		}

		var delta float64
		for j := range next {
			next[j] /= norm
			delta += math.Abs(next[j] - v[j])
		}
		copy(v, next)
		if delta < 1e-10 {
			break
		}
	}
	return v, true
}

// deflate removes the component of each row along axis, leaving the residual
// variance for the next principal component.
func deflate(m ballot.Matrix, axis []float64) ballot.Matrix {
	out := make(ballot.Matrix, len(m))
	for i, row := range m {
		proj := dot(row, axis)
		out[i] = make([]float64, len(row))
		for j, x := range row {
			out[i][j] = x - proj*axis[j]
		}
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// cluster assigns a label to every point. Candidate cluster counts from 2 up
// to min(maxClusters, n-1) are scored by mean silhouette width and the best
// wins; fewer than three points always form a single cluster.
func cluster(points []geometry.Point, maxClusters, iterations int) []int {
	n := len(points)
	if n < 3 {
		return make([]int, n)
	}

	upper := maxClusters
	if upper > n-1 {
		upper = n - 1
	}

	best := make([]int, n) // k=1 fallback
	bestScore := math.Inf(-1)
	for k := 2; k <= upper; k++ {
		labels := kmeans(points, k, iterations)
		score := meanSilhouette(points, labels, k)
		if score > bestScore {
			bestScore = score
			best = labels
		}
	}
	return best
}

// kmeans is Lloyd's algorithm with deterministic farthest-point seeding: the
// first centroid is the point farthest from the data centroid, each further
// centroid the point farthest from all chosen ones.
func kmeans(points []geometry.Point, k, iterations int) []int {
	centroids := seedCentroids(points, k)
	labels := make([]int, len(points))

	for iter := 0; iter < iterations; iter++ {
		changed := false
		for i, p := range points {
			nearest := 0
			bestDist := math.Inf(1)
			for c, ctr := range centroids {
				if d := sqDist(p, ctr); d < bestDist {
					bestDist = d
					nearest = c
				}
			}
			if labels[i] != nearest {
				labels[i] = nearest
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		sums := make([]geometry.Point, k)
		for i, p := range points {
			c := labels[i]
			counts[c]++
			sums[c].X += p.X
			sums[c].Y += p.Y
		}
		for c := range centroids {
			if counts[c] > 0 {
				centroids[c] = geometry.Point{
					X: sums[c].X / float64(counts[c]),
					Y: sums[c].Y / float64(counts[c]),
				}
			}
		}
	}
	return relabel(labels, k)
}

func seedCentroids(points []geometry.Point, k int) []geometry.Point {
	centroids := make([]geometry.Point, 0, k)

	mean := geometry.Centroid(points)
	far, farDist := 0, -1.0
	for i, p := range points {
		if d := sqDist(p, mean); d > farDist {
			farDist = d
			far = i
		}
	}
	centroids = append(centroids, points[far])

	for len(centroids) < k {
		next, nextDist := 0, -1.0
		for i, p := range points {
			// Distance to the closest already-chosen centroid.
			closest := math.Inf(1)
			for _, c := range centroids {
				if d := sqDist(p, c); d < closest {
					closest = d
				}
			}
			if closest > nextDist {
				nextDist = closest
				next = i
			}
		}
		centroids = append(centroids, points[next])
	}
	return centroids
}

// relabel renumbers cluster labels by order of first appearance, so label
// values do not depend on centroid seeding order.
func relabel(labels []int, k int) []int {
	mapping := make([]int, k)
	for i := range mapping {
		mapping[i] = -1
	}
	next := 0
	out := make([]int, len(labels))
	for i, l := range labels {
		if mapping[l] == -1 {
			mapping[l] = next
			next++
		}
		out[i] = mapping[l]
	}
	return out
}

// meanSilhouette scores a labeling by the average silhouette width over all
// points. Points in singleton clusters contribute zero.
func meanSilhouette(points []geometry.Point, labels []int, k int) float64 {
	n := len(points)
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}

	var total float64
	for i, p := range points {
		if counts[labels[i]] < 2 {
			continue
		}

		// Mean distance to each cluster.
		sums := make([]float64, k)
		for j, q := range points {
			if j == i {
				continue
			}
			sums[labels[j]] += math.Sqrt(sqDist(p, q))
		}

		a := sums[labels[i]] / float64(counts[labels[i]]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == labels[i] || counts[c] == 0 {
				continue
			}
			if m := sums[c] / float64(counts[c]); m < b {
				b = m
			}
		}

		if max := math.Max(a, b); max > 0 {
			total += (b - a) / max
		}
	}
	return total / float64(n)
}

func sqDist(a, b geometry.Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
