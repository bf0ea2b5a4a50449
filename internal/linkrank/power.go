package linkrank

import "math"

const (
	// Bored is the probability a surfer abandons the current page and
	// jumps to a uniformly random one.
	Bored = 0.15
	// Epsilon is the L1 distance between successive vectors below which
	// power iteration has converged.
	Epsilon = 1e-4
	// DefaultMaxIterations caps power iteration.
	DefaultMaxIterations = 1000
)

type PowerOptions struct {
	MaxIterations int
}

// PowerResult is the outcome of power iteration. Converged is false when the
// iteration cap stopped the run; Vector is still the last iterate.
type PowerResult struct {
	Vector     []float64
	Iterations int
	Converged  bool
}

// PowerIteration starts from all mass on id 0 and repeatedly applies the
// random surfer transition until successive vectors differ by less than
// Epsilon in L1 distance or the cap is reached.
func PowerIteration(g *Graph, opts PowerOptions) PowerResult {
	n := g.Len()
	if n == 0 {
		return PowerResult{Vector: []float64{}, Converged: true}
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	prev := make([]float64, n)
	next := make([]float64, n)
	prev[0] = 1.0
	sinks := g.Sinks()
	nf := float64(n)

	for iter := 1; iter <= maxIter; iter++ {
		var sinkMass float64
		for _, j := range sinks {
			sinkMass += prev[j]
		}
		base := Bored/nf + sinkMass*(1-Bored)/nf
		for i := range next {
			next[i] = base
		}
		for j := 0; j < n; j++ {
			out := g.OutLinks(j)
			if len(out) == 0 {
				continue
			}
			share := prev[j] * (1 - Bored) / float64(len(out))
			for _, i := range out {
				next[i] += share
			}
		}

		var diff float64
		for i := range next {
			diff += math.Abs(next[i] - prev[i])
		}
		prev, next = next, prev
		if diff < Epsilon {
			return PowerResult{Vector: prev, Iterations: iter, Converged: true}
		}
	}
	return PowerResult{Vector: prev, Iterations: maxIter, Converged: false}
}
