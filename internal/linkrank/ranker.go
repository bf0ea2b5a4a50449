package linkrank

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
)

// Persister stores a computed ranking.
type Persister interface {
	Save(ctx context.Context, scores []Score) error
}

type Options struct {
	Method        Method
	MaxIterations int
	// Persist hands every score to the Persister instead of printing the
	// top of the ranking.
	Persist bool
	TopN    int
	// Seed makes Monte Carlo runs reproducible. Zero draws a random seed.
	Seed uint64
}

// Ranker runs one load, compute, output cycle.
type Ranker struct {
	opts    Options
	store   Persister
	out     io.Writer
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewRanker(opts Options, store Persister, out io.Writer, m *metrics.Metrics) *Ranker {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	return &Ranker{
		opts:    opts,
		store:   store,
		out:     out,
		metrics: m,
		logger:  slog.Default().With("component", "linkrank"),
	}
}

// Compute returns the authority vector of g for the configured method.
func (r *Ranker) Compute(g *Graph) ([]float64, error) {
	start := time.Now()
	var (
		vec []float64
		err error
	)
	switch r.opts.Method {
	case MethodPowerIteration:
		res := PowerIteration(g, PowerOptions{MaxIterations: r.opts.MaxIterations})
		r.metrics.ObservePowerIteration(res.Iterations, res.Converged)
		if !res.Converged {
			r.logger.Warn("power iteration hit the iteration cap", "iterations", res.Iterations)
		}
		vec = res.Vector
	case MethodRandomStartEndpoint, MethodCompletePathRandomStart:
		// same overall budget as the cyclic methods
		vec, err = MonteCarlo(g, r.opts.Method, WalksPerDocument*g.Len(), r.rng())
	default:
		vec, err = MonteCarlo(g, r.opts.Method, WalksPerDocument, r.rng())
	}
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	r.metrics.ObserveRanking(r.opts.Method.String(), elapsed)
	r.logger.Info("ranking computed",
		"method", r.opts.Method.String(),
		"documents", g.Len(),
		"elapsed", elapsed,
	)
	return vec, nil
}

// Run loads the link file at path, computes the ranking and either persists
// it or prints the top of it. A missing link file is reported together with
// an empty ranking.
func (r *Ranker) Run(ctx context.Context, path string) ([]Score, error) {
	if r.opts.Persist && r.store == nil {
		return nil, apperrors.New(apperrors.ErrMissingCollaborator, "linkrank.Run", "persisting requires a score store")
	}
	g, err := LoadGraph(path, r.metrics)
	if err != nil {
		return []Score{}, err
	}
	vec, err := r.Compute(g)
	if err != nil {
		return nil, err
	}
	scores := Scores(g, vec)

	if r.opts.Persist {
		if err := r.store.Save(ctx, scores); err != nil {
			return scores, fmt.Errorf("persisting ranking: %w", err)
		}
		r.logger.Info("ranking persisted", "documents", len(scores))
		return scores, nil
	}
	if err := WriteTop(r.out, Top(scores, r.opts.TopN)); err != nil {
		return scores, err
	}
	return scores, nil
}

func (r *Ranker) rng() *rand.Rand {
	seed := r.opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
