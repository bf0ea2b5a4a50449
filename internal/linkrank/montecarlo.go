package linkrank

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/errors"
)

// WalksPerDocument is the number of random walks started per document. The
// random-start estimators pick their starts at random instead, so the ranker
// gives them the same overall budget of WalksPerDocument*N walks rather than
// a flat WalksPerDocument.
const WalksPerDocument = 50

type Method int

const (
	MethodPowerIteration Method = iota
	MethodRandomStartEndpoint
	MethodCyclicStartEndpoint
	MethodCompletePath
	MethodCompletePathStopDangling
	MethodCompletePathRandomStart
)

var methodNames = map[Method]string{
	MethodPowerIteration:           "power",
	MethodRandomStartEndpoint:      "random-start",
	MethodCyclicStartEndpoint:      "cyclic-start",
	MethodCompletePath:             "complete-path",
	MethodCompletePathStopDangling: "complete-path-stop-dangling",
	MethodCompletePathRandomStart:  "complete-path-random-start",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod accepts a method name or its number, 0 for power iteration and
// 1 to 5 for the Monte Carlo estimators.
func ParseMethod(s string) (Method, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if _, ok := methodNames[Method(n)]; ok {
			return Method(n), nil
		}
	}
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return 0, apperrors.Newf(apperrors.ErrInvalidInput, "linkrank.ParseMethod", "unknown ranking method %q", s)
}

// MonteCarlo estimates authority scores with random walks. For the cyclic
// methods walks is the number of walks started from every document; for the
// random-start methods it is the total number of walks.
func MonteCarlo(g *Graph, method Method, walks int, rng *rand.Rand) ([]float64, error) {
	if g == nil || rng == nil {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "linkrank.MonteCarlo", "graph and random source are required")
	}
	n := g.Len()
	scores := make([]float64, n)
	if n == 0 || walks <= 0 {
		return scores, nil
	}
	w := walker{g: g, rng: rng}

	switch method {
	case MethodRandomStartEndpoint:
		for k := 0; k < walks; k++ {
			scores[w.endpoint(rng.IntN(n))]++
		}
		normalize(scores, float64(walks))
	case MethodCyclicStartEndpoint:
		for start := 0; start < n; start++ {
			for k := 0; k < walks; k++ {
				scores[w.endpoint(start)]++
			}
		}
		normalize(scores, float64(n*walks))
	case MethodCompletePath, MethodCompletePathStopDangling:
		stop := method == MethodCompletePathStopDangling
		visits := 0
		for start := 0; start < n; start++ {
			for k := 0; k < walks; k++ {
				visits += w.path(start, stop, scores)
			}
		}
		normalize(scores, float64(visits))
	case MethodCompletePathRandomStart:
		visits := 0
		for k := 0; k < walks; k++ {
			visits += w.path(rng.IntN(n), true, scores)
		}
		normalize(scores, float64(visits))
	default:
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, "linkrank.MonteCarlo", "%s is not a Monte Carlo method", method)
	}
	return scores, nil
}

type walker struct {
	g   *Graph
	rng *rand.Rand
}

// step moves one hop from page. It reports false when the walk ends, either
// by boredom or, with stopAtSink, on a page without outlinks. Otherwise a
// sink jumps to a uniformly random page.
func (w walker) step(page int, stopAtSink bool) (int, bool) {
	if w.rng.Float64() < Bored {
		return page, false
	}
	out := w.g.OutLinks(page)
	if len(out) == 0 {
		if stopAtSink {
			return page, false
		}
		return w.rng.IntN(w.g.Len()), true
	}
	return out[w.rng.IntN(len(out))], true
}

func (w walker) endpoint(start int) int {
	page := start
	for {
		next, ok := w.step(page, false)
		if !ok {
			return page
		}
		page = next
	}
}

// path adds one to counts for every page visited, the start included, and
// returns the number of visits.
func (w walker) path(start int, stopAtSink bool, counts []float64) int {
	page := start
	counts[page]++
	visits := 1
	for {
		next, ok := w.step(page, stopAtSink)
		if !ok {
			return visits
		}
		page = next
		counts[page]++
		visits++
	}
}

func normalize(v []float64, total float64) {
	if total == 0 {
		return
	}
	for i := range v {
		v[i] /= total
	}
}
