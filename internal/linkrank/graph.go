// Package linkrank computes static authority scores over a hyperlink graph
// with power iteration or Monte Carlo random walks.
package linkrank

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
)

// Graph is a directed link graph. Titles are interned to dense ids in the
// order they are first seen, as a source or a target.
type Graph struct {
	ids       map[string]int
	names     []string
	links     [][]int
	malformed int
}

func NewGraph() *Graph {
	return &Graph{ids: make(map[string]int)}
}

// Intern returns the id of title, assigning the next id if it is new.
func (g *Graph) Intern(title string) int {
	if id, ok := g.ids[title]; ok {
		return id
	}
	id := len(g.names)
	g.ids[title] = id
	g.names = append(g.names, title)
	g.links = append(g.links, nil)
	return id
}

// AddLink records the edge from -> to. Repeated edges are ignored.
func (g *Graph) AddLink(from, to int) {
	out := g.links[from]
	i := sort.SearchInts(out, to)
	if i < len(out) && out[i] == to {
		return
	}
	out = append(out, 0)
	copy(out[i+1:], out[i:])
	out[i] = to
	g.links[from] = out
}

// Len is the number of documents.
func (g *Graph) Len() int {
	return len(g.names)
}

func (g *Graph) Name(id int) string {
	return g.names[id]
}

func (g *Graph) ID(title string) (int, bool) {
	id, ok := g.ids[title]
	return id, ok
}

// OutLinks returns the targets of id in ascending order. The slice must not
// be modified.
func (g *Graph) OutLinks(id int) []int {
	return g.links[id]
}

func (g *Graph) OutDegree(id int) int {
	return len(g.links[id])
}

// Sinks returns the ids without outgoing links.
func (g *Graph) Sinks() []int {
	var sinks []int
	for id, out := range g.links {
		if len(out) == 0 {
			sinks = append(sinks, id)
		}
	}
	return sinks
}

func (g *Graph) NumEdges() int {
	n := 0
	for _, out := range g.links {
		n += len(out)
	}
	return n
}

// Malformed is the number of input lines rejected while parsing.
func (g *Graph) Malformed() int {
	return g.malformed
}

// ParseGraph reads lines of the form "title;target1,target2,...". Lines
// without a ';' are rejected and counted; parsing carries on with the next
// line. Blank lines and empty targets are skipped.
func ParseGraph(r io.Reader, m *metrics.Metrics) (*Graph, error) {
	logger := slog.Default().With("component", "linkrank")
	g := NewGraph()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := g.parseLine(line); err != nil {
			g.malformed++
			m.ObserveMalformedLine("links")
			logger.Warn("skipping link line", "line", lineNo, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return g, fmt.Errorf("reading link graph: %w", err)
	}
	m.ObserveGraph(g.Len())
	logger.Info("link graph loaded",
		"documents", g.Len(),
		"edges", g.NumEdges(),
		"sinks", len(g.Sinks()),
		"malformed_lines", g.malformed,
	)
	return g, nil
}

func (g *Graph) parseLine(line string) error {
	title, targets, ok := strings.Cut(line, ";")
	if !ok {
		return apperrors.Newf(apperrors.ErrMalformedInput, "linkrank.ParseGraph", "missing ';' in %q", line)
	}
	from := g.Intern(title)
	for _, target := range strings.Split(targets, ",") {
		if target == "" {
			continue
		}
		g.AddLink(from, g.Intern(target))
	}
	return nil
}

// LoadGraph parses the link file at path. A missing file yields an empty
// graph together with an error matching apperrors.ErrNotFound.
func LoadGraph(path string, m *metrics.Metrics) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewGraph(), fmt.Errorf("opening link graph: %w: %w", apperrors.ErrNotFound, err)
		}
		return NewGraph(), fmt.Errorf("opening link graph: %w", err)
	}
	defer f.Close()
	return ParseGraph(f, m)
}
