package linkrank

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
)

func parse(t *testing.T, input string) *Graph {
	t.Helper()
	g, err := ParseGraph(strings.NewReader(input), nil)
	require.NoError(t, err)
	return g
}

func TestParseGraph(t *testing.T) {
	input := "Alpha;Beta,Gamma\r\n" +
		"\n" +
		"Beta;Alpha,Alpha,,Beta\n" +
		"Delta;\n"
	g := parse(t, input)

	require.Equal(t, 4, g.Len())
	names := make([]string, g.Len())
	for id := range names {
		names[id] = g.Name(id)
	}
	if diff := cmp.Diff([]string{"Alpha", "Beta", "Gamma", "Delta"}, names); diff != "" {
		t.Errorf("interning order (-want +got):\n%s", diff)
	}

	assert.Equal(t, []int{1, 2}, g.OutLinks(0))
	assert.Equal(t, []int{0, 1}, g.OutLinks(1), "duplicates collapse and self links stay")
	assert.Equal(t, 0, g.OutDegree(2))
	assert.Equal(t, []int{2, 3}, g.Sinks())
	assert.Equal(t, 4, g.NumEdges())

	id, ok := g.ID("Gamma")
	require.True(t, ok)
	assert.Equal(t, 2, id)
	_, ok = g.ID("Omega")
	assert.False(t, ok)
}

func TestParseGraph_MalformedLines(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	g, err := ParseGraph(strings.NewReader("no separator here\nA;B\nstill bad\n"), m)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Malformed())
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []int{1}, g.OutLinks(0))
}

func TestParseLine_Error(t *testing.T) {
	err := NewGraph().parseLine("broken")
	assert.True(t, errors.Is(err, apperrors.ErrMalformedInput))
}

func TestParseGraph_Empty(t *testing.T) {
	g := parse(t, "")
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Sinks())
}

func TestLoadGraph_NotFound(t *testing.T) {
	g, err := LoadGraph(filepath.Join(t.TempDir(), "missing.txt"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	require.NotNil(t, g)
	assert.Equal(t, 0, g.Len())
}

func TestGraph_GrowsWithoutLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5000; i++ {
		b.WriteString("n")
		b.WriteString(strings.Repeat("x", i%7))
		b.WriteString(string(rune('a' + i%26)))
		b.WriteString(";hub\n")
	}
	g := parse(t, b.String())
	assert.Greater(t, g.Len(), 100)
	hub, ok := g.ID("hub")
	require.True(t, ok)
	assert.Equal(t, 0, g.OutDegree(hub))
}
