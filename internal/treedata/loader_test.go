package treedata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/domain"
	"github.com/User-dev-volt/poe2-optimizer-v6-sub001/pkg/ports"
)

func TestFileLoader_Load(t *testing.T) {
	loader := NewFileLoader(filepath.Join("testdata", "tree.json"), nil)

	tree, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 9, tree.NodeCount())
	assert.Equal(t, 8, tree.EdgeCount())
	assert.Equal(t, []string{"warrior", "witch"}, tree.Classes())

	start, err := tree.ClassStart("witch")
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID(100), start)

	node, err := tree.Node(103)
	require.NoError(t, err)
	assert.Equal(t, "Heart of Ice", node.Name)
	assert.Equal(t, domain.NodeKindNotable, node.Kind)
	assert.Len(t, node.Stats, 2)

	// Edges come back symmetrized regardless of export direction.
	neighbors, err := tree.Neighbors(101)
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeID{100, 102, 104}, neighbors)
}

func TestFileLoader_MissingFile(t *testing.T) {
	loader := NewFileLoader(filepath.Join(t.TempDir(), "absent.json"), nil)
	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"nodes": `},
		{"missing nodes", `{"edges": [], "class_starts": {"witch": 1}}`},
		{"nodes not an object", `{"nodes": [], "edges": [], "class_starts": {"witch": 1}}`},
		{"non-integer node id", `{"nodes": {"abc": {}}, "edges": [], "class_starts": {"witch": 1}}`},
		{"missing edges", `{"nodes": {"1": {}}, "class_starts": {"witch": 1}}`},
		{"edge not a pair", `{"nodes": {"1": {}, "2": {}}, "edges": [[1]], "class_starts": {"witch": 1}}`},
		{"missing class starts", `{"nodes": {"1": {}}, "edges": []}`},
		{"dangling edge", `{"nodes": {"1": {}}, "edges": [[1, 9]], "class_starts": {"witch": 1}}`},
		{"unknown start node", `{"nodes": {"1": {}}, "edges": [], "class_starts": {"witch": 9}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestParse_DefaultsAndTolerance(t *testing.T) {
	// Extra top-level fields are ignored; a node without a kind becomes a
	// small passive.
	data := `{
		"version": "0.4.1",
		"timestamp": "2026-01-01T00:00:00Z",
		"nodes": {"1": {"name": "Start"}, "2": {"name": "Bare"}},
		"edges": [[1, 2]],
		"class_starts": {"witch": 1}
	}`
	tree, err := Parse([]byte(data))
	require.NoError(t, err)

	node, err := tree.Node(2)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeKindSmall, node.Kind)
}

// countingLoader records Load calls for the cache tests.
type countingLoader struct {
	calls int
	tree  *domain.PassiveTree
	err   error
}

func (l *countingLoader) Load(ctx context.Context) (*domain.PassiveTree, error) {
	l.calls++
	return l.tree, l.err
}

var _ ports.TreeLoader = (*countingLoader)(nil)

func TestCache_LoadsOnce(t *testing.T) {
	tree, err := domain.NewPassiveTree(
		[]domain.PassiveNode{{ID: 1}},
		nil,
		map[string]domain.NodeID{"witch": 1},
	)
	require.NoError(t, err)

	inner := &countingLoader{tree: tree}
	cache := NewCache(inner)

	first, err := cache.Load(context.Background())
	require.NoError(t, err)
	second, err := cache.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCache_CachesFailure(t *testing.T) {
	loadErr := errors.New("corrupt export")
	inner := &countingLoader{err: loadErr}
	cache := NewCache(inner)

	_, err := cache.Load(context.Background())
	assert.ErrorIs(t, err, loadErr)
	_, err = cache.Load(context.Background())
	assert.ErrorIs(t, err, loadErr)

	assert.Equal(t, 1, inner.calls)
}
