package disktree_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrhapile/disktree/pkg/disktree"
	"github.com/mrhapile/disktree/pkg/types"
)

func walkTree(t *testing.T) *disktree.Tree {
	t.Helper()
	vol := newVolume("ROOT",
		dir("A"),
		dir("A/B"),
		file("A/B/C"),
		file("D"),
	).with(newVolume("SUB", file("E")))

	tree, err := disktree.Build(vol, disktree.WithSubdirectories(true))
	require.NoError(t, err)
	return tree
}

func TestWalkPaths(t *testing.T) {
	tree := walkTree(t)

	var paths []string
	err := disktree.Walk(tree.Root, func(path []string, _ *types.TreeNode) error {
		paths = append(paths, strings.Join(path, "/"))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ROOT", "ROOT/A", "ROOT/A/B", "ROOT/A/B/C", "ROOT/D", "ROOT/SUB", "ROOT/SUB/E"}, paths)
}

func TestWalkSkipChildren(t *testing.T) {
	tree := walkTree(t)

	var seen []string
	err := disktree.Walk(tree.Root, func(_ []string, n *types.TreeNode) error {
		seen = append(seen, n.Label)
		if n.Kind == types.NodeSubdirectory {
			return disktree.SkipChildren
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ROOT", "A", "D", "SUB", "E"}, seen)
}

func TestWalkStopsOnError(t *testing.T) {
	tree := walkTree(t)
	boom := errors.New("boom")

	visited := 0
	err := disktree.Walk(tree.Root, func(_ []string, n *types.TreeNode) error {
		visited++
		if n.Label == "B" {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, visited)

	assert.NoError(t, disktree.Walk(nil, func([]string, *types.TreeNode) error { return boom }))
}

func TestFindByTarget(t *testing.T) {
	tree := walkTree(t)

	for _, tg := range tree.Targets.All() {
		n := disktree.FindByTarget(tree.Root, tg.ID)
		require.NotNil(t, n, "target %d", tg.ID)
		assert.Equal(t, tg.ID, n.TargetID)
	}
	assert.Nil(t, disktree.FindByTarget(tree.Root, types.NoTarget))
	assert.Nil(t, disktree.FindByTarget(tree.Root, types.TargetID(tree.Targets.Len())))
	assert.Equal(t, 7, disktree.CountNodes(tree.Root))
	assert.Equal(t, 0, disktree.CountNodes(nil))
}

func TestIndexByTarget(t *testing.T) {
	tree := walkTree(t)

	index := disktree.IndexByTarget(tree.Root)
	require.Len(t, index, tree.Targets.Len())
	for _, tg := range tree.Targets.All() {
		assert.Same(t, disktree.FindByTarget(tree.Root, tg.ID), index[tg.ID])
	}
	_, ok := index[types.NoTarget]
	assert.False(t, ok, "files carry no target")

	assert.Empty(t, disktree.IndexByTarget(nil))
}
