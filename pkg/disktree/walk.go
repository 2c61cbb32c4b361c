package disktree

import (
	"errors"

	"github.com/mrhapile/disktree/pkg/types"
)

// SkipChildren can be returned by a WalkFunc to leave a node's children out.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every node in depth-first order. path holds the
// labels from the root down to and including node.
type WalkFunc func(path []string, node *types.TreeNode) error

// Walk visits root and its descendants depth-first.
func Walk(root *types.TreeNode, fn WalkFunc) error {
	if root == nil {
		return nil
	}
	return walk(nil, root, fn)
}

func walk(parents []string, node *types.TreeNode, fn WalkFunc) error {
	path := append(parents[:len(parents):len(parents)], node.Label)
	if err := fn(path, node); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, child := range node.Children {
		if err := walk(path, child, fn); err != nil {
			return err
		}
	}
	return nil
}

// FindByTarget finds the node linked to id (recursive).
func FindByTarget(root *types.TreeNode, id types.TargetID) *types.TreeNode {
	if root == nil || id == types.NoTarget {
		return nil
	}
	if root.TargetID == id {
		return root
	}
	for _, child := range root.Children {
		if found := FindByTarget(child, id); found != nil {
			return found
		}
	}
	return nil
}

// IndexByTarget maps every target id in the tree to its node in one pass.
func IndexByTarget(root *types.TreeNode) map[types.TargetID]*types.TreeNode {
	index := make(map[types.TargetID]*types.TreeNode)
	_ = Walk(root, func(_ []string, n *types.TreeNode) error {
		if n.TargetID != types.NoTarget {
			index[n.TargetID] = n
		}
		return nil
	})
	return index
}

// CountNodes counts all nodes in a tree.
func CountNodes(root *types.TreeNode) int {
	if root == nil {
		return 0
	}
	count := 1
	for _, child := range root.Children {
		count += CountNodes(child)
	}
	return count
}
