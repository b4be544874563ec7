package pcfg

import (
	"strings"

	"github.com/pkg/errors"
)

// EmptyLabel marks empty categories (traces, null elements) in a treebank
const EmptyLabel = "-NONE-"

// TreeTransformer transforms a tree into a new tree. A nil result means the
// whole tree was removed
type TreeTransformer interface {
	Transform(tree *Tree) *Tree
}

// TransformerFunc adapts a function to TreeTransformer
type TransformerFunc func(tree *Tree) *Tree

func (f TransformerFunc) Transform(tree *Tree) *Tree {
	return f(tree)
}

// Chain applies transformers from left to right, stopping at a nil tree
func Chain(transformers ...TreeTransformer) TreeTransformer {
	return TransformerFunc(func(tree *Tree) *Tree {
		for _, transformer := range transformers {
			if tree == nil {
				return nil
			}
			tree = transformer.Transform(tree)
		}
		return tree
	})
}

// FunctionNodeStripper cuts internal labels at the leftmost '-', '=', '^' or
// ':', so NP-SBJ=2 becomes NP. A label starting with one of those characters
// (such as -NONE-) is kept. Leaves are untouched
type FunctionNodeStripper struct{}

func (FunctionNodeStripper) Transform(tree *Tree) *Tree {
	if tree.IsLeaf() {
		return NewLeaf(tree.Label)
	}
	children := make([]*Tree, len(tree.Children))
	for i, child := range tree.Children {
		children[i] = FunctionNodeStripper{}.Transform(child)
	}
	return &Tree{Label: StripFunctionLabel(tree.Label), Children: children}
}

// StripFunctionLabel returns the base symbol of a treebank label
func StripFunctionLabel(label string) string {
	if cut := strings.IndexAny(label, "-=^:"); cut > 0 {
		return label[:cut]
	}
	return label
}

// EmptyNodeStripper removes every subtree labeled EmptyLabel, together with
// the ancestors left without children
type EmptyNodeStripper struct{}

func (EmptyNodeStripper) Transform(tree *Tree) *Tree {
	if tree.Label == EmptyLabel {
		return nil
	}
	if tree.IsLeaf() {
		return NewLeaf(tree.Label)
	}
	children := []*Tree{}
	for _, child := range tree.Children {
		if transformed := (EmptyNodeStripper{}).Transform(child); transformed != nil {
			children = append(children, transformed)
		}
	}
	if len(children) == 0 {
		return nil
	}
	return &Tree{Label: tree.Label, Children: children}
}

// XOverXRemover collapses unary chains X -> X by splicing the children of the
// inner X into the outer one
type XOverXRemover struct{}

func (XOverXRemover) Transform(tree *Tree) *Tree {
	if tree.IsLeaf() {
		return NewLeaf(tree.Label)
	}
	children := tree.Children
	for len(children) == 1 && !children[0].IsLeaf() && children[0].Label == tree.Label {
		children = children[0].Children
	}
	transformed := make([]*Tree, len(children))
	for i, child := range children {
		transformed[i] = XOverXRemover{}.Transform(child)
	}
	return &Tree{Label: tree.Label, Children: transformed}
}

// StandardNormalizer is the normalization applied to treebank trees before
// training: function labels, then empty nodes, then X -> X chains
var StandardNormalizer = Chain(FunctionNodeStripper{}, EmptyNodeStripper{}, XOverXRemover{})

// SpliceNodes removes every node whose label matches filter and puts its
// children in its place. It fails when no single root remains
func SpliceNodes(tree *Tree, filter func(label string) bool) (*Tree, error) {
	roots := spliceNodes(tree, filter)
	if len(roots) != 1 {
		return nil, errors.Errorf("SpliceNodes: %d roots after splicing %s", len(roots), tree)
	}
	return roots[0], nil
}

func spliceNodes(tree *Tree, filter func(string) bool) []*Tree {
	children := []*Tree{}
	for _, child := range tree.Children {
		children = append(children, spliceNodes(child, filter)...)
	}
	if filter(tree.Label) {
		return children
	}
	node := &Tree{Label: tree.Label}
	if len(children) > 0 {
		node.Children = children
	}
	return []*Tree{node}
}

// PruneNodes removes every node whose label matches filter, together with the
// internal nodes that dominate only pruned nodes. It returns nil when the
// whole tree is pruned
func PruneNodes(tree *Tree, filter func(label string) bool) *Tree {
	if filter(tree.Label) {
		return nil
	}
	if tree.IsLeaf() {
		return NewLeaf(tree.Label)
	}
	children := []*Tree{}
	for _, child := range tree.Children {
		if pruned := PruneNodes(child, filter); pruned != nil {
			children = append(children, pruned)
		}
	}
	if len(children) == 0 {
		return nil
	}
	return &Tree{Label: tree.Label, Children: children}
}
