package pcfg

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Tree represents a labeled ordered tree. A node without children is a leaf
// and its label is a word
type Tree struct {
	// Label of current node, a word for leaves and a symbol otherwise
	Label string

	// Children nodes, empty for leaves
	Children []*Tree
}

// Constituent is a labeled span [Start, End) over the terminals of a tree
type Constituent struct {
	Label string
	Start int
	End   int
}

func (c Constituent) String() string {
	return fmt.Sprintf("%s[%d,%d)", c.Label, c.Start, c.End)
}

// NewLeaf creates a leaf node
func NewLeaf(word string) *Tree {
	return &Tree{Label: word}
}

// NewTree creates an internal node with children
func NewTree(label string, children ...*Tree) *Tree {
	return &Tree{Label: label, Children: children}
}

// IsLeaf returns true at the word level of a tree
func (t *Tree) IsLeaf() bool {
	return len(t.Children) == 0
}

// IsPreTerminal returns true for nodes directly above a single word
func (t *Tree) IsPreTerminal() bool {
	return len(t.Children) == 1 && t.Children[0].IsLeaf()
}

// IsPhrasal returns true if the node is neither a leaf nor a pre-terminal
func (t *Tree) IsPhrasal() bool {
	return !t.IsLeaf() && !t.IsPreTerminal()
}

// Yield returns the words at the leaves from left to right
func (t *Tree) Yield() []string {
	words := []string{}
	t.walk(func(n *Tree) bool {
		if n.IsLeaf() {
			words = append(words, n.Label)
		}
		return true
	})
	return words
}

// PreTerminalYield returns the labels of the pre-terminals from left to
// right, which is effectively the POS tagging of the sentence
func (t *Tree) PreTerminalYield() []string {
	tags := []string{}
	t.walk(func(n *Tree) bool {
		if n.IsPreTerminal() {
			tags = append(tags, n.Label)
			return false
		}
		return true
	})
	return tags
}

// LeafCount returns the number of leaves under t
func (t *Tree) LeafCount() int {
	if t.IsLeaf() {
		return 1
	}
	count := 0
	for _, child := range t.Children {
		count += child.LeafCount()
	}
	return count
}

// walk visits the nodes in pre-order. Children of a node are skipped when
// visit returns false
func (t *Tree) walk(visit func(*Tree) bool) {
	if !visit(t) {
		return
	}
	for _, child := range t.Children {
		child.walk(visit)
	}
}

// PreOrder returns the nodes in the order: root, left subtree, right subtree
func (t *Tree) PreOrder() []*Tree {
	nodes := []*Tree{}
	t.walk(func(n *Tree) bool {
		nodes = append(nodes, n)
		return true
	})
	return nodes
}

// PostOrder returns the nodes in the order: left subtree, right subtree, root
func (t *Tree) PostOrder() []*Tree {
	nodes := []*Tree{}
	var visit func(n *Tree)
	visit = func(n *Tree) {
		for _, child := range n.Children {
			visit(child)
		}
		nodes = append(nodes, n)
	}
	visit(t)
	return nodes
}

// DeepCopy returns a copy of t that shares no nodes with it
func (t *Tree) DeepCopy() *Tree {
	copied := &Tree{Label: t.Label}
	if len(t.Children) > 0 {
		copied.Children = make([]*Tree, len(t.Children))
		for i, child := range t.Children {
			copied.Children[i] = child.DeepCopy()
		}
	}
	return copied
}

// SetWords rewrites the leaves of t in place with words, consumed from left
// to right. It fails when there are fewer words than leaves
func (t *Tree) SetWords(words []string) error {
	if n := t.LeafCount(); len(words) < n {
		return errors.Errorf("SetWords: %d words for a tree with %d leaves", len(words), n)
	}
	next := 0
	t.walk(func(n *Tree) bool {
		if n.IsLeaf() {
			n.Label = words[next]
			next++
		}
		return true
	})
	return nil
}

// WithWords returns a copy of t with its leaves replaced by words. t itself
// is not modified
func (t *Tree) WithWords(words []string) (*Tree, error) {
	copied := t.DeepCopy()
	if err := copied.SetWords(words); err != nil {
		return nil, err
	}
	return copied, nil
}

// Constituents returns every phrasal node of t as a labeled span. Leaves and
// pre-terminals cover a single position and produce no constituent. The
// list is in post-order
func (t *Tree) Constituents() []Constituent {
	constituents := []Constituent{}
	var collect func(n *Tree, start int) int
	collect = func(n *Tree, start int) int {
		if n.IsLeaf() || n.IsPreTerminal() {
			return 1
		}
		span := 0
		for _, child := range n.Children {
			span += collect(child, start+span)
		}
		constituents = append(constituents, Constituent{n.Label, start, start + span})
		return span
	}
	collect(t, 0)
	return constituents
}

// Equal reports whether t and other have the same labels and shape
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Label != other.Label || len(t.Children) != len(other.Children) {
		return false
	}
	for i, child := range t.Children {
		if !child.Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// String returns the single-line bracketed representation, e.g.
//
//	(S (NP (DT the) (NN cat)) (VP (VBZ sat)))
func (t *Tree) String() string {
	var sb strings.Builder
	t.writeTo(&sb)
	return sb.String()
}

func (t *Tree) writeTo(sb *strings.Builder) {
	if t.IsLeaf() {
		sb.WriteString(t.Label)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(t.Label)
	for _, child := range t.Children {
		sb.WriteByte(' ')
		child.writeTo(sb)
	}
	sb.WriteByte(')')
}

// Pretty returns an indented multi-line representation of the tree where
// pre-terminals stay on the line of their tag
func (t *Tree) Pretty() string {
	return t.repr(0)
}

// repr get the string representation of the node recursively
func (t *Tree) repr(level int) string {
	prefix := strings.Repeat(" ", level*2)
	if level != 0 {
		prefix = "\n" + prefix
	}

	// Don't break lines inside pre-terminals and leaves
	if t.IsLeaf() || t.IsPreTerminal() {
		return prefix + t.String()
	}

	childrenReprs := []string{}
	for _, child := range t.Children {
		childrenReprs = append(childrenReprs, child.repr(level+1))
	}
	return fmt.Sprintf("%s(%s%s)", prefix, t.Label, strings.Join(childrenReprs, ""))
}
