package pcfg

import (
	"strings"

	"github.com/pkg/errors"
)

// SyntheticPrefix starts every label introduced by Binarize. Treebank symbols
// never start with it
const SyntheticPrefix = "@"

// SyntheticLabel is the symbol of an intermediate binarization node: the
// parent it was split from and the labels of the children already generated
// on its left
type SyntheticLabel struct {
	Parent  string
	History []string
}

// String renders the label as @Parent->_h1_h2
func (l SyntheticLabel) String() string {
	var sb strings.Builder
	sb.WriteString(SyntheticPrefix)
	sb.WriteString(l.Parent)
	sb.WriteString("->")
	for _, h := range l.History {
		sb.WriteByte('_')
		sb.WriteString(h)
	}
	return sb.String()
}

// extend returns the label of the next node in the cascade
func (l SyntheticLabel) extend(child string) SyntheticLabel {
	history := make([]string, len(l.History), len(l.History)+1)
	copy(history, l.History)
	return SyntheticLabel{Parent: l.Parent, History: append(history, child)}
}

// IsSynthetic reports whether label was introduced by Binarize
func IsSynthetic(label string) bool {
	return strings.HasPrefix(label, SyntheticPrefix)
}

// ParseSyntheticLabel parses a label produced by SyntheticLabel.String. The
// result is ambiguous when history symbols themselves contain '_'
func ParseSyntheticLabel(label string) (SyntheticLabel, bool) {
	if !IsSynthetic(label) {
		return SyntheticLabel{}, false
	}
	body := label[len(SyntheticPrefix):]
	arrow := strings.Index(body, "->")
	if arrow < 0 {
		return SyntheticLabel{}, false
	}
	parsed := SyntheticLabel{Parent: body[:arrow]}
	history := body[arrow+2:]
	if history == "" {
		return parsed, true
	}
	if history[0] != '_' {
		return SyntheticLabel{}, false
	}
	parsed.History = strings.Split(history[1:], "_")
	return parsed, true
}

// Binarize turns every node with more than two children into a right
// cascade of synthetic nodes, so (NP a b c) becomes
//
//	(NP a (@NP->_a b (@NP->_a_b c)))
//
// Leaves, unary and binary nodes keep their shape
func Binarize(tree *Tree) *Tree {
	if tree.IsLeaf() {
		return NewLeaf(tree.Label)
	}
	if len(tree.Children) <= 2 {
		children := make([]*Tree, len(tree.Children))
		for i, child := range tree.Children {
			children[i] = Binarize(child)
		}
		return &Tree{Label: tree.Label, Children: children}
	}
	intermediate := binarizeFrom(tree, 0, SyntheticLabel{Parent: tree.Label})
	return &Tree{Label: tree.Label, Children: intermediate.Children}
}

func binarizeFrom(tree *Tree, generated int, label SyntheticLabel) *Tree {
	left := tree.Children[generated]
	children := []*Tree{Binarize(left)}
	if generated < len(tree.Children)-1 {
		children = append(children, binarizeFrom(tree, generated+1, label.extend(left.Label)))
	}
	return &Tree{Label: label.String(), Children: children}
}

// Debinarize reverses Binarize: synthetic nodes are spliced out and function
// labels are stripped
func Debinarize(tree *Tree) (*Tree, error) {
	spliced, err := SpliceNodes(tree, IsSynthetic)
	if err != nil {
		return nil, errors.Wrap(err, "Debinarize")
	}
	return FunctionNodeStripper{}.Transform(spliced), nil
}
