package pcfg

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Grammar is a PCFG of binary and unary rules estimated by relative frequency
// from binarized trees. Rules are indexed by their children for bottom-up
// parsing. Pre-terminal rules (tag -> word) are left to the Lexicon
type Grammar struct {
	binaryRules []*BinaryRule
	unaryRules  []*UnaryRule

	binaryRulesByLeftChild  map[string][]*BinaryRule
	binaryRulesByRightChild map[string][]*BinaryRule
	unaryRulesByChild       map[string][]*UnaryRule
}

// newGrammar creates a grammar from rules and builds the indexes. Rules are
// sorted by parent and children, which fixes the enumeration order of every
// lookup
func newGrammar(binaryRules []*BinaryRule, unaryRules []*UnaryRule) *Grammar {
	sort.Slice(binaryRules, func(i, j int) bool {
		a, b := binaryRules[i], binaryRules[j]
		if a.Parent != b.Parent {
			return a.Parent < b.Parent
		}
		if a.Left != b.Left {
			return a.Left < b.Left
		}
		return a.Right < b.Right
	})
	sort.Slice(unaryRules, func(i, j int) bool {
		a, b := unaryRules[i], unaryRules[j]
		if a.Parent != b.Parent {
			return a.Parent < b.Parent
		}
		return a.Child < b.Child
	})

	g := &Grammar{
		binaryRules:             binaryRules,
		unaryRules:              unaryRules,
		binaryRulesByLeftChild:  map[string][]*BinaryRule{},
		binaryRulesByRightChild: map[string][]*BinaryRule{},
		unaryRulesByChild:       map[string][]*UnaryRule{},
	}
	for _, rule := range binaryRules {
		g.binaryRulesByLeftChild[rule.Left] = append(g.binaryRulesByLeftChild[rule.Left], rule)
		g.binaryRulesByRightChild[rule.Right] = append(g.binaryRulesByRightChild[rule.Right], rule)
	}
	for _, rule := range unaryRules {
		g.unaryRulesByChild[rule.Child] = append(g.unaryRulesByChild[rule.Child], rule)
	}
	return g
}

// ruleTally accumulates rule counts over the training trees
type ruleTally struct {
	binaryCounts map[BinaryKey]float64
	unaryCounts  map[UnaryKey]float64

	// Number of binary (unary) nodes per parent symbol
	binaryParents map[string]float64
	unaryParents  map[string]float64
}

// InduceGrammar estimates a grammar from binarized trees. The score of a rule
// is its count divided by the number of nodes of the same arity with the same
// parent, so the binary rules of a symbol sum to 1 and so do its unary rules.
// It fails on the first node with no children or more than two
func InduceGrammar(trees []*Tree) (*Grammar, error) {
	tally := &ruleTally{
		binaryCounts:  map[BinaryKey]float64{},
		unaryCounts:   map[UnaryKey]float64{},
		binaryParents: map[string]float64{},
		unaryParents:  map[string]float64{},
	}
	for i, tree := range trees {
		if tree.IsLeaf() {
			return nil, errors.Errorf("InduceGrammar: tree %d: root %q has no children", i, tree.Label)
		}
		if err := tally.add(tree); err != nil {
			return nil, errors.Wrapf(err, "InduceGrammar: tree %d", i)
		}
	}

	binaryRules := make([]*BinaryRule, 0, len(tally.binaryCounts))
	for key, count := range tally.binaryCounts {
		binaryRules = append(binaryRules, &BinaryRule{
			Parent: key.Parent,
			Left:   key.Left,
			Right:  key.Right,
			Score:  count / tally.binaryParents[key.Parent],
		})
	}
	unaryRules := make([]*UnaryRule, 0, len(tally.unaryCounts))
	for key, count := range tally.unaryCounts {
		unaryRules = append(unaryRules, &UnaryRule{
			Parent: key.Parent,
			Child:  key.Child,
			Score:  count / tally.unaryParents[key.Parent],
		})
	}
	return newGrammar(binaryRules, unaryRules), nil
}

func (t *ruleTally) add(tree *Tree) error {
	if tree.IsLeaf() || tree.IsPreTerminal() {
		return nil
	}
	switch len(tree.Children) {
	case 1:
		key := UnaryKey{tree.Label, tree.Children[0].Label}
		t.unaryCounts[key]++
		t.unaryParents[tree.Label]++
	case 2:
		key := BinaryKey{tree.Label, tree.Children[0].Label, tree.Children[1].Label}
		t.binaryCounts[key]++
		t.binaryParents[tree.Label]++
	default:
		return errors.Errorf("illegal node with %d children: %s", len(tree.Children), tree)
	}
	for _, child := range tree.Children {
		if err := t.add(child); err != nil {
			return err
		}
	}
	return nil
}

// BinaryRulesByLeftChild returns the binary rules whose left child is symbol
func (g *Grammar) BinaryRulesByLeftChild(symbol string) []*BinaryRule {
	return g.binaryRulesByLeftChild[symbol]
}

// BinaryRulesByRightChild returns the binary rules whose right child is symbol
func (g *Grammar) BinaryRulesByRightChild(symbol string) []*BinaryRule {
	return g.binaryRulesByRightChild[symbol]
}

// UnaryRulesByChild returns the unary rules whose child is symbol
func (g *Grammar) UnaryRulesByChild(symbol string) []*UnaryRule {
	return g.unaryRulesByChild[symbol]
}

// BinaryRules returns all binary rules sorted by parent and children
func (g *Grammar) BinaryRules() []*BinaryRule {
	return g.binaryRules
}

// UnaryRules returns all unary rules sorted by parent and child
func (g *Grammar) UnaryRules() []*UnaryRule {
	return g.unaryRules
}

// Symbols returns every symbol occurring in a rule, sorted
func (g *Grammar) Symbols() []string {
	seen := map[string]bool{}
	for _, rule := range g.binaryRules {
		seen[rule.Parent], seen[rule.Left], seen[rule.Right] = true, true, true
	}
	for _, rule := range g.unaryRules {
		seen[rule.Parent], seen[rule.Child] = true, true
	}
	symbols := make([]string, 0, len(seen))
	for symbol := range seen {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// UnaryCycles returns the groups of symbols that derive each other through
// unary rules only, including symbols with a rule X -> X
func (g *Grammar) UnaryCycles() [][]string {
	graph := NewDirectedGraph()
	cycles := [][]string{}
	for _, rule := range g.unaryRules {
		graph.Add(rule.Parent, rule.Child, rule.Score)
		if rule.Parent == rule.Child {
			cycles = append(cycles, []string{rule.Parent})
		}
	}
	return append(cycles, graph.StrongComponents()...)
}

// String dumps the grammar, one rule per line in the format read by
// ParseRule, sorted
func (g *Grammar) String() string {
	lines := make([]string, 0, len(g.binaryRules)+len(g.unaryRules))
	for _, rule := range g.binaryRules {
		lines = append(lines, rule.String())
	}
	for _, rule := range g.unaryRules {
		lines = append(lines, rule.String())
	}
	sort.Strings(lines)

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseGrammar parses a grammar dumped by Grammar.String. Empty lines and
// lines starting with ';' are ignored
func ParseGrammar(grammarText string) (*Grammar, error) {
	binaryRules := []*BinaryRule{}
	unaryRules := []*UnaryRule{}
	seenBinary := map[BinaryKey]bool{}
	seenUnary := map[UnaryKey]bool{}
	for lineNo, line := range strings.Split(grammarText, "\n") {
		line = strings.TrimSpace(line)

		// Comments
		if line == "" || line[0] == ';' {
			continue
		}

		binary, unary, err := ParseRule(line)
		if err != nil {
			return nil, errors.Wrapf(err, "ParseGrammar: line %d", lineNo+1)
		}
		if binary != nil {
			if seenBinary[binary.Key()] {
				return nil, errors.Errorf("ParseGrammar: line %d: duplicated rule '%s'", lineNo+1, line)
			}
			seenBinary[binary.Key()] = true
			binaryRules = append(binaryRules, binary)
		} else {
			if seenUnary[unary.Key()] {
				return nil, errors.Errorf("ParseGrammar: line %d: duplicated rule '%s'", lineNo+1, line)
			}
			seenUnary[unary.Key()] = true
			unaryRules = append(unaryRules, unary)
		}
	}
	return newGrammar(binaryRules, unaryRules), nil
}
