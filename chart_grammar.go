package pcfg

import (
	"math"
)

// SymbolTable maps symbols to dense ids
type SymbolTable struct {
	// Map from symbol name to its id
	ids map[string]int

	// Map from id to symbol name
	symbols []string
}

// NewSymbolTable creates an empty SymbolTable
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{ids: map[string]int{}}
}

// Intern returns the id of symbol, inserting it when it's not in the table
func (t *SymbolTable) Intern(symbol string) int {
	if id, ok := t.ids[symbol]; ok {
		return id
	}
	id := len(t.symbols)
	t.ids[symbol] = id
	t.symbols = append(t.symbols, symbol)
	return id
}

// ID returns the id of symbol
func (t *SymbolTable) ID(symbol string) (int, bool) {
	id, ok := t.ids[symbol]
	return id, ok
}

// Symbol returns the symbol of id
func (t *SymbolTable) Symbol(id int) string {
	return t.symbols[id]
}

// Len returns the number of symbols
func (t *SymbolTable) Len() int {
	return len(t.symbols)
}

// chartBinaryRule is a binary rule indexed by its left child
type chartBinaryRule struct {
	parent int
	right  int
	logp   float64
}

// chartUnaryRule is a unary rule indexed by its child
type chartUnaryRule struct {
	parent int
	logp   float64
}

// chartGrammar is the grammar and the tag set with every symbol replaced by
// its id and every score by its logarithm. Rules keep the order of Grammar
type chartGrammar struct {
	symbols *SymbolTable

	// binaryRules[left] lists the rules parent -> left right
	binaryRules [][]chartBinaryRule

	// unaryRules[child] lists the rules parent -> child
	unaryRules [][]chartUnaryRule

	// Tags of the lexicon in the order it reports them
	lexicon TagScorer
	tags    []string
	tagIDs  []int
	root    int
	hasRoot bool
}

// TagScorer is what the chart parser needs from a lexicon: the tag set and
// the score of tagging a word. *Lexicon implements it
type TagScorer interface {
	AllTags() []string
	Score(word, tag string) float64
}

// compileGrammar builds the chartGrammar of grammar and lexicon. Rules with
// zero probability are dropped
func compileGrammar(grammar *Grammar, lexicon TagScorer, rootLabel string) *chartGrammar {
	symbols := NewSymbolTable()
	g := &chartGrammar{symbols: symbols, lexicon: lexicon, tags: lexicon.AllTags()}
	for _, tag := range g.tags {
		g.tagIDs = append(g.tagIDs, symbols.Intern(tag))
	}
	for _, symbol := range grammar.Symbols() {
		symbols.Intern(symbol)
	}
	g.root, g.hasRoot = symbols.ID(rootLabel)

	g.binaryRules = make([][]chartBinaryRule, symbols.Len())
	g.unaryRules = make([][]chartUnaryRule, symbols.Len())
	for _, rule := range grammar.BinaryRules() {
		if rule.Score <= 0 {
			continue
		}
		left, _ := symbols.ID(rule.Left)
		right, _ := symbols.ID(rule.Right)
		parent, _ := symbols.ID(rule.Parent)
		g.binaryRules[left] = append(g.binaryRules[left], chartBinaryRule{
			parent: parent,
			right:  right,
			logp:   math.Log(rule.Score),
		})
	}
	for _, rule := range grammar.UnaryRules() {
		if rule.Score <= 0 {
			continue
		}
		child, _ := symbols.ID(rule.Child)
		parent, _ := symbols.ID(rule.Parent)
		g.unaryRules[child] = append(g.unaryRules[child], chartUnaryRule{
			parent: parent,
			logp:   math.Log(rule.Score),
		})
	}
	return g
}
