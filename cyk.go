package pcfg

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrNoParse means the sentence has no analysis rooted at the root symbol
	ErrNoParse = errors.New("no parse")

	// ErrEmptySentence means an empty token sequence was given to a parser
	ErrEmptySentence = errors.New("empty sentence")

	// ErrSentenceTooLong means the sentence exceeds the configured length cap
	ErrSentenceTooLong = errors.New("sentence too long")
)

// How an entry of the chart was derived
const (
	derivedByTag = iota
	derivedByUnary
	derivedByBinary
)

// chartEntry is the best known derivation of a symbol over a span
type chartEntry struct {
	symbol int
	logp   float64

	// Backpointer: for binary entries left covers [start, split) and right
	// covers [split, end). For unary entries left is the child symbol over
	// the same span
	derivation int
	split      int
	left       int
	right      int
}

// entryPool is the pool that allocates and stores chartEntry
const entryPoolBatchSize = 4096

type entryPool struct {
	entries [][]chartEntry
	row     int
	column  int
}

// newEntryPool create a new instance of entryPool
func newEntryPool() *entryPool {
	return &entryPool{
		entries: [][]chartEntry{make([]chartEntry, entryPoolBatchSize)},
	}
}

// Get allocates a new chartEntry from pool
func (pool *entryPool) Get() *chartEntry {
	entry := &pool.entries[pool.row][pool.column]

	pool.column++
	if pool.column >= entryPoolBatchSize {
		pool.entries = append(pool.entries, make([]chartEntry, entryPoolBatchSize))
		pool.row++
		pool.column = 0
	}
	return entry
}

// chartCell holds the best entry of each symbol over one span. order keeps
// the symbols in insertion order, which is the enumeration order
type chartCell struct {
	entries map[int]*chartEntry
	order   []int
}

func newChartCell() *chartCell {
	return &chartCell{entries: map[int]*chartEntry{}}
}

// improve returns the entry of symbol to overwrite when logp is strictly
// better than the known score, or nil
func (c *chartCell) improve(pool *entryPool, symbol int, logp float64) *chartEntry {
	entry, ok := c.entries[symbol]
	if ok {
		if logp > entry.logp {
			entry.logp = logp
			return entry
		}
		return nil
	}
	if math.IsInf(logp, -1) {
		return nil
	}
	entry = pool.Get()
	entry.symbol = symbol
	entry.logp = logp
	c.entries[symbol] = entry
	c.order = append(c.order, symbol)
	return entry
}

// chart is the triangular table of one parse. cells[start][length-1] covers
// [start, start+length)
type chart struct {
	grammar  *chartGrammar
	sentence []string
	cells    [][]*chartCell
	pool     *entryPool
}

func (c *chart) cell(start, end int) *chartCell {
	return c.cells[start][end-start-1]
}

// Derivation is the best parse of a sentence before debinarization, together
// with its log score
type Derivation struct {
	Tree    *Tree
	LogProb float64
}

// ChartParser finds the most probable parse of a sentence with the CYK
// algorithm over a binarized grammar and a lexicon. It is safe for
// concurrent use: each call to Parse owns its chart
type ChartParser struct {
	grammar   *chartGrammar
	maxLength int
	logger    *slog.Logger
}

// ChartOption configures a ChartParser
type ChartOption func(*chartOptions)

type chartOptions struct {
	rootLabel string
	maxLength int
	logger    *slog.Logger
}

// WithRootLabel sets the goal symbol, RootLabel by default
func WithRootLabel(label string) ChartOption {
	return func(o *chartOptions) { o.rootLabel = label }
}

// WithMaxLength rejects sentences longer than n tokens with
// ErrSentenceTooLong. n <= 0 disables the cap
func WithMaxLength(n int) ChartOption {
	return func(o *chartOptions) { o.maxLength = n }
}

// WithChartLogger sets the logger receiving the debug dump of the chart
func WithChartLogger(logger *slog.Logger) ChartOption {
	return func(o *chartOptions) { o.logger = logger }
}

// NewChartParser creates a ChartParser from a grammar induced from binarized
// trees and the lexicon trained on them
func NewChartParser(grammar *Grammar, lexicon TagScorer, opts ...ChartOption) *ChartParser {
	options := chartOptions{rootLabel: RootLabel, logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}
	return &ChartParser{
		grammar:   compileGrammar(grammar, lexicon, options.rootLabel),
		maxLength: options.maxLength,
		logger:    options.logger,
	}
}

// Parse returns the most probable binarized parse of sentence. Ties keep the
// derivation found first: split points are tried in ascending order, then the
// symbols of the left cell in insertion order, then the rules in grammar
// order. It returns ErrNoParse when no root analysis spans the sentence
func (p *ChartParser) Parse(sentence []string) (*Derivation, error) {
	n := len(sentence)
	if n == 0 {
		return nil, ErrEmptySentence
	}
	if p.maxLength > 0 && n > p.maxLength {
		return nil, errors.Wrapf(ErrSentenceTooLong, "%d tokens, limit %d", n, p.maxLength)
	}

	c := &chart{
		grammar:  p.grammar,
		sentence: sentence,
		cells:    make([][]*chartCell, n),
		pool:     newEntryPool(),
	}
	for start := range c.cells {
		c.cells[start] = make([]*chartCell, n-start)
		for i := range c.cells[start] {
			c.cells[start][i] = newChartCell()
		}
	}

	c.fillTags(p.lexiconScores(sentence))
	p.dump(c, 1)
	for length := 2; length <= n; length++ {
		for start := 0; start+length <= n; start++ {
			c.fillSpan(start, start+length)
		}
		p.dump(c, length)
	}

	if !p.grammar.hasRoot {
		return nil, ErrNoParse
	}
	root, ok := c.cell(0, n).entries[p.grammar.root]
	if !ok {
		return nil, ErrNoParse
	}
	tree, err := c.build(0, n, root, 0)
	if err != nil {
		return nil, err
	}
	return &Derivation{Tree: tree, LogProb: root.logp}, nil
}

// lexiconScores returns scores[i][k], the score of word i with tag k of the
// chart grammar. It is computed before the chart is built
func (p *ChartParser) lexiconScores(sentence []string) [][]float64 {
	scores := make([][]float64, len(sentence))
	for i, word := range sentence {
		scores[i] = make([]float64, len(p.grammar.tags))
		for k, tag := range p.grammar.tags {
			scores[i][k] = p.grammar.lexicon.Score(word, tag)
		}
	}
	return scores
}

// fillTags seeds the unit spans with the tags of each word, then applies the
// unary rules
func (c *chart) fillTags(scores [][]float64) {
	for i := range c.sentence {
		cell := c.cell(i, i+1)
		for k, tagID := range c.grammar.tagIDs {
			if scores[i][k] <= 0 {
				continue
			}
			if entry := cell.improve(c.pool, tagID, math.Log(scores[i][k])); entry != nil {
				entry.derivation = derivedByTag
			}
		}
		c.closeUnary(cell)
	}
}

// fillSpan combines every pair of adjacent cells covering [start, end), then
// applies the unary rules
func (c *chart) fillSpan(start, end int) {
	cell := c.cell(start, end)
	for split := start + 1; split < end; split++ {
		leftCell := c.cell(start, split)
		rightCell := c.cell(split, end)
		for _, left := range leftCell.order {
			leftEntry := leftCell.entries[left]
			for _, rule := range c.grammar.binaryRules[left] {
				rightEntry, ok := rightCell.entries[rule.right]
				if !ok {
					continue
				}
				logp := leftEntry.logp + rightEntry.logp + rule.logp
				if entry := cell.improve(c.pool, rule.parent, logp); entry != nil {
					entry.derivation = derivedByBinary
					entry.split = split
					entry.left = left
					entry.right = rule.right
				}
			}
		}
	}
	c.closeUnary(cell)
}

// closeUnary applies unary rules until no score improves. Each pass only
// revisits the symbols improved by the previous one. With rule scores at most
// 1 a unary cycle can never improve a score, so the passes end; the bound on
// their number guards against grammars that break this
func (c *chart) closeUnary(cell *chartCell) {
	agenda := append([]int(nil), cell.order...)
	for pass := 0; len(agenda) > 0 && pass <= c.grammar.symbols.Len(); pass++ {
		queued := map[int]bool{}
		next := []int{}
		for _, child := range agenda {
			childEntry := cell.entries[child]
			for _, rule := range c.grammar.unaryRules[child] {
				if rule.parent == child {
					continue
				}
				entry := cell.improve(c.pool, rule.parent, childEntry.logp+rule.logp)
				if entry == nil {
					continue
				}
				entry.derivation = derivedByUnary
				entry.left = child
				if !queued[rule.parent] {
					queued[rule.parent] = true
					next = append(next, rule.parent)
				}
			}
		}
		agenda = next
	}
}

// build reconstructs the tree of entry over [start, end) by following the
// backpointers. unaryDepth counts the unary steps taken within this span
func (c *chart) build(start, end int, entry *chartEntry, unaryDepth int) (*Tree, error) {
	label := c.grammar.symbols.Symbol(entry.symbol)
	switch entry.derivation {
	case derivedByTag:
		return NewTree(label, NewLeaf(c.sentence[start])), nil
	case derivedByUnary:
		if unaryDepth > c.grammar.symbols.Len() {
			return nil, errors.Errorf("unary cycle at %s over [%d, %d)", label, start, end)
		}
		child, err := c.build(start, end, c.cell(start, end).entries[entry.left], unaryDepth+1)
		if err != nil {
			return nil, err
		}
		return NewTree(label, child), nil
	default:
		left, err := c.build(start, entry.split, c.cell(start, entry.split).entries[entry.left], 0)
		if err != nil {
			return nil, err
		}
		right, err := c.build(entry.split, end, c.cell(entry.split, end).entries[entry.right], 0)
		if err != nil {
			return nil, err
		}
		return NewTree(label, left, right), nil
	}
}

// dump logs the cells of one span length at debug level
func (p *ChartParser) dump(c *chart, length int) {
	if !p.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	cellReprs := []string{}
	for start := 0; start+length <= len(c.sentence); start++ {
		cell := c.cell(start, start+length)
		symbols := []string{}
		for _, symbol := range cell.order {
			symbols = append(symbols, fmt.Sprintf("%s:%.3f", c.grammar.symbols.Symbol(symbol), cell.entries[symbol].logp))
		}
		cellReprs = append(cellReprs, fmt.Sprintf("[%d: %s]", start, strings.Join(symbols, " ")))
	}
	p.logger.Debug("chart row", "length", length, "cells", strings.Join(cellReprs, " "))
}
