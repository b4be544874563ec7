package pcfg

import (
	"log/slog"
	"strings"
)

// FallbackLabel labels merges in a right-branching parse when training saw
// no phrasal label at all
const FallbackLabel = "X"

// BaselineParser tags a sentence with the best tag of each word, then either
// returns the most frequent training tree with the same tag sequence, or
// builds a right-branching tree labeled by the most frequent label of each
// span length
type BaselineParser struct {
	config Config
	logger *slog.Logger

	lexicon *Lexicon

	// Trees of each tag sequence, counted by their bracketed form
	knownParses map[string]*counter
	knownTrees  map[string]*Tree

	// Phrasal labels counted by span length, and overall
	spanLabels map[int]*counter
	labels     *counter
}

// NewBaselineParser creates an untrained BaselineParser
func NewBaselineParser(config Config, opts ...Option) *BaselineParser {
	options := buildOptions(opts)
	return &BaselineParser{config: config, logger: options.logger}
}

// Train memorizes the parse of every tag sequence and the labels of every
// span length
func (p *BaselineParser) Train(trees []*Tree) error {
	p.lexicon = NewLexicon(p.config.RareThreshold)
	p.lexicon.Train(trees)
	p.knownParses = map[string]*counter{}
	p.knownTrees = map[string]*Tree{}
	p.spanLabels = map[int]*counter{}
	p.labels = newCounter()

	for _, tree := range trees {
		key := tagKey(tree.PreTerminalYield())
		if p.knownParses[key] == nil {
			p.knownParses[key] = newCounter()
		}
		repr := tree.String()
		if _, ok := p.knownTrees[repr]; !ok {
			p.knownTrees[repr] = tree.DeepCopy()
		}
		p.knownParses[key].Increment(repr, 1)
		p.tallySpans(tree, 0)
	}

	p.logger.Info("trained baseline parser",
		"trees", len(trees),
		"tag_sequences", len(p.knownParses),
		"span_lengths", len(p.spanLabels))
	return nil
}

// tallySpans counts the label of every phrasal node by the length of its span
// and returns the span length of tree
func (p *BaselineParser) tallySpans(tree *Tree, start int) int {
	if tree.IsLeaf() || tree.IsPreTerminal() {
		return 1
	}
	end := start
	for _, child := range tree.Children {
		end += p.tallySpans(child, end)
	}
	if tree.Label != p.config.RootLabel {
		span := end - start
		if p.spanLabels[span] == nil {
			p.spanLabels[span] = newCounter()
		}
		p.spanLabels[span].Increment(tree.Label, 1)
		p.labels.Increment(tree.Label, 1)
	}
	return end - start
}

// BestParse returns the memorized parse of the tag sequence of sentence with
// its words, or a right-branching parse
func (p *BaselineParser) BestParse(sentence []string) (*Tree, error) {
	if p.lexicon == nil || len(p.lexicon.AllTags()) == 0 {
		return nil, ErrNotTrained
	}
	if len(sentence) == 0 {
		return nil, ErrEmptySentence
	}

	tags := p.tagSentence(sentence)
	if parses, ok := p.knownParses[tagKey(tags)]; ok {
		repr, _ := parses.ArgMax()
		if tree, err := p.knownTrees[repr].WithWords(sentence); err == nil {
			return tree, nil
		}
	}
	return p.buildRightBranchParse(sentence, tags), nil
}

// tagSentence picks for every word the tag with the highest lexicon score
func (p *BaselineParser) tagSentence(sentence []string) []string {
	tags := make([]string, len(sentence))
	for i, word := range sentence {
		bestScore := 0.0
		for _, tag := range p.lexicon.AllTags() {
			score := p.lexicon.Score(word, tag)
			if tags[i] == "" || score > bestScore {
				tags[i], bestScore = tag, score
			}
		}
	}
	return tags
}

// buildRightBranchParse merges the tagged words from right to left
func (p *BaselineParser) buildRightBranchParse(words, tags []string) *Tree {
	last := len(words) - 1
	tree := NewTree(tags[last], NewLeaf(words[last]))
	for i := last - 1; i >= 0; i-- {
		left := NewTree(tags[i], NewLeaf(words[i]))
		tree = NewTree(p.mergeLabel(len(words)-i), left, tree)
	}
	return NewTree(p.config.RootLabel, tree)
}

// mergeLabel returns the most frequent label of spans of the given length
func (p *BaselineParser) mergeLabel(span int) string {
	if labels, ok := p.spanLabels[span]; ok {
		if label, ok := labels.ArgMax(); ok {
			return label
		}
	}
	if label, ok := p.labels.ArgMax(); ok {
		return label
	}
	return FallbackLabel
}

func tagKey(tags []string) string {
	return strings.Join(tags, " ")
}
