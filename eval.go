package pcfg

import (
	"fmt"
)

// Precision returns the fraction of guessed items that are correct
func Precision(truePositives, testPositives int) float64 {
	if testPositives == 0 {
		return 0
	}
	return float64(truePositives) / float64(testPositives)
}

// Recall returns the fraction of gold items that were guessed
func Recall(truePositives, conditionPositives int) float64 {
	if conditionPositives == 0 {
		return 0
	}
	return float64(truePositives) / float64(conditionPositives)
}

// F1 returns the harmonic mean of precision and recall
func F1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2.0 * (precision * recall) / (precision + recall)
}

// EvalResult counts labeled constituents for one or more sentences
type EvalResult struct {
	Matched int
	Guessed int
	Gold    int
}

func (r EvalResult) Precision() float64 {
	return Precision(r.Matched, r.Guessed)
}

func (r EvalResult) Recall() float64 {
	return Recall(r.Matched, r.Gold)
}

func (r EvalResult) F1() float64 {
	return F1(r.Precision(), r.Recall())
}

func (r EvalResult) String() string {
	return fmt.Sprintf("P: %5.2f R: %5.2f F1: %5.2f", 100*r.Precision(), 100*r.Recall(), 100*r.F1())
}

// LabeledConstituentEval compares guessed trees with gold trees by their
// labeled constituents. Punctuation pre-terminals are removed from both
// trees before spans are computed, and constituents with an ignored label
// are not counted
type LabeledConstituentEval struct {
	ignoreLabels    map[string]bool
	punctuationTags map[string]bool

	total     EvalResult
	sentences int
	exact     int
	failures  int
}

// NewLabeledConstituentEval creates an evaluator
func NewLabeledConstituentEval(ignoreLabels, punctuationTags []string) *LabeledConstituentEval {
	e := &LabeledConstituentEval{
		ignoreLabels:    map[string]bool{},
		punctuationTags: map[string]bool{},
	}
	for _, label := range ignoreLabels {
		e.ignoreLabels[label] = true
	}
	for _, tag := range punctuationTags {
		e.punctuationTags[tag] = true
	}
	return e
}

// Evaluate adds the comparison of guess with gold to the totals and returns
// the result of this sentence. A nil guess is a failed parse: it matches
// nothing
func (e *LabeledConstituentEval) Evaluate(guess, gold *Tree) EvalResult {
	goldSet := e.constituents(gold)
	guessSet := e.constituents(guess)

	result := EvalResult{}
	for c, n := range goldSet {
		result.Gold += n
		result.Matched += min(n, guessSet[c])
	}
	for _, n := range guessSet {
		result.Guessed += n
	}

	e.sentences++
	if guess == nil {
		e.failures++
	} else if result.Matched == result.Gold && result.Matched == result.Guessed {
		e.exact++
	}
	e.total.Matched += result.Matched
	e.total.Guessed += result.Guessed
	e.total.Gold += result.Gold
	return result
}

// constituents returns the multiset of counted constituents of tree
func (e *LabeledConstituentEval) constituents(tree *Tree) map[Constituent]int {
	set := map[Constituent]int{}
	if tree == nil {
		return set
	}
	stripped := e.stripPunctuation(tree)
	if stripped == nil {
		return set
	}
	for _, c := range stripped.Constituents() {
		if !e.ignoreLabels[c.Label] {
			set[c]++
		}
	}
	return set
}

// stripPunctuation removes punctuation pre-terminals and the nodes left
// without children
func (e *LabeledConstituentEval) stripPunctuation(tree *Tree) *Tree {
	if tree.IsLeaf() {
		return NewLeaf(tree.Label)
	}
	if tree.IsPreTerminal() && e.punctuationTags[tree.Label] {
		return nil
	}
	children := []*Tree{}
	for _, child := range tree.Children {
		if stripped := e.stripPunctuation(child); stripped != nil {
			children = append(children, stripped)
		}
	}
	if len(children) == 0 {
		return nil
	}
	return &Tree{Label: tree.Label, Children: children}
}

// Total returns the counts over every evaluated sentence
func (e *LabeledConstituentEval) Total() EvalResult {
	return e.total
}

// Precision over every evaluated sentence
func (e *LabeledConstituentEval) Precision() float64 {
	return e.total.Precision()
}

// Recall over every evaluated sentence
func (e *LabeledConstituentEval) Recall() float64 {
	return e.total.Recall()
}

// F1 over every evaluated sentence
func (e *LabeledConstituentEval) F1() float64 {
	return e.total.F1()
}

// Sentences returns the number of evaluated sentences
func (e *LabeledConstituentEval) Sentences() int {
	return e.sentences
}

// Exact returns the number of sentences whose constituents all match
func (e *LabeledConstituentEval) Exact() int {
	return e.exact
}

// Failures returns the number of sentences evaluated without a guess
func (e *LabeledConstituentEval) Failures() int {
	return e.failures
}
