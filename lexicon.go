package pcfg

import (
	"sort"
)

// DefaultRareThreshold is the word count under which a word is smoothed
// toward the distribution of unseen words
const DefaultRareThreshold = 10

// Lexicon scores (word, tag) pairs with a smoothed estimate of
// P(tag|word) / P(tag) * P(word), which ranks tags like P(word|tag).
// Counts only grow while training and are read-only afterwards
type Lexicon struct {
	rareThreshold float64

	wordTagCounts  map[string]map[string]float64
	wordCounts     map[string]float64
	tagCounts      map[string]float64
	typeTagCounts  map[string]float64
	totalTokens    float64
	totalWordTypes float64
}

// NewLexicon creates an empty lexicon. Words seen fewer than rareThreshold
// times are smoothed
func NewLexicon(rareThreshold int) *Lexicon {
	return &Lexicon{
		rareThreshold: float64(rareThreshold),
		wordTagCounts: map[string]map[string]float64{},
		wordCounts:    map[string]float64{},
		tagCounts:     map[string]float64{},
		typeTagCounts: map[string]float64{},
	}
}

// Train counts the tagged words of trees
func (l *Lexicon) Train(trees []*Tree) {
	for _, tree := range trees {
		tree.walk(func(n *Tree) bool {
			if n.IsPreTerminal() {
				l.tally(n.Children[0].Label, n.Label)
				return false
			}
			return true
		})
	}
}

func (l *Lexicon) tally(word, tag string) {
	if !l.IsKnown(word) {
		l.totalWordTypes++
		l.typeTagCounts[tag]++
	}
	l.totalTokens++
	l.tagCounts[tag]++
	l.wordCounts[word]++
	if l.wordTagCounts[word] == nil {
		l.wordTagCounts[word] = map[string]float64{}
	}
	l.wordTagCounts[word][tag]++
}

// AllTags returns every tag seen in training, sorted
func (l *Lexicon) AllTags() []string {
	tags := make([]string, 0, len(l.tagCounts))
	for tag := range l.tagCounts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// IsKnown reports whether word was seen in training
func (l *Lexicon) IsKnown(word string) bool {
	_, ok := l.wordCounts[word]
	return ok
}

// TotalTokens returns the number of tagged words seen in training
func (l *Lexicon) TotalTokens() int {
	return int(l.totalTokens)
}

// TotalWordTypes returns the number of distinct words seen in training
func (l *Lexicon) TotalWordTypes() int {
	return int(l.totalWordTypes)
}

// Score returns the smoothed score of tagging word with tag. Rare and unseen
// words back off toward the tag distribution of words seen once. The result
// is proportional to P(word|tag) but not normalized. Tags never seen in
// training score 0
func (l *Lexicon) Score(word, tag string) float64 {
	cTag := l.tagCounts[tag]
	if cTag == 0 || l.totalTokens == 0 {
		return 0
	}
	pTag := cTag / l.totalTokens
	cWord := l.wordCounts[word]
	cTagAndWord := l.wordTagCounts[word][tag]
	if cWord < l.rareThreshold {
		cWord += 1
		cTagAndWord += l.typeTagCounts[tag] / l.totalWordTypes
	}
	pWord := (1 + cWord) / (l.totalTokens + l.totalWordTypes)
	pTagGivenWord := cTagAndWord / cWord
	return pTagGivenWord / pTag * pWord
}
