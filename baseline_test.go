package pcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedBaseline(t *testing.T, sources ...string) *BaselineParser {
	t.Helper()
	parser := NewBaselineParser(DefaultConfig(), WithLogger(discardLogger()))
	require.NoError(t, parser.Train(readTrees(t, sources...)))
	return parser
}

func TestBaselineParserKnownTags(t *testing.T) {
	parser := trainedBaseline(t,
		"(ROOT (S (NP (DT the) (NN dog)) (VP (VBD ran))))",
		"(ROOT (FRAG (NP (DT a) (NN cat)) (VBD sat)))",
		"(ROOT (FRAG (NP (DT a) (NN cat)) (VBD sat)))",
	)

	tree, err := parser.BestParse([]string{"the", "dog", "ran"})
	require.NoError(t, err)
	assert.Equal(t, "(ROOT (FRAG (NP (DT the) (NN dog)) (VBD ran)))", tree.String())
}

func TestBaselineParserTieKeepsFirst(t *testing.T) {
	parser := trainedBaseline(t,
		"(ROOT (S (NP (DT the) (NN dog)) (VP (VBD ran))))",
		"(ROOT (FRAG (NP (DT a) (NN cat)) (VBD sat)))",
	)

	tree, err := parser.BestParse([]string{"a", "cat", "sat"})
	require.NoError(t, err)
	assert.Equal(t, "(ROOT (S (NP (DT a) (NN cat)) (VP (VBD sat))))", tree.String())
}

func TestBaselineParserRightBranching(t *testing.T) {
	parser := trainedBaseline(t,
		"(ROOT (S (NP (DT the) (NN dog)) (VP (VBD ran))))",
		"(ROOT (FRAG (NP (DT a) (NN cat)) (VBD sat)))",
		"(ROOT (FRAG (NP (DT a) (NN cat)) (VBD sat)))",
	)

	tree, err := parser.BestParse([]string{"ran", "the", "dog"})
	require.NoError(t, err)
	assert.Equal(t, "(ROOT (FRAG (VBD ran) (NP (DT the) (NN dog))))", tree.String())

	// No span of length 4 was seen: the most frequent label overall is used
	tree, err = parser.BestParse([]string{"the", "dog", "ran", "ran"})
	require.NoError(t, err)
	assert.Equal(t, "(ROOT (NP (DT the) (FRAG (NN dog) (NP (VBD ran) (VBD ran)))))", tree.String())
}

func TestBaselineParserFallbackLabel(t *testing.T) {
	parser := trainedBaseline(t, "(ROOT (NN word))")

	tree, err := parser.BestParse([]string{"word"})
	require.NoError(t, err)
	assert.Equal(t, "(ROOT (NN word))", tree.String())

	tree, err = parser.BestParse([]string{"word", "word"})
	require.NoError(t, err)
	assert.Equal(t, "(ROOT (X (NN word) (NN word)))", tree.String())
}

func TestBaselineParserErrors(t *testing.T) {
	parser := NewBaselineParser(DefaultConfig(), WithLogger(discardLogger()))
	_, err := parser.BestParse([]string{"word"})
	assert.ErrorIs(t, err, ErrNotTrained)

	parser = trainedBaseline(t, "(ROOT (NN word))")
	_, err = parser.BestParse(nil)
	assert.ErrorIs(t, err, ErrEmptySentence)
}
