package pcfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinarize(t *testing.T) {
	tree := mustReadTree(t, "(ROOT (NP (DT the) (JJ big) (JJ red) (NN dog)))")
	binarized := Binarize(tree)

	expected := "(ROOT (NP (DT the) (@NP->_DT (JJ big) (@NP->_DT_JJ (JJ red) (@NP->_DT_JJ_JJ (NN dog))))))"
	assert.Equal(t, expected, binarized.String())
	// The input is untouched
	assert.Equal(t, "(ROOT (NP (DT the) (JJ big) (JJ red) (NN dog)))", tree.String())
}

func TestBinarizeKeepsSmallNodes(t *testing.T) {
	s := "(ROOT (S (NP (NN it)) (VP (VBZ works))))"
	assert.Equal(t, s, Binarize(mustReadTree(t, s)).String())
}

func TestBinarizeArity(t *testing.T) {
	tree := mustReadTree(t, "(ROOT (S (NP (DT a) (NN b) (NN c)) (VP (VB d) (NP (NN e)) (PP (IN f) (NP (NN g))) (ADVP (RB h))) (. .)))")
	for _, node := range Binarize(tree).PreOrder() {
		if !node.IsLeaf() {
			assert.LessOrEqual(t, len(node.Children), 2, node.Label)
		}
	}
}

func TestDebinarize(t *testing.T) {
	cases := []string{
		"(ROOT (NP (DT the) (JJ big) (JJ red) (NN dog)))",
		"(ROOT (S (NP (DT a) (NN b) (NN c)) (VP (VB d) (NP (NN e)) (PP (IN f) (NP (NN g))) (ADVP (RB h))) (. .)))",
		"(ROOT (S (NP (NN it)) (VP (VBZ works))))",
		"(ROOT (X (A a) (B b) (C c) (D d) (E e) (F f)))",
	}
	for _, s := range cases {
		tree := mustReadTree(t, s)
		debinarized, err := Debinarize(Binarize(tree))
		require.NoError(t, err, s)
		assert.True(t, tree.Equal(debinarized), s)
	}
}

func TestDebinarizeStripsFunctionLabels(t *testing.T) {
	tree := mustReadTree(t, "(ROOT (NP-SBJ (@NP->_DT (DT the) (NN dog))))")
	debinarized, err := Debinarize(tree)
	require.NoError(t, err)
	assert.Equal(t, "(ROOT (NP (DT the) (NN dog)))", debinarized.String())
}

func TestSyntheticLabel(t *testing.T) {
	label := SyntheticLabel{Parent: "VP", History: []string{"VB", "NP"}}
	assert.Equal(t, "@VP->_VB_NP", label.String())
	assert.Equal(t, "@VP->", SyntheticLabel{Parent: "VP"}.String())

	parsed, ok := ParseSyntheticLabel("@VP->_VB_NP")
	require.True(t, ok)
	assert.Equal(t, label, parsed)

	parsed, ok = ParseSyntheticLabel("@S->")
	require.True(t, ok)
	assert.Equal(t, "S", parsed.Parent)
	assert.Empty(t, parsed.History)

	_, ok = ParseSyntheticLabel("NP")
	assert.False(t, ok)
	_, ok = ParseSyntheticLabel("@NP")
	assert.False(t, ok)
	_, ok = ParseSyntheticLabel("@NP->VB")
	assert.False(t, ok)

	assert.True(t, IsSynthetic("@NP->_DT"))
	assert.False(t, IsSynthetic("NP"))
}
