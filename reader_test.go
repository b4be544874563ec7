package pcfg

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTreeRoundTrip(t *testing.T) {
	cases := []string{
		"(S (NP (DT the) (NN cat)) (VP (VBZ sat)))",
		"(ROOT (S (NP-SBJ (PRP I)) (VP (VBD saw) (NP (-NONE- *T*-1))) (. .)))",
		"(X (Y z))",
	}
	for _, s := range cases {
		tree, err := ReadTree(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, tree.String())
	}
}

func TestReadTreeWhitespace(t *testing.T) {
	tree, err := ReadTree("\n (S\n\t(NP (DT the)  (NN cat))\r\n (VP (VBZ sat)) ) \n")
	require.NoError(t, err)
	assert.Equal(t, "(S (NP (DT the) (NN cat)) (VP (VBZ sat)))", tree.String())
}

func TestReadTreeUnlabeledRoot(t *testing.T) {
	tree, err := ReadTree("( (S (NP (NN it)) (VP (VBZ works))))")
	require.NoError(t, err)
	assert.Equal(t, RootLabel, tree.Label)
	assert.Equal(t, "S", tree.Children[0].Label)
}

func TestReadTreeErrors(t *testing.T) {
	cases := []struct {
		input string
		msg   string
	}{
		{"(S (NP (DT the) (NN cat))", "unbalanced"},
		{"(S (NP (DT the)) extra)", "expected ')'"},
		{"(S (NP))", "no children"},
		{"(S ((DT the)))", "missing label"},
		{"word", "expected '('"},
		{"", "no tree"},
		{"(S (DT a)) (S (DT b))", "unexpected text"},
	}
	for _, c := range cases {
		_, err := ReadTree(c.input)
		require.Error(t, err, c.input)
		assert.Contains(t, err.Error(), c.msg, c.input)

		var syntaxErr *SyntaxError
		assert.ErrorAs(t, err, &syntaxErr, c.input)
	}
}

func TestReadTreeErrorOffset(t *testing.T) {
	_, err := ReadTree("(S (NP (DT the)) oops)")
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 0, syntaxErr.Tree)
	assert.Equal(t, int64(17), syntaxErr.Offset)
}

func TestTreeReaderRecovers(t *testing.T) {
	input := "(S (DT a))\n(S (NP (DT b)) junk)\n(S (DT c))\n"
	reader := NewTreeReader(strings.NewReader(input))

	tree, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, tree.Yield())

	_, err = reader.Next()
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 1, syntaxErr.Tree)

	tree, err = reader.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, tree.Yield())

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReadTrees(t *testing.T) {
	trees, err := ReadTrees(strings.NewReader("(A (B b))\n\n(C (D d) (E e))"))
	require.NoError(t, err)
	require.Len(t, trees, 2)
	assert.Equal(t, "(C (D d) (E e))", trees[1].String())

	trees, err = ReadTrees(strings.NewReader("(A (B b)) (C (D"))
	assert.Error(t, err)
	assert.Len(t, trees, 1)
}
