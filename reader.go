package pcfg

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// RootLabel is the label given to the unlabeled outermost bracket of a
// treebank tree, and the goal symbol of the chart parser
const RootLabel = "ROOT"

// SyntaxError reports a malformed bracketed tree. Tree is the index of the
// tree in the input and Offset the byte offset where the problem was found
type SyntaxError struct {
	Tree   int
	Offset int64
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("tree %d, offset %d: %s", e.Tree, e.Offset, e.Msg)
}

// TreeReader reads trees in Penn Treebank bracket notation from a stream
type TreeReader struct {
	in     *bufio.Reader
	offset int64
	index  int
}

// NewTreeReader creates a TreeReader on r
func NewTreeReader(r io.Reader) *TreeReader {
	return &TreeReader{in: bufio.NewReader(r)}
}

// ReadTree parses a single bracketed tree from s
func ReadTree(s string) (*Tree, error) {
	reader := NewTreeReader(strings.NewReader(s))
	tree, err := reader.Next()
	if err == io.EOF {
		return nil, &SyntaxError{Tree: 0, Offset: 0, Msg: "no tree found"}
	}
	if err != nil {
		return nil, err
	}
	if err := reader.skipSpace(); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "ReadTree")
	}
	if _, err := reader.peek(); err != io.EOF {
		return nil, reader.syntaxError("unexpected text after tree")
	}
	return tree, nil
}

// ReadTrees reads every tree from r. It stops at the first malformed tree
func ReadTrees(r io.Reader) ([]*Tree, error) {
	reader := NewTreeReader(r)
	trees := []*Tree{}
	for {
		tree, err := reader.Next()
		if err == io.EOF {
			return trees, nil
		}
		if err != nil {
			return trees, err
		}
		trees = append(trees, tree)
	}
}

// Next returns the next tree, or io.EOF when the input is exhausted. After a
// *SyntaxError the reader skips to the next top-level bracket, so callers
// may continue reading the remaining trees
func (r *TreeReader) Next() (*Tree, error) {
	if err := r.skipSpace(); err != nil {
		return nil, err
	}
	ch, err := r.peek()
	if err != nil {
		return nil, err
	}
	defer func() { r.index++ }()
	if ch != '(' {
		syntaxErr := r.syntaxError(fmt.Sprintf("expected '(' but found %q", ch))
		r.resync(0)
		return nil, syntaxErr
	}

	tree, depth, err := r.readTree(true, 0)
	if err != nil {
		if _, ok := err.(*SyntaxError); ok {
			r.resync(depth)
		}
		return nil, err
	}
	return tree, nil
}

// readTree reads "(label children...)". depth is the number of brackets
// opened so far and is returned so that the caller can resynchronise
func (r *TreeReader) readTree(isRoot bool, depth int) (*Tree, int, error) {
	if err := r.expect('('); err != nil {
		return nil, depth, err
	}
	depth++
	if err := r.skipSpace(); err != nil {
		return nil, depth, r.unexpectedEOF(err)
	}

	label := ""
	ch, err := r.peek()
	if err != nil {
		return nil, depth, r.unexpectedEOF(err)
	}
	if ch != '(' {
		if label, err = r.readText(); err != nil {
			return nil, depth, r.unexpectedEOF(err)
		}
	}
	if label == "" {
		if !isRoot {
			return nil, depth, r.syntaxError("missing label")
		}
		label = RootLabel
	}

	if err := r.skipSpace(); err != nil {
		return nil, depth, r.unexpectedEOF(err)
	}
	if ch, err = r.peek(); err != nil {
		return nil, depth, r.unexpectedEOF(err)
	}

	node := &Tree{Label: label}
	switch {
	case ch == ')':
		return nil, depth, r.syntaxError(fmt.Sprintf("node %q has no children", label))
	case ch != '(':
		// A word: the node is a pre-terminal
		word, err := r.readText()
		if err != nil {
			return nil, depth, r.unexpectedEOF(err)
		}
		node.Children = []*Tree{NewLeaf(word)}
	default:
		for ch == '(' {
			child, childDepth, err := r.readTree(false, depth)
			if err != nil {
				return nil, childDepth, err
			}
			node.Children = append(node.Children, child)
			if err := r.skipSpace(); err != nil {
				return nil, depth, r.unexpectedEOF(err)
			}
			if ch, err = r.peek(); err != nil {
				return nil, depth, r.unexpectedEOF(err)
			}
		}
	}

	if err := r.skipSpace(); err != nil {
		return nil, depth, r.unexpectedEOF(err)
	}
	if err := r.expect(')'); err != nil {
		return nil, depth, err
	}
	return node, depth - 1, nil
}

// resync discards input until depth open brackets are closed
func (r *TreeReader) resync(depth int) {
	for {
		ch, err := r.read()
		if err != nil {
			return
		}
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth <= 0 {
			if depth == 0 && ch == ')' {
				return
			}
			depth = 0
			if next, err := r.peek(); err != nil || next == '(' {
				return
			}
		}
	}
}

func (r *TreeReader) syntaxError(msg string) *SyntaxError {
	return &SyntaxError{Tree: r.index, Offset: r.offset, Msg: msg}
}

func (r *TreeReader) unexpectedEOF(err error) error {
	if err == io.EOF {
		return r.syntaxError("unbalanced parentheses: unexpected end of input")
	}
	return errors.Wrapf(err, "reading tree %d", r.index)
}

func (r *TreeReader) read() (rune, error) {
	ch, size, err := r.in.ReadRune()
	if err != nil {
		return 0, err
	}
	r.offset += int64(size)
	return ch, nil
}

func (r *TreeReader) peek() (rune, error) {
	ch, _, err := r.in.ReadRune()
	if err != nil {
		return 0, err
	}
	return ch, r.in.UnreadRune()
}

func (r *TreeReader) expect(want rune) error {
	ch, err := r.peek()
	if err != nil {
		return r.unexpectedEOF(err)
	}
	if ch != want {
		return r.syntaxError(fmt.Sprintf("expected %q but found %q", want, ch))
	}
	_, err = r.read()
	return err
}

func (r *TreeReader) skipSpace() error {
	for {
		ch, err := r.peek()
		if err != nil {
			return err
		}
		if !isSpace(ch) {
			return nil
		}
		if _, err := r.read(); err != nil {
			return err
		}
	}
}

// readText reads a label or a word, which ends at a space or a parenthesis
func (r *TreeReader) readText() (string, error) {
	var sb strings.Builder
	for {
		ch, err := r.peek()
		if err == io.EOF && sb.Len() > 0 {
			return sb.String(), nil
		}
		if err != nil {
			return "", err
		}
		if isSpace(ch) || ch == '(' || ch == ')' {
			return sb.String(), nil
		}
		sb.WriteRune(ch)
		if _, err := r.read(); err != nil {
			return "", err
		}
	}
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\f' || ch == '\r' || ch == '\n'
}
