package pcfg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// BinaryRule represents a rule Parent -> Left Right with probability
// P(Left Right | Parent) in Score
type BinaryRule struct {
	Parent string
	Left   string
	Right  string
	Score  float64
}

// BinaryKey identifies a binary rule regardless of its score
type BinaryKey struct {
	Parent, Left, Right string
}

// Key returns the identity of the rule
func (r *BinaryRule) Key() BinaryKey {
	return BinaryKey{r.Parent, r.Left, r.Right}
}

// String converts rule to string format
func (r *BinaryRule) String() string {
	return fmt.Sprintf("%s -> %s %s %%%% %s", r.Parent, r.Left, r.Right, formatScore(r.Score))
}

// UnaryRule represents a rule Parent -> Child with probability
// P(Child | Parent) in Score
type UnaryRule struct {
	Parent string
	Child  string
	Score  float64
}

// UnaryKey identifies a unary rule regardless of its score
type UnaryKey struct {
	Parent, Child string
}

// Key returns the identity of the rule
func (r *UnaryRule) Key() UnaryKey {
	return UnaryKey{r.Parent, r.Child}
}

// String converts rule to string format
func (r *UnaryRule) String() string {
	return fmt.Sprintf("%s -> %s %%%% %s", r.Parent, r.Child, formatScore(r.Score))
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'g', -1, 64)
}

// ParseRule parses a rule from its string format. The rule would be like:
//
//	NP -> DT NN %% 0.25
//
// which returns a binary rule, or
//
//	VP -> VBD %% 1
//
// which returns a unary rule. Exactly one of the results is non-nil when err
// is nil
func ParseRule(ruleText string) (binary *BinaryRule, unary *UnaryRule, err error) {
	fields := strings.Split(ruleText, "%%")
	if len(fields) != 2 {
		err = errors.Errorf("ParseRule: expected exactly one '%%%%' in '%s'", ruleText)
		return
	}
	scoreText := strings.TrimSpace(fields[1])
	score, parseErr := strconv.ParseFloat(scoreText, 64)
	if parseErr != nil {
		err = errors.Errorf("ParseRule: float expected but '%s' found in '%s'", scoreText, ruleText)
		return
	}
	if score < 0 || score > 1 {
		err = errors.Errorf("ParseRule: score %s out of [0, 1] in '%s'", scoreText, ruleText)
		return
	}

	// Symbols of the rule: parent -> children
	symbols := strings.Fields(fields[0])
	if len(symbols) < 3 || symbols[1] != "->" {
		err = errors.Errorf("ParseRule: expected 'parent -> children' in '%s'", ruleText)
		return
	}
	switch children := symbols[2:]; len(children) {
	case 1:
		unary = &UnaryRule{Parent: symbols[0], Child: children[0], Score: score}
	case 2:
		binary = &BinaryRule{Parent: symbols[0], Left: children[0], Right: children[1], Score: score}
	default:
		err = errors.Errorf("ParseRule: %d children in '%s', rules must be unary or binary", len(children), ruleText)
	}
	return
}
