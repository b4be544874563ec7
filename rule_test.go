package pcfg

import (
	"testing"
)

func TestParseRule(t *testing.T) {
	// TestCase-1
	binary, unary, err := ParseRule("NP -> DT NN %% 0.25")
	if err != nil {
		t.Fatal(err)
	}
	if binary == nil || unary != nil {
		t.Fatal("binary rule expected")
	}
	expected := "NP -> DT NN %% 0.25"
	if binary.String() != expected {
		t.Fatalf("'%s' != '%s'", binary.String(), expected)
	}
	if binary.Key() != (BinaryKey{"NP", "DT", "NN"}) {
		t.Fatalf("unexpected key %v", binary.Key())
	}

	// TestCase-2
	binary, unary, err = ParseRule("  VP   ->  VBD  %%1 ")
	if err != nil {
		t.Fatal(err)
	}
	if binary != nil || unary == nil {
		t.Fatal("unary rule expected")
	}
	expected = "VP -> VBD %% 1"
	if unary.String() != expected {
		t.Fatalf("'%s' != '%s'", unary.String(), expected)
	}
	if unary.Key() != (UnaryKey{"VP", "VBD"}) {
		t.Fatalf("unexpected key %v", unary.Key())
	}

	// TestCase-3: synthetic symbols are plain symbols
	binary, _, err = ParseRule("@NP->_DT -> JJ @NP->_DT_JJ %% 0.5")
	if err != nil {
		t.Fatal(err)
	}
	if binary.Parent != "@NP->_DT" || binary.Right != "@NP->_DT_JJ" {
		t.Fatalf("unexpected rule %s", binary)
	}

	// TestCase-4: failed cases
	failed := []string{
		"NP -> DT NN",
		"NP -> DT NN %% 0.2 %% 0.3",
		"NP -> DT NN %% high",
		"NP -> DT NN %% 1.5",
		"NP -> DT NN %% -0.1",
		"NP DT NN %% 0.5",
		"NP -> %% 0.5",
		"NP -> DT JJ NN %% 0.5",
	}
	for _, text := range failed {
		if _, _, err = ParseRule(text); err == nil {
			t.Fatalf("err != nil expected for '%s'", text)
		}
	}
}

func TestFormatScore(t *testing.T) {
	rule := &UnaryRule{Parent: "S", Child: "VP", Score: 1.0 / 3}
	binary, unary, err := ParseRule(rule.String())
	if err != nil {
		t.Fatal(err)
	}
	if binary != nil || *unary != *rule {
		t.Fatalf("'%s' != '%s'", unary, rule)
	}
}
