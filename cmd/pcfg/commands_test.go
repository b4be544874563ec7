package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treebank = `( (S (NP-SBJ (DT the) (NN dog)) (VP (VBD ran) (NP (-NONE- *T*)))))
( (S (NP junk) oops))
`

func writeTreebank(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "00"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00", "wsj_0001.mrg"), []byte(treebank), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("not a treebank"), 0o644))
	return dir
}

func runCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGrammarCommand(t *testing.T) {
	dir := writeTreebank(t)
	stdout, stderr, err := runCommand(t, "", "grammar", "--train", dir)
	require.NoError(t, err)

	expected := "NP -> DT NN %% 1\nROOT -> S %% 1\nS -> NP VP %% 1\nVP -> VBD %% 1\n"
	assert.Equal(t, expected, stdout)
	assert.Contains(t, stderr, "skipping malformed tree")
}

func TestParseCommand(t *testing.T) {
	dir := writeTreebank(t)
	stdout, _, err := runCommand(t, "the dog ran\n\nthe dog\n", "parse", "--train", dir)
	require.NoError(t, err)
	assert.Equal(t, "(ROOT (S (NP (DT the) (NN dog)) (VP (VBD ran))))\n(ROOT)\n", stdout)
}

func TestEvalCommand(t *testing.T) {
	dir := writeTreebank(t)
	stdout, _, err := runCommand(t, "", "eval", "--train", dir, "--test", dir)
	require.NoError(t, err)
	assert.Equal(t, "[Average] P: 100.00 R: 100.00 F1: 100.00 Exact: 1/1 No parse: 0\n", stdout)
}

func TestCommandConfig(t *testing.T) {
	dir := writeTreebank(t)
	config := filepath.Join(t.TempDir(), "pcfg.yaml")
	require.NoError(t, os.WriteFile(config, []byte("parser: baseline\n"), 0o644))

	stdout, _, err := runCommand(t, "the cat ran\n", "parse", "--train", dir, "--config", config)
	require.NoError(t, err)
	// The unseen word ties on every tag and takes the first one
	assert.Equal(t, "(ROOT (S (DT the) (NP (DT cat) (VBD ran))))\n", stdout)

	require.NoError(t, os.WriteFile(config, []byte("workers: 0\n"), 0o644))
	_, _, err = runCommand(t, "", "grammar", "--train", dir, "--config", config)
	assert.Error(t, err)
}

func TestMissingTreebank(t *testing.T) {
	_, _, err := runCommand(t, "", "grammar", "--train", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
