package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ling0322/pcfg"
)

// app holds the state shared by the subcommands
type app struct {
	configPath string
	verbose    bool
	trainPath  string

	config pcfg.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "pcfg",
		Short:         "Train a PCFG parser on a treebank, then parse or evaluate",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().StringVarP(&a.trainPath, "train", "t", "", "treebank file or directory to train on")
	_ = rootCmd.MarkPersistentFlagRequired("train")

	rootCmd.AddCommand(newParseCmd(a), newEvalCmd(a), newGrammarCmd(a))
	return rootCmd
}

// setup loads the configuration and the logger
func (a *app) setup(stderr io.Writer) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	a.config = pcfg.DefaultConfig()
	if a.configPath != "" {
		config, err := pcfg.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		a.config = config
	}
	return nil
}

// train builds the configured parser and trains it on the training treebank
func (a *app) train() (pcfg.Parser, error) {
	trees, err := loadTrees(a.trainPath, a.logger)
	if err != nil {
		return nil, err
	}
	parser, err := pcfg.NewParser(a.config, pcfg.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	if err := parser.Train(trees); err != nil {
		return nil, err
	}
	return parser, nil
}

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Parse sentences read from stdin, one whitespace-tokenized sentence per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := a.train()
			if err != nil {
				return err
			}
			sentences, err := readSentences(cmd.InOrStdin())
			if err != nil {
				return err
			}
			results, err := pcfg.ParseAll(cmd.Context(), parser, sentences, a.config.Workers)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, result := range results {
				if result.Err != nil {
					a.logger.Warn("sentence not parsed", "index", result.Index, "error", result.Err)
					fmt.Fprintf(out, "(%s)\n", a.config.RootLabel)
					continue
				}
				fmt.Fprintln(out, result.Tree)
			}
			return nil
		},
	}
}

func readSentences(r io.Reader) ([][]string, error) {
	sentences := [][]string{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if tokens := strings.Fields(scanner.Text()); len(tokens) > 0 {
			sentences = append(sentences, tokens)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading sentences")
	}
	return sentences, nil
}

func newEvalCmd(a *app) *cobra.Command {
	var (
		testPath string
		show     bool
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the parser on a test treebank with labeled constituent F1",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := a.train()
			if err != nil {
				return err
			}
			testTrees, err := loadTrees(testPath, a.logger)
			if err != nil {
				return err
			}

			// Sentences over the length cap are left out of the evaluation
			gold := []*pcfg.Tree{}
			sentences := [][]string{}
			for _, tree := range testTrees {
				sentence := tree.Yield()
				if a.config.MaxLength > 0 && len(sentence) > a.config.MaxLength {
					continue
				}
				gold = append(gold, tree)
				sentences = append(sentences, sentence)
			}

			registry := prometheus.NewRegistry()
			metrics, err := pcfg.NewMetrics(registry)
			if err != nil {
				return err
			}
			results, err := pcfg.ParseAll(cmd.Context(), parser, sentences, a.config.Workers, pcfg.WithMetrics(metrics))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			eval := pcfg.NewLabeledConstituentEval(a.config.IgnoreLabels, a.config.PunctuationTags)
			for i, result := range results {
				if result.Err != nil && !errors.Is(result.Err, pcfg.ErrNoParse) {
					a.logger.Warn("sentence not parsed", "index", i, "error", result.Err)
				}
				sentenceResult := eval.Evaluate(result.Tree, gold[i])
				if show {
					guess := "(no parse)"
					if result.Tree != nil {
						guess = result.Tree.Pretty()
					}
					fmt.Fprintf(out, "Guess:\n%s\nGold:\n%s\n%s\n\n", guess, gold[i].Pretty(), sentenceResult)
				}
			}
			fmt.Fprintf(out, "[Average] %s Exact: %d/%d No parse: %d\n",
				eval.Total(), eval.Exact(), eval.Sentences(), eval.Failures())
			return nil
		},
	}
	cmd.Flags().StringVar(&testPath, "test", "", "treebank file or directory to evaluate on")
	cmd.Flags().BoolVar(&show, "show", false, "print every guessed and gold tree")
	_ = cmd.MarkFlagRequired("test")
	return cmd
}

func newGrammarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "grammar",
		Short: "Print the grammar induced from the training treebank",
		RunE: func(cmd *cobra.Command, args []string) error {
			trees, err := loadTrees(a.trainPath, a.logger)
			if err != nil {
				return err
			}
			parser := pcfg.NewPCFGParser(a.config, pcfg.WithLogger(a.logger))
			if err := parser.Train(trees); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), parser.Grammar())
			return nil
		},
	}
}
