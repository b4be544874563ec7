package pcfg

import (
	"log/slog"

	"github.com/pkg/errors"
)

// ErrNotTrained is returned by parsers used before Train
var ErrNotTrained = errors.New("parser is not trained")

// Parser maps sentences to trees. Train must be called before BestParse.
// BestParse returns a tree comparable with the training trees, or an error
// such as ErrNoParse, ErrEmptySentence or ErrSentenceTooLong
type Parser interface {
	Train(trees []*Tree) error
	BestParse(sentence []string) (*Tree, error)
}

// Option configures the parsers built by NewParser
type Option func(*parserOptions)

type parserOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger of a parser
func WithLogger(logger *slog.Logger) Option {
	return func(o *parserOptions) { o.logger = logger }
}

func buildOptions(opts []Option) parserOptions {
	options := parserOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// NewParser creates the parser named by config.Parser
func NewParser(config Config, opts ...Option) (Parser, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch config.Parser {
	case ParserPCFG:
		return NewPCFGParser(config, opts...), nil
	case ParserBaseline:
		return NewBaselineParser(config, opts...), nil
	}
	return nil, errors.Errorf("NewParser: unknown parser %q", config.Parser)
}

// PCFGParser parses with a grammar and a lexicon estimated from binarized
// training trees
type PCFGParser struct {
	config Config
	logger *slog.Logger

	grammar *Grammar
	lexicon *Lexicon
	chart   *ChartParser
}

// NewPCFGParser creates an untrained PCFGParser
func NewPCFGParser(config Config, opts ...Option) *PCFGParser {
	options := buildOptions(opts)
	return &PCFGParser{config: config, logger: options.logger}
}

// Train binarizes trees, then estimates the lexicon and the grammar. Trees
// are expected to be normalized already (see StandardNormalizer)
func (p *PCFGParser) Train(trees []*Tree) error {
	binarized := make([]*Tree, len(trees))
	for i, tree := range trees {
		binarized[i] = Binarize(tree)
	}

	lexicon := NewLexicon(p.config.RareThreshold)
	lexicon.Train(binarized)
	grammar, err := InduceGrammar(binarized)
	if err != nil {
		return errors.Wrap(err, "PCFGParser.Train")
	}
	for _, cycle := range grammar.UnaryCycles() {
		p.logger.Warn("unary cycle in grammar", "symbols", cycle)
	}

	p.lexicon = lexicon
	p.grammar = grammar
	p.chart = NewChartParser(grammar, lexicon,
		WithRootLabel(p.config.RootLabel),
		WithMaxLength(p.config.MaxLength),
		WithChartLogger(p.logger))
	p.logger.Info("trained pcfg parser",
		"trees", len(trees),
		"tokens", lexicon.TotalTokens(),
		"word_types", lexicon.TotalWordTypes(),
		"tags", len(lexicon.AllTags()),
		"binary_rules", len(grammar.BinaryRules()),
		"unary_rules", len(grammar.UnaryRules()))
	return nil
}

// Grammar returns the induced grammar, nil before Train
func (p *PCFGParser) Grammar() *Grammar {
	return p.grammar
}

// Lexicon returns the trained lexicon, nil before Train
func (p *PCFGParser) Lexicon() *Lexicon {
	return p.lexicon
}

// BestParse returns the most probable debinarized parse of sentence
func (p *PCFGParser) BestParse(sentence []string) (*Tree, error) {
	derivation, err := p.Derive(sentence)
	if err != nil {
		return nil, err
	}
	return Debinarize(derivation.Tree)
}

// Derive returns the most probable binarized parse of sentence with its log
// score
func (p *PCFGParser) Derive(sentence []string) (*Derivation, error) {
	if p.chart == nil {
		return nil, ErrNotTrained
	}
	return p.chart.Parse(sentence)
}
