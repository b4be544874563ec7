package pcfg

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Names of the parser strategies
const (
	ParserPCFG     = "pcfg"
	ParserBaseline = "baseline"
)

// Config holds the training and parsing settings
type Config struct {
	// Parser strategy, pcfg or baseline
	Parser string `yaml:"parser" validate:"oneof=pcfg baseline"`

	// Sentences longer than MaxLength are not parsed. 0 disables the cap
	MaxLength int `yaml:"max_length" validate:"gte=0"`

	// Words seen fewer times are smoothed by the lexicon
	RareThreshold int `yaml:"rare_threshold" validate:"gte=1"`

	// Goal symbol of the grammar
	RootLabel string `yaml:"root_label" validate:"required,excludes=@"`

	// Pre-terminal labels ignored by evaluation
	PunctuationTags []string `yaml:"punctuation_tags"`

	// Constituent labels ignored by evaluation
	IgnoreLabels []string `yaml:"ignore_labels"`

	// Number of sentences parsed concurrently
	Workers int `yaml:"workers" validate:"gte=1"`
}

// DefaultConfig returns the settings used when no configuration is given
func DefaultConfig() Config {
	return Config{
		Parser:          ParserPCFG,
		MaxLength:       20,
		RareThreshold:   DefaultRareThreshold,
		RootLabel:       RootLabel,
		PunctuationTags: []string{"''", "``", ".", ":", ","},
		IgnoreLabels:    []string{RootLabel},
		Workers:         1,
	}
}

var configValidator = validator.New()

// Validate checks the values of the configuration
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// ParseConfig reads a YAML configuration. Missing fields keep their default
// value
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(err, "ParseConfig")
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// LoadConfig reads a YAML configuration file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "LoadConfig: %s", path)
	}
	config, err := ParseConfig(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "LoadConfig: %s", path)
	}
	return config, nil
}
