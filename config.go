package complaints

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const defaultConfigFile = "complaints.json"

// Config is the operator configuration, read from JSON.
type Config struct {
	Corpus     CorpusConfig     `json:"corpus"`
	Model      ModelConfig      `json:"model"`
	Sentiment  SentimentSection `json:"sentiment"`
	Evaluation EvaluationConfig `json:"evaluation"`
	Session    SessionConfig    `json:"session"`
	Log        LogConfig        `json:"log"`
}

// CorpusConfig locates the training corpus. A database path takes
// precedence over the CSV path.
type CorpusConfig struct {
	Path            string   `json:"path"`
	TextColumn      string   `json:"textColumn"`
	LabelColumn     string   `json:"labelColumn"`
	Database        string   `json:"database,omitempty"`
	Table           string   `json:"table,omitempty"`
	NormalizeCorpus bool     `json:"normalizeCorpus"`
	ExtraStopWords  []string `json:"extraStopWords,omitempty"`
}

// ModelConfig configures the vectorizer and forest.
type ModelConfig struct {
	MaxFeatures     int   `json:"maxFeatures"`
	Trees           int   `json:"trees"`
	Seed            int64 `json:"seed"`
	MaxDepth        int   `json:"maxDepth"`
	MinSamplesSplit int   `json:"minSamplesSplit"`
	Workers         int   `json:"workers"`
}

// SentimentSection configures the sentiment analyzer.
type SentimentSection struct {
	Engine            string `json:"engine"`
	ExternalLexicon   string `json:"externalLexicon,omitempty"`
	SentenceBreakdown bool   `json:"sentenceBreakdown"`

	Modifiers map[string]float64 `json:"modifiers,omitempty"`
	Negations []string           `json:"negations,omitempty"`
	KeepWhole []string           `json:"keepWhole,omitempty"`
}

// EvaluationConfig selects how metrics are computed.
type EvaluationConfig struct {
	Strategy        string  `json:"strategy"`
	HoldoutFraction float64 `json:"holdoutFraction"`
}

// SessionConfig configures the interactive loop.
type SessionConfig struct {
	Sentinel string `json:"sentinel"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `json:"level"`
	File  string `json:"file,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Corpus.Path == "" {
		c.Corpus.Path = "complaints.csv"
	}
	if c.Corpus.TextColumn == "" {
		c.Corpus.TextColumn = DefaultTextColumn
	}
	if c.Corpus.LabelColumn == "" {
		c.Corpus.LabelColumn = DefaultLabelColumn
	}
	if c.Corpus.Database != "" && c.Corpus.Table == "" {
		c.Corpus.Table = "complaints"
	}
	if c.Model.MaxFeatures <= 0 {
		c.Model.MaxFeatures = DefaultMaxFeatures
	}
	if c.Model.Trees <= 0 {
		c.Model.Trees = 100
	}
	if c.Model.Seed == 0 {
		c.Model.Seed = 42
	}
	if c.Model.MinSamplesSplit < 2 {
		c.Model.MinSamplesSplit = 2
	}
	if c.Sentiment.Engine == "" {
		c.Sentiment.Engine = EngineVader
	}
	if c.Evaluation.Strategy == "" {
		c.Evaluation.Strategy = EvaluateTrainingSet
	}
	if c.Evaluation.HoldoutFraction <= 0 {
		c.Evaluation.HoldoutFraction = 0.2
	}
	if c.Session.Sentinel == "" {
		c.Session.Sentinel = DefaultSentinel
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Corpus.Path = strings.TrimSpace(c.Corpus.Path)
}

// Validate reports the first unusable field.
func (c Config) Validate() error {
	switch c.Sentiment.Engine {
	case EngineVader, EngineLexicon:
	default:
		return NewConfigError("sentiment.engine", fmt.Sprintf("must be %q or %q", EngineVader, EngineLexicon))
	}
	switch c.Evaluation.Strategy {
	case EvaluateTrainingSet, EvaluateHoldout:
	default:
		return NewConfigError("evaluation.strategy", fmt.Sprintf("must be %q or %q", EvaluateTrainingSet, EvaluateHoldout))
	}
	if c.Evaluation.HoldoutFraction <= 0 || c.Evaluation.HoldoutFraction >= 1 {
		return NewConfigError("evaluation.holdoutFraction", "must be between 0 and 1")
	}
	if c.Model.Workers < 0 {
		return NewConfigError("model.workers", "must not be negative")
	}
	if c.Model.MaxDepth < 0 {
		return NewConfigError("model.maxDepth", "must not be negative")
	}
	if c.Corpus.Path == "" && c.Corpus.Database == "" {
		return NewConfigError("corpus.path", "a corpus file or database is required")
	}
	if strings.TrimSpace(c.Session.Sentinel) == "" {
		return NewConfigError("session.sentinel", "must not be blank")
	}
	return nil
}

// TrainingConfig derives the trainer configuration.
func (c Config) TrainingConfig() TrainingConfig {
	tc := DefaultTrainingConfig()
	tc.Trees = c.Model.Trees
	tc.Seed = c.Model.Seed
	tc.MaxFeatures = c.Model.MaxFeatures
	tc.MaxDepth = c.Model.MaxDepth
	tc.MinSamplesSplit = c.Model.MinSamplesSplit
	tc.Workers = c.Model.Workers
	tc.NormalizeCorpus = c.Corpus.NormalizeCorpus
	tc.Evaluation = c.Evaluation.Strategy
	tc.HoldoutFraction = c.Evaluation.HoldoutFraction
	return tc
}

// SentimentConfig derives the analyzer configuration.
func (c Config) SentimentConfig() SentimentConfig {
	sc := DefaultSentimentConfig()
	sc.Engine = c.Sentiment.Engine
	sc.ExternalLexicon = c.Sentiment.ExternalLexicon
	sc.SentenceBreakdown = c.Sentiment.SentenceBreakdown
	sc.Modifiers = c.Sentiment.Modifiers
	sc.Negations = c.Sentiment.Negations
	sc.KeepWhole = c.Sentiment.KeepWhole
	return sc
}

// CSVOptions derives the CSV reader options.
func (c Config) CSVOptions() CSVOptions {
	opts := DefaultCSVOptions()
	opts.TextColumn = c.Corpus.TextColumn
	opts.LabelColumn = c.Corpus.LabelColumn
	return opts
}

// LoadConfig loads configuration from the given path or the default
// complaints.json. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
