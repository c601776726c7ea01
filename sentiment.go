package complaints

import (
	"fmt"

	"github.com/jonreiter/govader"
)

// Compound score thresholds separating the three sentiment classes.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Sentiment engines.
const (
	EngineVader   = "vader"
	EngineLexicon = "lexicon"
)

// Polarity is the raw output of a PolarityScorer. Compound lies in [-1, 1];
// the proportions sum to 1 for text with any scored tokens.
type Polarity struct {
	Compound float64
	Positive float64
	Negative float64
	Neutral  float64
}

// PolarityScorer computes polarity scores for raw text.
type PolarityScorer interface {
	Polarity(text string) Polarity
}

// SentimentScore is the result of analyzing one text.
type SentimentScore struct {
	Compound  float64
	Positive  float64
	Negative  float64
	Neutral   float64
	Label     SentimentClass
	Sentences []SentenceSentiment // only with WithSentenceBreakdown
}

// SentenceSentiment is the score of one sentence of a larger text.
type SentenceSentiment struct {
	Sentence Sentence
	Compound float64
	Label    SentimentClass
}

// SentimentConfig configures sentiment analysis
type SentimentConfig struct {
	Engine            string // "vader" or "lexicon"
	NegationWindow    int    // tokens to check for negation (lexicon engine)
	ExternalLexicon   string // optional JSON lexicon merged into the lexicon engine
	SentenceBreakdown bool

	// Lexicon engine additions.
	Modifiers map[string]float64
	Negations []string
	KeepWhole []string // tokens the lexicon tokenizer never splits
}

// DefaultSentimentConfig returns standard configuration
func DefaultSentimentConfig() SentimentConfig {
	return SentimentConfig{
		Engine:         EngineVader,
		NegationWindow: 3,
	}
}

// SentimentAnalyzer labels raw text as Positive, Negative or Neutral.
type SentimentAnalyzer struct {
	scorer    PolarityScorer
	segmenter *SentenceSegmenter
	breakdown bool
}

// SentimentOpt changes how a SentimentAnalyzer is built.
type SentimentOpt func(*SentimentAnalyzer)

// UsingScorer replaces the configured engine.
func UsingScorer(scorer PolarityScorer) SentimentOpt {
	return func(sa *SentimentAnalyzer) {
		sa.scorer = scorer
	}
}

// WithSentenceBreakdown enables per-sentence scores.
func WithSentenceBreakdown(include bool) SentimentOpt {
	return func(sa *SentimentAnalyzer) {
		sa.breakdown = include
	}
}

// NewSentimentAnalyzer creates a sentiment analyzer from loaded resources.
func NewSentimentAnalyzer(res *Resources, config SentimentConfig, opts ...SentimentOpt) (*SentimentAnalyzer, error) {
	sa := &SentimentAnalyzer{breakdown: config.SentenceBreakdown}
	if res != nil {
		sa.segmenter = res.Segmenter
	}

	switch config.Engine {
	case "", EngineVader:
		var vader *govader.SentimentIntensityAnalyzer
		if res != nil {
			vader = res.Vader
		}
		if vader == nil {
			vader = govader.NewSentimentIntensityAnalyzer()
		}
		sa.scorer = &vaderScorer{analyzer: vader}
	case EngineLexicon:
		lexicon, err := LoadSentimentLexiconWithExternal(config.ExternalLexicon)
		if err != nil {
			return nil, err
		}
		for word, strength := range config.Modifiers {
			lexicon.AddCustomModifier(word, strength)
		}
		for _, word := range config.Negations {
			lexicon.AddCustomNegation(word)
		}
		var tokOpts []TokenizerOptFunc
		if len(config.KeepWhole) > 0 {
			tokOpts = append(tokOpts, UsingIsUnsplittable(KeepWhole(config.KeepWhole...)))
		}
		sa.scorer = newLexiconScorer(lexicon, config.NegationWindow, tokOpts...)
	default:
		return nil, NewConfigError("sentiment.engine", fmt.Sprintf("unknown engine %q", config.Engine))
	}

	for _, applyOpt := range opts {
		applyOpt(sa)
	}

	if sa.breakdown && sa.segmenter == nil {
		segmenter, err := NewSentenceSegmenter()
		if err != nil {
			return nil, NewResourceError("sentence tokenizer", English, err)
		}
		sa.segmenter = segmenter
	}
	return sa, nil
}

// Score analyzes the raw text. The label always comes from the whole-text
// compound, even when sentence scores are included.
func (sa *SentimentAnalyzer) Score(text string) SentimentScore {
	p := sa.scorer.Polarity(text)
	score := SentimentScore{
		Compound: p.Compound,
		Positive: p.Positive,
		Negative: p.Negative,
		Neutral:  p.Neutral,
		Label:    Label(p.Compound),
	}

	if sa.breakdown && sa.segmenter != nil {
		for _, sent := range sa.segmenter.Segment(text) {
			c := sa.scorer.Polarity(sent.Text).Compound
			score.Sentences = append(score.Sentences, SentenceSentiment{
				Sentence: sent,
				Compound: c,
				Label:    Label(c),
			})
		}
	}
	return score
}

// Classify returns the sentiment label of text.
func (sa *SentimentAnalyzer) Classify(text string) SentimentClass {
	return Label(sa.scorer.Polarity(text).Compound)
}

// Label maps a compound score to a sentiment class. Both thresholds are
// inclusive.
func Label(compound float64) SentimentClass {
	switch {
	case compound >= PositiveThreshold:
		return Positive
	case compound <= NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

type vaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func (v *vaderScorer) Polarity(text string) Polarity {
	s := v.analyzer.PolarityScores(text)
	return Polarity{
		Compound: s.Compound,
		Positive: s.Positive,
		Negative: s.Negative,
		Neutral:  s.Neutral,
	}
}
