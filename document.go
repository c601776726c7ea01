package complaints

import (
	"context"
	"strings"
	"time"
)

// An AnalyzeOpt represents a setting that changes how a complaint is analyzed.
//
// For example, it might add a sentiment label:
//
//	c, err := pipeline.Analyze("...", complaints.WithSentiment(analyzer))
type AnalyzeOpt func(opts *AnalyzeOpts)

// AnalyzeOpts controls the analysis of one complaint:
type AnalyzeOpts struct {
	Sentiment *SentimentAnalyzer // If set, include the sentiment label
	Votes     bool               // If true, include per-class vote shares
	Context   context.Context    // Context for cancellation and timeouts
	Timeout   time.Duration      // Processing timeout
}

// WithSentiment scores the complaint's sentiment with analyzer.
func WithSentiment(analyzer *SentimentAnalyzer) AnalyzeOpt {
	return func(opts *AnalyzeOpts) {
		opts.Sentiment = analyzer
	}
}

// WithVotes can enable or disable (the default) per-class vote shares.
func WithVotes(include bool) AnalyzeOpt {
	return func(opts *AnalyzeOpts) {
		opts.Votes = include
	}
}

// WithContext sets the context for analysis
func WithContext(ctx context.Context) AnalyzeOpt {
	return func(opts *AnalyzeOpts) {
		opts.Context = ctx
	}
}

// WithTimeout sets a timeout for analysis
func WithTimeout(timeout time.Duration) AnalyzeOpt {
	return func(opts *AnalyzeOpts) {
		opts.Timeout = timeout
	}
}

// A Complaint is the analysis of one submitted complaint.
type Complaint struct {
	Text       string
	Normalized string
	Category   string
	Confidence float64            // share of trees voting for Category
	Votes      map[string]float64 // only with WithVotes(true)
	Sentiment  *SentimentScore    // only with WithSentiment
	Metadata   ComplaintMetadata
}

var defaultAnalyzeOpts = AnalyzeOpts{
	Context: context.Background(),
	Timeout: 30 * time.Second,
}

// Analyze classifies text and gathers the details the interactive loop and
// the classify command print.
//
//	c, err := pipeline.Analyze("someone stole my card")
//	fmt.Println(c.Category) // Fraud
func (p *Pipeline) Analyze(text string, opts ...AnalyzeOpt) (*Complaint, error) {
	startTime := time.Now()

	base := defaultAnalyzeOpts
	for _, applyOpt := range opts {
		applyOpt(&base)
	}

	ctx := base.Context
	if base.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, base.Timeout)
		defer cancel()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	c := &Complaint{
		Text: text,
		Metadata: ComplaintMetadata{
			Language:    English,
			ProcessedAt: startTime,
		},
	}

	normalized, v, err := p.Vectorize(text)
	if err != nil {
		return nil, err
	}
	c.Normalized = normalized
	if normalized != "" {
		c.Metadata.TokenCount = len(strings.Fields(normalized))
	}
	for _, tok := range strings.Fields(normalized) {
		if _, ok := p.vectorizer.Index(tok); ok {
			c.Metadata.VocabularyHits++
		}
	}

	votes, err := p.forest.PredictProba(v)
	if err != nil {
		return nil, err
	}
	c.Category, err = p.forest.PredictOne(v)
	if err != nil {
		return nil, err
	}
	c.Confidence = votes[c.Category]
	if base.Votes {
		c.Votes = votes
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if base.Sentiment != nil {
		score := base.Sentiment.Score(text)
		c.Sentiment = &score
		c.Metadata.SentenceCount = len(score.Sentences)
	}

	c.Metadata.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	return c, nil
}
