package complaints

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// A Classifier assigns a category to one complaint.
type Classifier interface {
	Classify(text string) (string, error)
}

// TextClassifier is a classifier that learns from labeled documents.
type TextClassifier interface {
	Fit(ctx context.Context, documents, labels []string) error
	Predict(documents []string) ([]string, error)
}

var (
	_ Classifier     = (*Pipeline)(nil)
	_ TextClassifier = (*Pipeline)(nil)
)

// Pipeline binds a Normalizer, a Vectorizer and a RandomForest. User text
// reaches the forest only through the vectorizer the forest was fitted with,
// so the feature width always matches.
type Pipeline struct {
	normalizer      *Normalizer
	vectorizer      *Vectorizer
	forest          *RandomForest
	normalizeCorpus bool

	features *SparseMatrix
	labels   []string
}

// PipelineOpt configures a Pipeline.
type PipelineOpt func(*Pipeline)

// WithForestConfig sets the forest configuration.
func WithForestConfig(config ForestConfig) PipelineOpt {
	return func(p *Pipeline) {
		p.forest = NewRandomForest(config)
	}
}

// WithVectorizerOpts configures the vectorizer.
func WithVectorizerOpts(opts ...VectorizerOpt) PipelineOpt {
	return func(p *Pipeline) {
		p.vectorizer = NewVectorizer(opts...)
	}
}

// WithCorpusNormalization runs the Normalizer over training documents
// before fitting. By default they are assumed to be preprocessed already.
func WithCorpusNormalization(include bool) PipelineOpt {
	return func(p *Pipeline) {
		p.normalizeCorpus = include
	}
}

// NewPipeline returns an unfitted pipeline.
func NewPipeline(normalizer *Normalizer, opts ...PipelineOpt) *Pipeline {
	p := &Pipeline{
		normalizer: normalizer,
		vectorizer: NewVectorizer(),
		forest:     NewRandomForest(DefaultForestConfig()),
	}
	for _, applyOpt := range opts {
		applyOpt(p)
	}
	return p
}

// Fit learns the vocabulary from documents and grows the forest on their
// vectors.
func (p *Pipeline) Fit(ctx context.Context, documents, labels []string) error {
	if len(documents) == 0 {
		return ErrEmptyCorpus
	}
	if len(documents) != len(labels) {
		return fmt.Errorf("got %d documents but %d labels", len(documents), len(labels))
	}

	features, err := p.vectorizer.Fit(p.corpusText(documents))
	if err != nil {
		return fmt.Errorf("fitting vectorizer: %w", err)
	}
	if err := p.forest.Fit(ctx, features, labels); err != nil {
		return fmt.Errorf("fitting classifier: %w", err)
	}

	p.features = features
	p.labels = append([]string(nil), labels...)
	return nil
}

// Predict classifies raw complaint texts.
func (p *Pipeline) Predict(documents []string) ([]string, error) {
	features, err := p.vectorizer.TransformAll(p.normalizer.NormalizeAll(documents))
	if err != nil {
		return nil, err
	}
	return p.forest.Predict(features)
}

// Classify returns the category of one raw complaint.
func (p *Pipeline) Classify(text string) (string, error) {
	_, v, err := p.Vectorize(text)
	if err != nil {
		return "", err
	}
	return p.forest.PredictOne(v)
}

// Vectorize normalizes text and encodes it with the fitted vocabulary.
func (p *Pipeline) Vectorize(text string) (string, *mat.VecDense, error) {
	normalized := p.normalizer.Normalize(text)
	v, err := p.vectorizer.Transform(normalized)
	if err != nil {
		return normalized, nil, err
	}
	return normalized, v, nil
}

// Features encodes corpus documents the same way the training documents
// were encoded, for scoring held-out rows.
func (p *Pipeline) Features(documents []string) (*SparseMatrix, error) {
	return p.vectorizer.TransformAll(p.corpusText(documents))
}

// TrainingFeatures returns the matrix the forest was fitted on.
func (p *Pipeline) TrainingFeatures() *SparseMatrix {
	return p.features
}

// TrainingLabels returns the labels the forest was fitted on.
func (p *Pipeline) TrainingLabels() []string {
	return p.labels
}

// Model returns the fitted forest.
func (p *Pipeline) Model() *RandomForest {
	return p.forest
}

// Vectorizer returns the fitted vectorizer.
func (p *Pipeline) Vectorizer() *Vectorizer {
	return p.vectorizer
}

// Normalizer returns the normalizer applied to user text.
func (p *Pipeline) Normalizer() *Normalizer {
	return p.normalizer
}

func (p *Pipeline) corpusText(documents []string) []string {
	if p.normalizeCorpus {
		return p.normalizer.NormalizeAll(documents)
	}
	return documents
}
