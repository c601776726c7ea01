package complaints

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/tsawler/complaints/internal/logger"
)

// Evaluation strategies.
const (
	EvaluateTrainingSet = "training"
	EvaluateHoldout     = "holdout"
)

// TrainingConfig contains configuration for model training
type TrainingConfig struct {
	Trees           int
	Seed            int64
	MaxFeatures     int
	MaxDepth        int
	MinSamplesSplit int
	Workers         int
	NormalizeCorpus bool
	Evaluation      string  // EvaluateTrainingSet or EvaluateHoldout
	HoldoutFraction float64 // share of rows set aside for EvaluateHoldout
	Context         context.Context
	// ProgressCallback reports trees grown so far. It may be called
	// concurrently.
	ProgressCallback func(treesDone, total int)
}

// DefaultTrainingConfig returns a default training configuration
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Trees:           100,
		Seed:            42,
		MaxFeatures:     DefaultMaxFeatures,
		MinSamplesSplit: 2,
		Evaluation:      EvaluateTrainingSet,
		HoldoutFraction: 0.2,
		Context:         context.Background(),
	}
}

// TrainingMetrics contains metrics from training
type TrainingMetrics struct {
	Documents      int
	Classes        int
	VocabularySize int
	Trees          int
	MaxTreeDepth   int
	HoldoutSize    int
	TrainingTime   time.Duration
}

// CrossValidationResult contains results from cross-validation
type CrossValidationResult struct {
	MeanAccuracy float64
	StdAccuracy  float64
	MeanF1       float64
	StdF1        float64
	FoldResults  []ValidationResult
}

// ValidationResult contains validation metrics
type ValidationResult struct {
	Accuracy  float64
	F1Score   float64
	Precision float64
	Recall    float64
}

// Trainer fits pipelines on a corpus
type Trainer struct {
	config     TrainingConfig
	normalizer *Normalizer
}

// NewTrainer creates a new trainer with the given configuration
func NewTrainer(config TrainingConfig, normalizer *Normalizer) *Trainer {
	if config.Context == nil {
		config.Context = context.Background()
	}
	return &Trainer{config: config, normalizer: normalizer}
}

// Train fits a pipeline on corpus and returns it together with the
// evaluator selected by the configuration.
func (t *Trainer) Train(corpus Corpus) (*Pipeline, Evaluator, TrainingMetrics, error) {
	startTime := time.Now()

	if corpus.Len() == 0 {
		return nil, nil, TrainingMetrics{}, ErrEmptyCorpus
	}

	train, holdout := corpus, Corpus{}
	if t.config.Evaluation == EvaluateHoldout {
		train, holdout = t.split(corpus)
		if holdout.Len() == 0 {
			logger.Warn("corpus of %d rows is too small to hold out; evaluating on the training set", corpus.Len())
		}
	}

	p := t.newPipeline()
	if err := p.Fit(t.config.Context, train.Texts(), train.Labels()); err != nil {
		return nil, nil, TrainingMetrics{}, err
	}

	var evaluator Evaluator
	if holdout.Len() > 0 {
		he, err := NewHoldoutEvaluator(p, holdout)
		if err != nil {
			return nil, nil, TrainingMetrics{}, err
		}
		evaluator = he
	} else {
		evaluator = NewTrainingSetEvaluator(p)
	}

	metrics := TrainingMetrics{
		Documents:      train.Len(),
		Classes:        len(p.Model().Classes()),
		VocabularySize: p.Vectorizer().VocabularySize(),
		Trees:          p.Model().NumTrees(),
		MaxTreeDepth:   p.Model().MaxTreeDepth(),
		HoldoutSize:    holdout.Len(),
		TrainingTime:   time.Since(startTime),
	}
	logger.Info("trained %d trees on %d documents (%d classes, vocabulary %d) in %s",
		metrics.Trees, metrics.Documents, metrics.Classes, metrics.VocabularySize, metrics.TrainingTime)

	return p, evaluator, metrics, nil
}

// CrossValidate performs k-fold cross-validation over a seeded shuffle of
// corpus.
func (t *Trainer) CrossValidate(corpus Corpus, k int) (CrossValidationResult, error) {
	if k <= 1 {
		return CrossValidationResult{}, fmt.Errorf("k must be greater than 1")
	}
	if corpus.Len() < k {
		return CrossValidationResult{}, fmt.Errorf("cannot split %d documents into %d folds", corpus.Len(), k)
	}

	perm := rand.New(rand.NewSource(t.config.Seed)).Perm(corpus.Len())
	foldSize := corpus.Len() / k
	results := make([]ValidationResult, k)
	accuracies := make([]float64, k)
	f1s := make([]float64, k)

	for fold := 0; fold < k; fold++ {
		start := fold * foldSize
		end := start + foldSize
		if fold == k-1 {
			end = len(perm)
		}

		trainIdx := make([]int, 0, len(perm)-(end-start))
		trainIdx = append(trainIdx, perm[:start]...)
		trainIdx = append(trainIdx, perm[end:]...)
		train := corpus.Subset(trainIdx)
		test := corpus.Subset(perm[start:end])

		p := t.newPipeline()
		if err := p.Fit(t.config.Context, train.Texts(), train.Labels()); err != nil {
			return CrossValidationResult{}, fmt.Errorf("fold %d: %w", fold+1, err)
		}
		features, err := p.Features(test.Texts())
		if err != nil {
			return CrossValidationResult{}, fmt.Errorf("fold %d: %w", fold+1, err)
		}
		m, err := Evaluate(p.Model(), features, test.Labels())
		if err != nil {
			return CrossValidationResult{}, fmt.Errorf("fold %d: %w", fold+1, err)
		}

		results[fold] = ValidationResult{
			Accuracy:  m.Accuracy,
			F1Score:   m.F1,
			Precision: m.Precision,
			Recall:    m.Recall,
		}
		accuracies[fold] = m.Accuracy
		f1s[fold] = m.F1
		logger.Debug("fold %d/%d: accuracy %.4f, f1 %.4f", fold+1, k, m.Accuracy, m.F1)
	}

	meanAcc, stdAcc := stat.MeanStdDev(accuracies, nil)
	meanF1, stdF1 := stat.MeanStdDev(f1s, nil)

	return CrossValidationResult{
		MeanAccuracy: meanAcc,
		StdAccuracy:  stdAcc,
		MeanF1:       meanF1,
		StdF1:        stdF1,
		FoldResults:  results,
	}, nil
}

func (t *Trainer) newPipeline() *Pipeline {
	return NewPipeline(t.normalizer,
		WithVectorizerOpts(WithMaxFeatures(t.config.MaxFeatures)),
		WithForestConfig(ForestConfig{
			Trees:           t.config.Trees,
			Seed:            t.config.Seed,
			MaxDepth:        t.config.MaxDepth,
			MinSamplesSplit: t.config.MinSamplesSplit,
			Workers:         t.config.Workers,
			OnTree:          t.config.ProgressCallback,
		}),
		WithCorpusNormalization(t.config.NormalizeCorpus),
	)
}

// split sets aside a seeded random share of corpus. Both halves keep at
// least one row, or the holdout is empty.
func (t *Trainer) split(corpus Corpus) (Corpus, Corpus) {
	n := corpus.Len()
	size := int(math.Round(float64(n) * t.config.HoldoutFraction))
	if size < 1 {
		size = 1
	}
	if size >= n {
		return corpus, Corpus{}
	}
	perm := rand.New(rand.NewSource(t.config.Seed)).Perm(n)
	return corpus.Subset(perm[size:]), corpus.Subset(perm[:size])
}
