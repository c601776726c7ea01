package complaints

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Predictor predicts one label per feature row.
type Predictor interface {
	Predict(features mat.Matrix) ([]string, error)
}

// Metrics summarizes classification quality. Precision, recall and F1 are
// averaged over classes weighted by true support.
type Metrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	Report    ClassificationReport
	Confusion ConfusionMatrix
}

// An Evaluator produces metrics for a fitted model.
type Evaluator interface {
	Evaluate(ctx context.Context) (Metrics, error)
}

// Evaluate predicts every row of features and scores the predictions
// against trueLabels.
func Evaluate(model Predictor, features mat.Matrix, trueLabels []string) (Metrics, error) {
	predicted, err := model.Predict(features)
	if err != nil {
		return Metrics{}, err
	}
	return ScoreLabels(trueLabels, predicted)
}

// ScoreLabels computes metrics from aligned true and predicted labels. The
// classes are the sorted union of both. A zero denominator yields 0.
func ScoreLabels(trueLabels, predicted []string) (Metrics, error) {
	if len(trueLabels) == 0 {
		return Metrics{}, errors.New("no labels to evaluate")
	}
	if len(trueLabels) != len(predicted) {
		return Metrics{}, fmt.Errorf("got %d true labels but %d predictions", len(trueLabels), len(predicted))
	}

	classes := uniqueSorted(append(append([]string(nil), trueLabels...), predicted...))
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	counts := mat.NewDense(len(classes), len(classes), nil)
	correct := 0
	for i, truth := range trueLabels {
		r, c := index[truth], index[predicted[i]]
		counts.Set(r, c, counts.At(r, c)+1)
		if r == c {
			correct++
		}
	}

	report := ClassificationReport{
		Accuracy: float64(correct) / float64(len(trueLabels)),
		Total:    len(trueLabels),
	}
	var macro, weighted ClassMetrics
	for i, class := range classes {
		tp := counts.At(i, i)
		support := mat.Sum(counts.RowView(i))
		predictedCount := mat.Sum(counts.ColView(i))

		precision := safeDiv(tp, predictedCount)
		recall := safeDiv(tp, support)
		cm := ClassMetrics{
			Class:     class,
			Precision: precision,
			Recall:    recall,
			F1:        harmonicMean(precision, recall),
			Support:   int(support),
		}
		report.Classes = append(report.Classes, cm)

		macro.Precision += cm.Precision
		macro.Recall += cm.Recall
		macro.F1 += cm.F1
		weighted.Precision += cm.Precision * support
		weighted.Recall += cm.Recall * support
		weighted.F1 += cm.F1 * support
	}

	n := float64(len(classes))
	total := float64(len(trueLabels))
	report.MacroAvg = ClassMetrics{
		Class:     "macro avg",
		Precision: macro.Precision / n,
		Recall:    macro.Recall / n,
		F1:        macro.F1 / n,
		Support:   len(trueLabels),
	}
	report.WeightedAvg = ClassMetrics{
		Class:     "weighted avg",
		Precision: weighted.Precision / total,
		Recall:    weighted.Recall / total,
		F1:        weighted.F1 / total,
		Support:   len(trueLabels),
	}

	return Metrics{
		Accuracy:  report.Accuracy,
		Precision: report.WeightedAvg.Precision,
		Recall:    report.WeightedAvg.Recall,
		F1:        report.WeightedAvg.F1,
		Report:    report,
		Confusion: ConfusionMatrix{Classes: classes, Counts: counts},
	}, nil
}

// TrainingSetEvaluator re-scores the model on the rows it was fitted on.
// The numbers it reports overstate accuracy on unseen complaints.
type TrainingSetEvaluator struct {
	model    Predictor
	features mat.Matrix
	labels   []string
}

// NewTrainingSetEvaluator evaluates a fitted pipeline on its own training
// rows.
func NewTrainingSetEvaluator(p *Pipeline) *TrainingSetEvaluator {
	e := &TrainingSetEvaluator{
		model:  p.Model(),
		labels: p.TrainingLabels(),
	}
	if features := p.TrainingFeatures(); features != nil {
		e.features = features
	}
	return e
}

// Evaluate implements Evaluator.
func (e *TrainingSetEvaluator) Evaluate(ctx context.Context) (Metrics, error) {
	if err := ctx.Err(); err != nil {
		return Metrics{}, err
	}
	if e.features == nil {
		return Metrics{}, ErrNotFitted
	}
	return Evaluate(e.model, e.features, e.labels)
}

// HoldoutEvaluator scores the model on rows set aside before fitting.
type HoldoutEvaluator struct {
	model    Predictor
	features mat.Matrix
	labels   []string
}

// NewHoldoutEvaluator encodes the held-out corpus with the pipeline's
// vectorizer.
func NewHoldoutEvaluator(p *Pipeline, holdout Corpus) (*HoldoutEvaluator, error) {
	if holdout.Len() == 0 {
		return nil, fmt.Errorf("holdout: %w", ErrEmptyCorpus)
	}
	features, err := p.Features(holdout.Texts())
	if err != nil {
		return nil, err
	}
	return &HoldoutEvaluator{
		model:    p.Model(),
		features: features,
		labels:   holdout.Labels(),
	}, nil
}

// Evaluate implements Evaluator.
func (e *HoldoutEvaluator) Evaluate(ctx context.Context) (Metrics, error) {
	if err := ctx.Err(); err != nil {
		return Metrics{}, err
	}
	return Evaluate(e.model, e.features, e.labels)
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func harmonicMean(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	return 2 * a * b / (a + b)
}
