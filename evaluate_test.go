package complaints

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestScoreLabels(t *testing.T) {
	tests := []struct {
		truth     []string
		predicted []string
		accuracy  float64
		precision float64
		recall    float64
		f1        float64
		desc      string
	}{
		{
			[]string{"Fraud", "Fraud", "Loan"}, []string{"Fraud", "Fraud", "Loan"},
			1, 1, 1, 1, "Perfect predictions",
		},
		{
			[]string{"Fraud", "Fraud", "Loan"}, []string{"Fraud", "Loan", "Loan"},
			2.0 / 3, 2.5 / 3, 2.0 / 3, 2.0 / 3, "One mistake",
		},
		{
			[]string{"Fraud", "Loan"}, []string{"Loan", "Fraud"},
			0, 0, 0, 0, "All wrong",
		},
		{
			[]string{"Fraud", "Fraud"}, []string{"Mortgage", "Fraud"},
			0.5, 1, 0.5, 2.0 / 3, "Predicted class absent from truth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			m, err := ScoreLabels(tt.truth, tt.predicted)
			if err != nil {
				t.Fatal(err)
			}
			got := []float64{m.Accuracy, m.Precision, m.Recall, m.F1}
			want := []float64{tt.accuracy, tt.precision, tt.recall, tt.f1}
			names := []string{"accuracy", "precision", "recall", "f1"}
			for i := range got {
				if math.Abs(got[i]-want[i]) > 1e-9 {
					t.Errorf("%s: expected %.4f, got %.4f", names[i], want[i], got[i])
				}
				if got[i] < 0 || got[i] > 1 {
					t.Errorf("%s out of [0, 1]: %.4f", names[i], got[i])
				}
			}
		})
	}
}

func TestScoreLabelsPerClass(t *testing.T) {
	m, err := ScoreLabels(
		[]string{"Fraud", "Fraud", "Loan", "Loan", "Loan"},
		[]string{"Fraud", "Loan", "Loan", "Loan", "Fraud"},
	)
	if err != nil {
		t.Fatal(err)
	}

	for _, c := range m.Report.Classes {
		if c.F1 != harmonicMean(c.Precision, c.Recall) {
			t.Errorf("%s: F1 %.4f is not the harmonic mean of %.4f and %.4f",
				c.Class, c.F1, c.Precision, c.Recall)
		}
	}
	if m.Confusion.Count("Loan", "Fraud") != 1 || m.Confusion.Count("Loan", "Loan") != 2 {
		t.Errorf("Unexpected confusion counts:\n%s", m.Confusion)
	}
	if m.Confusion.Count("Loan", "Unknown") != 0 {
		t.Error("Unknown class should count zero")
	}
	if got := mat.Sum(m.Confusion.Counts); got != 5 {
		t.Errorf("Expected 5 counted predictions, got %.0f", got)
	}
	if m.Report.Total != 5 || m.Report.MacroAvg.Support != 5 {
		t.Errorf("Unexpected totals: %+v", m.Report)
	}
}

func TestScoreLabelsErrors(t *testing.T) {
	if _, err := ScoreLabels(nil, nil); err == nil {
		t.Error("Expected an error for no labels")
	}
	if _, err := ScoreLabels([]string{"a"}, []string{"a", "b"}); err == nil {
		t.Error("Expected an error for misaligned labels")
	}
}

func TestClassificationReportString(t *testing.T) {
	m, err := ScoreLabels([]string{"Fraud", "Fraud", "Loan"}, []string{"Fraud", "Loan", "Loan"})
	if err != nil {
		t.Fatal(err)
	}

	expected := "              precision    recall  f1-score   support\n\n" +
		"       Fraud       1.00      0.50      0.67         2\n" +
		"        Loan       0.50      1.00      0.67         1\n\n" +
		"    accuracy                           0.67         3\n" +
		"   macro avg       0.75      0.75      0.67         3\n" +
		"weighted avg       0.83      0.67      0.67         3\n"
	if got := m.Report.String(); got != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, got)
	}

	confusion := "true\\pred     Fraud      Loan\n" +
		"Fraud             1         1\n" +
		"Loan              0         1\n"
	if got := m.Confusion.String(); got != confusion {
		t.Errorf("Expected:\n%s\nGot:\n%s", confusion, got)
	}
}

func TestClassificationReportWideLabels(t *testing.T) {
	long := "Credit reporting, credit repair services"
	m, err := ScoreLabels([]string{long, "Loan"}, []string{long, "Loan"})
	if err != nil {
		t.Fatal(err)
	}
	report := m.Report.String()
	expectedRow := long + "       1.00      1.00      1.00         1\n"
	if !containsLine(report, expectedRow) {
		t.Errorf("Expected a row for the long label, got:\n%s", report)
	}
}

func containsLine(text, line string) bool {
	for start := 0; start < len(text); {
		end := start
		for end < len(text) && text[end] != '\n' {
			end++
		}
		if end < len(text) && text[start:end+1] == line {
			return true
		}
		start = end + 1
	}
	return false
}

type fixedPredictor struct {
	labels []string
	err    error
}

func (f fixedPredictor) Predict(mat.Matrix) ([]string, error) {
	return f.labels, f.err
}

func TestEvaluate(t *testing.T) {
	x := mat.NewDense(2, 1, nil)
	m, err := Evaluate(fixedPredictor{labels: []string{"a", "b"}}, x, []string{"a", "a"})
	if err != nil {
		t.Fatal(err)
	}
	if m.Accuracy != 0.5 {
		t.Errorf("Expected accuracy 0.5, got %.2f", m.Accuracy)
	}

	boom := errors.New("boom")
	if _, err := Evaluate(fixedPredictor{err: boom}, x, []string{"a", "a"}); !errors.Is(err, boom) {
		t.Errorf("Expected the predictor error, got %v", err)
	}
}

func TestTrainingSetEvaluator(t *testing.T) {
	p := fitScenarioPipeline(t)
	e := NewTrainingSetEvaluator(p)

	m, err := e.Evaluate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if m.Report.Total != 3 {
		t.Errorf("Expected 3 evaluated rows, got %d", m.Report.Total)
	}
	if m.Accuracy < 0 || m.Accuracy > 1 {
		t.Errorf("Accuracy out of range: %.2f", m.Accuracy)
	}

	// Evaluating twice gives identical results.
	again, _ := e.Evaluate(context.Background())
	if again.Accuracy != m.Accuracy || again.F1 != m.F1 {
		t.Error("Repeated evaluation differs")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Evaluate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	unfitted := NewTrainingSetEvaluator(NewPipeline(NewNormalizer(nil)))
	if _, err := unfitted.Evaluate(context.Background()); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Expected ErrNotFitted, got %v", err)
	}
}

func TestHoldoutEvaluator(t *testing.T) {
	p := fitScenarioPipeline(t)

	if _, err := NewHoldoutEvaluator(p, Corpus{}); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("Expected ErrEmptyCorpus, got %v", err)
	}

	holdout := NewCorpus([]string{"Stolen card again", "Question about my loan payment"}, []string{"Fraud", "Loan"})
	e, err := NewHoldoutEvaluator(p, holdout)
	if err != nil {
		t.Fatal(err)
	}
	m, err := e.Evaluate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if m.Report.Total != 2 {
		t.Errorf("Expected 2 evaluated rows, got %d", m.Report.Total)
	}
	if m.Accuracy != 1 {
		t.Errorf("Expected both held-out rows to be classified correctly, got %.2f\n%s", m.Accuracy, m.Report)
	}
}
