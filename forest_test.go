package complaints

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"strings"
	"sync"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// separableData returns rows where class "A" has every feature in [0, 1)
// and class "B" has every feature in [2, 3).
func separableData(rows, cols int, seed int64) (*mat.Dense, []string) {
	rng := rand.New(rand.NewSource(seed))
	x := mat.NewDense(rows, cols, nil)
	labels := make([]string, rows)
	for i := 0; i < rows; i++ {
		base := 0.0
		labels[i] = "A"
		if i%2 == 1 {
			base = 2
			labels[i] = "B"
		}
		for j := 0; j < cols; j++ {
			x.Set(i, j, base+rng.Float64())
		}
	}
	return x, labels
}

func TestRandomForestFit(t *testing.T) {
	x, labels := separableData(40, 4, 1)

	f := NewRandomForest(DefaultForestConfig())
	if err := f.Fit(context.Background(), x, labels); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if f.NumTrees() != 100 {
		t.Errorf("Expected 100 trees, got %d", f.NumTrees())
	}
	if f.NumFeatures() != 4 {
		t.Errorf("Expected 4 features, got %d", f.NumFeatures())
	}
	if !reflect.DeepEqual(f.Classes(), []string{"A", "B"}) {
		t.Errorf("Expected sorted classes, got %v", f.Classes())
	}
	if d := f.MaxTreeDepth(); d < 1 {
		t.Errorf("Expected at least one split, got depth %d", d)
	}

	predicted, err := f.Predict(x)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(predicted, labels) {
		t.Errorf("Expected perfect training predictions\nExpected: %v\nGot: %v", labels, predicted)
	}
}

func TestRandomForestDeterministic(t *testing.T) {
	x, labels := separableData(30, 6, 7)
	// Overlap the classes so trees disagree and the votes carry information.
	for j := 0; j < 6; j++ {
		x.Set(0, j, 2.5)
		x.Set(1, j, 0.5)
	}

	fit := func(workers int) *RandomForest {
		config := DefaultForestConfig()
		config.Workers = workers
		f := NewRandomForest(config)
		if err := f.Fit(context.Background(), x, labels); err != nil {
			t.Fatalf("Fit with %d workers failed: %v", workers, err)
		}
		return f
	}

	serial := fit(1)
	parallel := fit(8)
	again := fit(8)

	for i := 0; i < 30; i++ {
		row := x.RowView(i)
		p1, _ := serial.PredictProba(row)
		p2, _ := parallel.PredictProba(row)
		p3, _ := again.PredictProba(row)
		if !reflect.DeepEqual(p1, p2) || !reflect.DeepEqual(p2, p3) {
			t.Fatalf("Row %d: votes differ between runs: %v %v %v", i, p1, p2, p3)
		}
	}
}

func TestRandomForestSeedMatters(t *testing.T) {
	x, labels := separableData(30, 6, 7)
	for j := 0; j < 6; j++ {
		x.Set(0, j, 2.5)
		x.Set(1, j, 0.5)
	}

	votes := func(seed int64) []map[string]float64 {
		config := DefaultForestConfig()
		config.Seed = seed
		f := NewRandomForest(config)
		if err := f.Fit(context.Background(), x, labels); err != nil {
			t.Fatal(err)
		}
		out := make([]map[string]float64, 30)
		for i := range out {
			out[i], _ = f.PredictProba(x.RowView(i))
		}
		return out
	}

	if reflect.DeepEqual(votes(42), votes(43)) {
		t.Error("Expected different seeds to produce different vote shares")
	}
}

func TestRandomForestPredictProba(t *testing.T) {
	x, labels := separableData(20, 3, 3)
	f := NewRandomForest(DefaultForestConfig())
	if err := f.Fit(context.Background(), x, labels); err != nil {
		t.Fatal(err)
	}

	proba, err := f.PredictProba(mat.NewVecDense(3, []float64{0.5, 0.5, 0.5}))
	if err != nil {
		t.Fatal(err)
	}
	sum := 0.0
	for _, p := range proba {
		sum += p
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("Expected probabilities to sum to 1, got %f", sum)
	}
	if proba["A"] != 1 {
		t.Errorf("Expected every tree to vote A, got %v", proba)
	}
}

func TestRandomForestErrors(t *testing.T) {
	f := NewRandomForest(DefaultForestConfig())
	if _, err := f.PredictOne(mat.NewVecDense(2, nil)); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Expected ErrNotFitted, got %v", err)
	}
	if _, err := f.Predict(mat.NewDense(1, 2, nil)); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Expected ErrNotFitted, got %v", err)
	}

	x, labels := separableData(10, 4, 1)
	if err := f.Fit(context.Background(), x, labels[:5]); err == nil {
		t.Error("Expected an error for mismatched labels")
	}
	if err := f.Fit(context.Background(), x, labels); err != nil {
		t.Fatal(err)
	}

	_, err := f.PredictOne(mat.NewVecDense(3, nil))
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("Expected ErrDimensionMismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), "vocabulary of size 4") {
		t.Errorf("Expected the fitted width in the message, got %q", err.Error())
	}
	var dim *DimensionMismatchError
	if !errors.As(err, &dim) || dim.Got != 3 || dim.VocabularySize != 4 {
		t.Errorf("Unexpected error value: %#v", err)
	}

	if _, err := f.Predict(mat.NewDense(2, 5, nil)); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch for a matrix, got %v", err)
	}
}

func TestRandomForestCancelled(t *testing.T) {
	x, labels := separableData(10, 4, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewRandomForest(DefaultForestConfig())
	if err := f.Fit(ctx, x, labels); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if f.Fitted() {
		t.Error("Forest should not be fitted after cancellation")
	}
}

func TestRandomForestProgress(t *testing.T) {
	x, labels := separableData(10, 4, 1)

	var mu sync.Mutex
	calls, last := 0, 0
	config := DefaultForestConfig()
	config.Trees = 25
	config.OnTree = func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if done > last {
			last = done
		}
		if total != 25 {
			t.Errorf("Expected total 25, got %d", total)
		}
	}

	if err := NewRandomForest(config).Fit(context.Background(), x, labels); err != nil {
		t.Fatal(err)
	}
	if calls != 25 || last != 25 {
		t.Errorf("Expected 25 progress calls ending at 25, got %d calls ending at %d", calls, last)
	}
}

func TestArgmaxTies(t *testing.T) {
	tests := []struct {
		votes    []int
		expected int
		desc     string
	}{
		{[]int{3, 5, 1}, 1, "Clear winner"},
		{[]int{4, 4}, 0, "Tie goes to the first class"},
		{[]int{0, 2, 2}, 1, "Tie after a loser"},
		{[]int{0}, 0, "Single class"},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := argmaxInt(tt.votes); got != tt.expected {
				t.Errorf("Votes: %v\nExpected: %d\nGot: %d", tt.votes, tt.expected, got)
			}
		})
	}
}

func TestPipelineScenario(t *testing.T) {
	p := fitScenarioPipeline(t)

	tests := []struct {
		text     string
		expected string
	}{
		{"someone stole my card", "Fraud"},
		{"My card was stolen!", "Fraud"},
		{"I have a question about my loan payment", "Loan"},
	}
	for _, tt := range tests {
		got, err := p.Classify(tt.text)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tt.text, err)
		}
		if got != tt.expected {
			t.Errorf("Text: %q\nExpected: %s\nGot: %s", tt.text, tt.expected, got)
		}
	}

	if p.Vectorizer().VocabularySize() != p.Model().NumFeatures() {
		t.Errorf("Vectorizer width %d differs from model width %d",
			p.Vectorizer().VocabularySize(), p.Model().NumFeatures())
	}

	// Text with no known terms still yields a label.
	if _, err := p.Classify("zzzz qqqq"); err != nil {
		t.Errorf("Expected a label for out-of-vocabulary text, got %v", err)
	}
}

func TestPipelineComplaintCorpus(t *testing.T) {
	corpus := NewCorpus(
		[]string{"card was stolen, very upset", "loan payment question", "stolen card again"},
		[]string{"Fraud", "Loan", "Fraud"},
	)

	tests := []struct {
		normalizeCorpus bool
		desc            string
	}{
		{false, "Corpus used as-is"},
		{true, "Corpus normalized"},
	}

	res := loadTestResources(t)
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			config := DefaultTrainingConfig()
			config.NormalizeCorpus = tt.normalizeCorpus

			p, _, _, err := NewTrainer(config, NewNormalizer(res)).Train(corpus)
			if err != nil {
				t.Fatalf("Train failed: %v", err)
			}
			got, err := p.Classify("someone stole my card")
			if err != nil {
				t.Fatal(err)
			}
			if got != "Fraud" {
				t.Errorf("Expected Fraud, got %s (vocabulary %v)", got, p.Vectorizer().Vocabulary())
			}
		})
	}
}

func BenchmarkRandomForestFit(b *testing.B) {
	x, labels := separableData(200, 50, 1)
	config := DefaultForestConfig()
	config.Trees = 20
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := NewRandomForest(config).Fit(context.Background(), x, labels); err != nil {
			b.Fatal(err)
		}
	}
}
