package complaints

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// ForestConfig configures a RandomForest
type ForestConfig struct {
	Trees           int   // number of trees, default 100
	Seed            int64 // master seed for bootstrap and feature sampling
	MaxFeatures     int   // features tried per split; 0 means floor(sqrt(n))
	MaxDepth        int   // 0 means grow until leaves are pure
	MinSamplesSplit int   // minimum distinct rows needed to split a node
	Workers         int   // concurrent tree builders; 0 means runtime.NumCPU()

	// OnTree is called after each tree is grown, possibly from several
	// goroutines at once.
	OnTree func(done, total int)
}

// DefaultForestConfig returns the standard forest configuration
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           100,
		Seed:            42,
		MinSamplesSplit: 2,
	}
}

// RandomForest is an ensemble of CART trees grown on bootstrap resamples
// that predicts by majority vote.
type RandomForest struct {
	config    ForestConfig
	trees     []*decisionTree
	classes   []string
	nFeatures int
}

// NewRandomForest creates an unfitted forest.
func NewRandomForest(config ForestConfig) *RandomForest {
	if config.Trees <= 0 {
		config.Trees = 100
	}
	if config.MinSamplesSplit < 2 {
		config.MinSamplesSplit = 2
	}
	return &RandomForest{config: config}
}

// Fit grows the forest on features (one row per example) and labels. Tree
// seeds are drawn in order from the master seed before any tree is grown, so
// the fitted forest does not depend on the number of workers.
func (f *RandomForest) Fit(ctx context.Context, features mat.Matrix, labels []string) error {
	rows, cols := features.Dims()
	if rows == 0 || len(labels) == 0 {
		return ErrEmptyCorpus
	}
	if rows != len(labels) {
		return fmt.Errorf("features have %d rows but %d labels were given", rows, len(labels))
	}

	classes := uniqueSorted(labels)
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	y := make([]int, rows)
	for i, l := range labels {
		y[i] = index[l]
	}

	mtry := f.config.MaxFeatures
	if mtry <= 0 {
		mtry = int(math.Sqrt(float64(cols)))
	}
	if mtry < 1 {
		mtry = 1
	}
	if mtry > cols {
		mtry = cols
	}

	master := rand.New(rand.NewSource(f.config.Seed))
	seeds := make([]int64, f.config.Trees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	workers := f.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	trees := make([]*decisionTree, f.config.Trees)
	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for t := range trees {
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seeds[t]))

			weights := make([]float64, rows)
			for i := 0; i < rows; i++ {
				weights[rng.Intn(rows)]++
			}
			sample := make([]weightedRow, 0, rows)
			for i, w := range weights {
				if w > 0 {
					sample = append(sample, weightedRow{row: i, weight: w})
				}
			}

			b := &treeBuilder{
				x:               features,
				y:               y,
				nClasses:        len(classes),
				nFeatures:       cols,
				mtry:            mtry,
				maxDepth:        f.config.MaxDepth,
				minSamplesSplit: f.config.MinSamplesSplit,
				rng:             rng,
			}
			trees[t] = b.build(sample)

			n := done.Add(1)
			if f.config.OnTree != nil {
				f.config.OnTree(int(n), len(trees))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("growing forest: %w", err)
	}

	f.trees = trees
	f.classes = classes
	f.nFeatures = cols
	return nil
}

// Fitted reports whether Fit has completed.
func (f *RandomForest) Fitted() bool {
	return len(f.trees) > 0
}

// Classes returns the sorted class labels.
func (f *RandomForest) Classes() []string {
	out := make([]string, len(f.classes))
	copy(out, f.classes)
	return out
}

// NumFeatures returns the feature width the forest was fitted on.
func (f *RandomForest) NumFeatures() int {
	return f.nFeatures
}

// NumTrees returns the number of fitted trees.
func (f *RandomForest) NumTrees() int {
	return len(f.trees)
}

// MaxTreeDepth returns the depth of the deepest tree.
func (f *RandomForest) MaxTreeDepth() int {
	deepest := 0
	for _, t := range f.trees {
		if d := t.depth(); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// Predict returns the majority-vote label for each row of features.
func (f *RandomForest) Predict(features mat.Matrix) ([]string, error) {
	if !f.Fitted() {
		return nil, ErrNotFitted
	}
	rows, cols := features.Dims()
	if cols != f.nFeatures {
		return nil, NewDimensionMismatchError(cols, f.nFeatures)
	}
	out := make([]string, rows)
	for i := 0; i < rows; i++ {
		row := i
		votes := f.votes(func(j int) float64 { return features.At(row, j) })
		out[i] = f.classes[argmaxInt(votes)]
	}
	return out, nil
}

// PredictOne returns the majority-vote label for a single feature vector.
func (f *RandomForest) PredictOne(v mat.Vector) (string, error) {
	votes, err := f.vectorVotes(v)
	if err != nil {
		return "", err
	}
	return f.classes[argmaxInt(votes)], nil
}

// PredictProba returns the share of trees voting for each class.
func (f *RandomForest) PredictProba(v mat.Vector) (map[string]float64, error) {
	votes, err := f.vectorVotes(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(f.classes))
	for i, c := range f.classes {
		out[c] = float64(votes[i]) / float64(len(f.trees))
	}
	return out, nil
}

func (f *RandomForest) vectorVotes(v mat.Vector) ([]int, error) {
	if !f.Fitted() {
		return nil, ErrNotFitted
	}
	if v.Len() != f.nFeatures {
		return nil, NewDimensionMismatchError(v.Len(), f.nFeatures)
	}
	return f.votes(v.AtVec), nil
}

func (f *RandomForest) votes(at func(j int) float64) []int {
	votes := make([]int, len(f.classes))
	for _, t := range f.trees {
		votes[t.predict(at)]++
	}
	return votes
}

// argmaxInt returns the first index holding the largest count, so ties go to
// the alphabetically first class.
func argmaxInt(values []int) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
